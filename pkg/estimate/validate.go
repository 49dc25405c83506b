// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package estimate

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrNullityMismatch  = errors.New("guess number and crack time must be null together")
	ErrRatingOutOfRange = errors.New("rating out of range")
	ErrWinningAttack    = errors.New("winning attack does not match strategies")
	ErrDecomposition    = errors.New("decomposition does not tile the password")
	ErrBatchTotal       = errors.New("total passwords does not match results")
	ErrBatchSummary     = errors.New("summary does not match results")
	ErrRatingOrder      = errors.New("rating decreases as crack time grows")
)

// medianTolerance is the relative difference allowed between a reported and a recomputed
// median, enough to absorb float formatting on the wire.
const medianTolerance = 1e-9

// Validate checks the invariants of a single estimate.
func (r EstimateResponse) Validate() error {
	if (r.GuessNumber == nil) != (r.CrackTimeSeconds == nil) {
		return fmt.Errorf("%w: guess_number=%v crack_time_seconds=%v",
			ErrNullityMismatch, describe(r.GuessNumber), describe(r.CrackTimeSeconds))
	}

	if !r.Rating.Valid() {
		return fmt.Errorf("%w: %d", ErrRatingOutOfRange, r.Rating)
	}

	if err := CheckWinningAttack(r.WinningAttack, r.Strategies); err != nil {
		return err
	}

	// A computable estimate of a non-empty password must explain every rune.
	computable := r.GuessNumber != nil && r.Password != ""
	if computable || len(r.Decomposition) > 0 {
		if err := CheckDecomposition(r.Password, r.Decomposition); err != nil {
			return err
		}
	}

	return nil
}

// CheckWinningAttack verifies that winner names the strategy with the smallest non-null
// guess number. With no strategy able to crack the password the winner must be empty or one of
// the evaluated strategies.
func CheckWinningAttack(winner string, strategies map[string]StrategyInfo) error {
	best := math.Inf(1)
	found := false
	for _, s := range strategies {
		if s.GuessNumber != nil && *s.GuessNumber < best {
			best = *s.GuessNumber
			found = true
		}
	}

	s, ok := strategies[winner]
	if !found {
		if winner != "" && !ok {
			return fmt.Errorf("%w: %q is not an evaluated strategy", ErrWinningAttack, winner)
		}
		return nil
	}

	if !ok {
		return fmt.Errorf("%w: %q is not an evaluated strategy", ErrWinningAttack, winner)
	}

	if s.GuessNumber == nil || *s.GuessNumber != best {
		return fmt.Errorf("%w: %q has %v guesses, minimum is %g",
			ErrWinningAttack, winner, describe(s.GuessNumber), best)
	}

	return nil
}

// CheckDecomposition verifies that the segments, ordered by start index, cover every rune
// of the password exactly once and that their text rebuilds it.
func CheckDecomposition(password string, segments []DecompositionSegment) error {
	runes := []rune(password)

	ordered := make([]DecompositionSegment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(a, b int) bool { return ordered[a].I < ordered[b].I })

	next := 0
	for _, s := range ordered {
		if s.I != next {
			if s.I < next {
				return fmt.Errorf("%w: segment %q at [%d,%d] overlaps rune %d", ErrDecomposition, s.Segment, s.I, s.J, next)
			}
			return fmt.Errorf("%w: gap before segment %q at [%d,%d]", ErrDecomposition, s.Segment, s.I, s.J)
		}

		if s.J < s.I || s.J >= len(runes) {
			return fmt.Errorf("%w: segment %q has invalid bounds [%d,%d]", ErrDecomposition, s.Segment, s.I, s.J)
		}

		if text := string(runes[s.I : s.J+1]); text != s.Segment {
			return fmt.Errorf("%w: segment %q does not match password text %q", ErrDecomposition, s.Segment, text)
		}

		next = s.J + 1
	}

	if next != len(runes) {
		return fmt.Errorf("%w: covers %d of %d runes", ErrDecomposition, next, len(runes))
	}

	return nil
}

// Validate checks that the batch counts agree and that the summary can be recomputed from the
// per-password results.
func (b BatchResponse) Validate() error {
	if b.TotalPasswords != len(b.Passwords) {
		return fmt.Errorf("%w: total_passwords=%d, %d results", ErrBatchTotal, b.TotalPasswords, len(b.Passwords))
	}

	if n := sumCounts(b.Summary.RatingDistribution); n != b.TotalPasswords {
		return fmt.Errorf("%w: rating distribution counts %d passwords of %d", ErrBatchSummary, n, b.TotalPasswords)
	}

	for _, p := range b.Passwords {
		if (p.GuessNumber == nil) != (p.CrackTimeSeconds == nil) {
			return fmt.Errorf("%w: password %q", ErrNullityMismatch, p.Password)
		}
		if !p.Rating.Valid() {
			return fmt.Errorf("%w: %d", ErrRatingOutOfRange, p.Rating)
		}
	}

	want := Summarize(b.Passwords)
	if !closeEnough(b.Summary.MedianCrackTimeSeconds, want.MedianCrackTimeSeconds) {
		return fmt.Errorf("%w: median %g, recomputed %g", ErrBatchSummary,
			b.Summary.MedianCrackTimeSeconds, want.MedianCrackTimeSeconds)
	}

	if !sameDistribution(b.Summary.RatingDistribution, want.RatingDistribution) {
		return fmt.Errorf("%w: rating distribution %v, recomputed %v", ErrBatchSummary,
			b.Summary.RatingDistribution, want.RatingDistribution)
	}

	if !sameDistribution(b.Summary.WinningAttackDistribution, want.WinningAttackDistribution) {
		return fmt.Errorf("%w: winning attack distribution %v, recomputed %v", ErrBatchSummary,
			b.Summary.WinningAttackDistribution, want.WinningAttackDistribution)
	}

	return nil
}

// CheckRatingMonotonic verifies over a set of estimates that a longer crack time never comes
// with a lower rating. Estimates without a crack time are ignored.
func CheckRatingMonotonic(results []EstimateResponse) error {
	defined := make([]EstimateResponse, 0, len(results))
	for _, r := range results {
		if r.CrackTimeSeconds != nil {
			defined = append(defined, r)
		}
	}

	sort.SliceStable(defined, func(a, b int) bool {
		return *defined[a].CrackTimeSeconds < *defined[b].CrackTimeSeconds
	})

	// shorter holds the highest rating among strictly shorter crack times, group the highest
	// among the crack times equal to the current one.
	var shorter, group *EstimateResponse
	for i := range defined {
		cur := &defined[i]
		if i > 0 && *cur.CrackTimeSeconds > *defined[i-1].CrackTimeSeconds {
			if shorter == nil || group.Rating > shorter.Rating {
				shorter = group
			}
			group = nil
		}

		if shorter != nil && cur.Rating < shorter.Rating {
			return fmt.Errorf("%w: %gs rated %d, %gs rated %d", ErrRatingOrder,
				*shorter.CrackTimeSeconds, shorter.Rating, *cur.CrackTimeSeconds, cur.Rating)
		}

		if group == nil || cur.Rating > group.Rating {
			group = cur
		}
	}

	return nil
}

func closeEnough(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	return diff <= medianTolerance*scale
}

func describe(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%g", *v)
}
