// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package simulate is a small estimation engine behind the development service. It leans on
// zxcvbn for pattern matching and only aims to produce answers with the right shape and
// invariants, not production-grade guess numbers.
package simulate

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alvinbaena/crack-time/pkg/estimate"
	"github.com/dgraph-io/ristretto"
	"github.com/nbutton23/zxcvbn-go"
	"github.com/nbutton23/zxcvbn-go/match"
	"github.com/rs/zerolog/log"
)

const (
	StrategyPatterns   = "pattern_decomposition"
	StrategyBruteForce = "brute_force"
	StrategyTargeted   = "targeted_context"
)

// strategyOrder decides ties: a later strategy only wins with strictly fewer guesses.
var strategyOrder = []string{StrategyPatterns, StrategyBruteForce, StrategyTargeted}

type Estimator struct {
	catalog *Catalog
	cache   *ristretto.Cache
	workers int
}

type Option func(*Estimator)

// WithWorkers bounds the goroutines used by Batch. Less than 1 means one per CPU.
func WithWorkers(n int) Option {
	return func(e *Estimator) {
		e.workers = n
	}
}

func NewEstimator(catalog *Catalog, opts ...Option) (*Estimator, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 100_000,
		MaxCost:     10_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	e := &Estimator{catalog: catalog, cache: cache}
	for _, opt := range opts {
		opt(e)
	}

	if e.workers < 1 {
		e.workers = runtime.NumCPU()
	}

	return e, nil
}

func (e *Estimator) Catalog() *Catalog {
	return e.catalog
}

// Close releases the cache goroutines.
func (e *Estimator) Close() {
	e.cache.Close()
}

// Estimate evaluates a password without any knowledge about its owner.
func (e *Estimator) Estimate(password, algorithm, tier string) (estimate.EstimateResponse, error) {
	rate, err := e.catalog.EffectiveRate(algorithm, tier)
	if err != nil {
		return estimate.EstimateResponse{}, err
	}

	return e.estimate(password, algorithm, tier, rate), nil
}

// Targeted evaluates a password against an attacker who knows the context items. Items found
// in the password (ignoring case) feed zxcvbn as user inputs. The result never needs more
// guesses than the untargeted estimate.
func (e *Estimator) Targeted(password, algorithm, tier string, context []string) (estimate.EstimateResponse, error) {
	rate, err := e.catalog.EffectiveRate(algorithm, tier)
	if err != nil {
		return estimate.EstimateResponse{}, err
	}

	base := e.estimate(password, algorithm, tier, rate)
	matched := matchContext(password, context)
	if len(matched) == 0 || base.GuessNumber == nil {
		return base, nil
	}

	targeted, segments, ok := patternGuesses(password, matched)
	if !ok {
		return base, nil
	}

	// Copy what is shared with the cache before changing it.
	strategies := make(map[string]estimate.StrategyInfo, len(base.Strategies)+1)
	for k, v := range base.Strategies {
		strategies[k] = v
	}

	guesses := math.Min(targeted, *base.GuessNumber)
	strategies[StrategyTargeted] = estimate.StrategyInfo{
		GuessNumber: estimate.Float(guesses),
		AttackName:  "Targeted attack (personal context)",
		Details:     map[string]any{"matched_context": matched},
	}

	decomposition := base.Decomposition
	if guesses < *base.GuessNumber {
		decomposition = segments
	}

	return build(password, algorithm, tier, rate, strategies, decomposition), nil
}

func (e *Estimator) estimate(password, algorithm, tier string, rate float64) estimate.EstimateResponse {
	r, _ := e.evaluate(password, algorithm, tier, rate)
	return r
}

// evaluate also reports whether the estimate came from the cache.
func (e *Estimator) evaluate(password, algorithm, tier string, rate float64) (estimate.EstimateResponse, bool) {
	key := cacheKey(password, algorithm, tier)
	if v, ok := e.cache.Get(key); ok {
		return v.(estimate.EstimateResponse), true
	}

	var r estimate.EstimateResponse
	if strings.ReplaceAll(password, "\x00", "") == "" {
		r = uncomputable(password, algorithm, tier, rate)
	} else {
		strategies := make(map[string]estimate.StrategyInfo, 2)
		var decomposition []estimate.DecompositionSegment

		patterns, segments, ok := patternGuesses(password, nil)
		if ok {
			strategies[StrategyPatterns] = estimate.StrategyInfo{
				GuessNumber: finite(patterns),
				AttackName:  "Pattern decomposition",
				Details:     map[string]any{"segments": len(segments)},
			}
			decomposition = segments
		} else {
			strategies[StrategyPatterns] = estimate.StrategyInfo{
				AttackName: "Pattern decomposition",
				Details:    map[string]any{"error": true},
			}
		}

		cardinality := charsetCardinality(password)
		strategies[StrategyBruteForce] = estimate.StrategyInfo{
			GuessNumber: finite(math.Pow(float64(cardinality), float64(utf8.RuneCountInString(password)))),
			AttackName:  "Brute force",
			Details:     map[string]any{"cardinality": cardinality, "length": utf8.RuneCountInString(password)},
		}

		if decomposition == nil {
			decomposition = []estimate.DecompositionSegment{bruteForceSegment([]rune(password), 0, utf8.RuneCountInString(password)-1)}
		}

		r = build(password, algorithm, tier, rate, strategies, decomposition)
	}

	e.cache.Set(key, r, 1)
	return r, false
}

// build picks the winning strategy and derives crack time, rating and display from it.
func build(password, algorithm, tier string, rate float64,
	strategies map[string]estimate.StrategyInfo, decomposition []estimate.DecompositionSegment) estimate.EstimateResponse {
	winner := ""
	best := math.Inf(1)
	for _, name := range strategyOrder {
		s, ok := strategies[name]
		if ok && s.GuessNumber != nil && *s.GuessNumber < best {
			winner, best = name, *s.GuessNumber
		}
	}

	r := estimate.EstimateResponse{
		Password:          password,
		HashAlgorithm:     algorithm,
		HardwareTier:      tier,
		EffectiveHashRate: rate,
		WinningAttack:     winner,
		Strategies:        strategies,
		Decomposition:     decomposition,
	}

	// No strategy finishing means the password outlasts every attack.
	seconds := math.Inf(1)
	if winner != "" {
		seconds = best / rate
		r.GuessNumber = estimate.Float(best)
		r.CrackTimeSeconds = finite(seconds)
		if r.CrackTimeSeconds == nil {
			r.GuessNumber = nil
		}
	}

	r.CrackTimeDisplay = DisplayTime(seconds)
	r.Rating = RateCrackTime(seconds)
	r.RatingLabel = RatingLabel(r.Rating)
	return r
}

func uncomputable(password, algorithm, tier string, rate float64) estimate.EstimateResponse {
	return estimate.EstimateResponse{
		Password:          password,
		HashAlgorithm:     algorithm,
		HardwareTier:      tier,
		EffectiveHashRate: rate,
		CrackTimeDisplay:  DisplayTime(0),
		Rating:            0,
		RatingLabel:       RatingLabel(0),
		Strategies:        map[string]estimate.StrategyInfo{},
		Decomposition:     []estimate.DecompositionSegment{},
	}
}

// patternGuesses runs zxcvbn and returns 2^entropy guesses with the matched segments. zxcvbn
// is known to panic on some inputs; that counts as the strategy failing.
func patternGuesses(password string, userInputs []string) (guesses float64, segments []estimate.DecompositionSegment, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Msgf("pattern matching failed: %v", r)
			guesses, segments, ok = 0, nil, false
		}
	}()

	m := zxcvbn.PasswordStrength(password, userInputs)
	return math.Pow(2, m.Entropy), tile(password, m.MatchSequence), true
}

// tile turns zxcvbn matches, which use inclusive byte offsets, into segments with inclusive
// rune offsets covering the whole password. Uncovered runes become brute force segments and
// matches overlapping an earlier one are dropped.
func tile(password string, matches []match.Match) []estimate.DecompositionSegment {
	runes := []rune(password)
	runeAt := make([]int, len(password))
	ri := 0
	for bi := range password {
		runeAt[bi] = ri
		ri++
	}
	for bi := 1; bi < len(runeAt); bi++ {
		if !utf8.RuneStart(password[bi]) {
			runeAt[bi] = runeAt[bi-1]
		}
	}

	segments := make([]estimate.DecompositionSegment, 0, len(matches)+1)
	next := 0
	for _, m := range matches {
		if m.I < 0 || m.J < m.I || m.J >= len(password) {
			continue
		}

		i, j := runeAt[m.I], runeAt[m.J]
		if i < next {
			continue
		}
		if i > next {
			segments = append(segments, bruteForceSegment(runes, next, i-1))
		}

		segments = append(segments, estimate.DecompositionSegment{
			Segment: string(runes[i : j+1]),
			Type:    patternType(m.Pattern),
			Guesses: bounded(math.Pow(2, m.Entropy)),
			I:       i,
			J:       j,
		})
		next = j + 1
	}

	if next < len(runes) {
		segments = append(segments, bruteForceSegment(runes, next, len(runes)-1))
	}

	return segments
}

func bruteForceSegment(runes []rune, i, j int) estimate.DecompositionSegment {
	token := string(runes[i : j+1])
	return estimate.DecompositionSegment{
		Segment: token,
		Type:    StrategyBruteForce,
		Guesses: bounded(math.Pow(float64(charsetCardinality(token)), float64(j-i+1))),
		I:       i,
		J:       j,
	}
}

func patternType(pattern string) string {
	if pattern == "bruteforce" {
		return StrategyBruteForce
	}
	return pattern
}

// charsetCardinality is the size of the smallest alphabet made of the character classes
// present in s.
func charsetCardinality(s string) int {
	var lower, upper, digit, symbol, other bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r < utf8.RuneSelf && unicode.IsPrint(r):
			symbol = true
		default:
			other = true
		}
	}

	n := 0
	for _, class := range []struct {
		present bool
		size    int
	}{{lower, 26}, {upper, 26}, {digit, 10}, {symbol, 33}, {other, 100}} {
		if class.present {
			n += class.size
		}
	}
	return n
}

// matchContext returns the non-empty context items found in the password, ignoring case.
func matchContext(password string, context []string) []string {
	lower := strings.ToLower(password)
	matched := make([]string, 0, len(context))
	for _, c := range context {
		if c = strings.TrimSpace(c); c != "" && strings.Contains(lower, strings.ToLower(c)) {
			matched = append(matched, c)
		}
	}
	return matched
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return estimate.Float(v)
}

// bounded keeps segment guesses encodable as JSON numbers.
func bounded(v float64) float64 {
	if math.IsInf(v, 1) || math.IsNaN(v) {
		return math.MaxFloat64
	}
	return v
}

func cacheKey(password, algorithm, tier string) string {
	h := sha256.New()
	for _, part := range []string{algorithm, tier, password} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
