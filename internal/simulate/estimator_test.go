// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package simulate

import (
	"fmt"
	"testing"

	"github.com/alvinbaena/crack-time/pkg/estimate"
	"github.com/nbutton23/zxcvbn-go/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEstimator(t *testing.T, opts ...Option) *Estimator {
	t.Helper()
	c, err := DefaultCatalog()
	require.NoError(t, err)

	e, err := NewEstimator(c, opts...)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestEstimate_Invariants(t *testing.T) {
	e := newTestEstimator(t)

	for _, pw := range []string{"password", "john2024", "Tr0ub4dor&3", "correct horse battery staple", "café€2024!", "日本語パスワード", "x7#Qp!9vLz@2Rk$w8Nm^4Tb"} {
		t.Run(pw, func(t *testing.T) {
			r, err := e.Estimate(pw, "bcrypt_cost12", "consumer")
			require.NoError(t, err)
			assert.NoError(t, r.Validate())

			assert.Equal(t, pw, r.Password)
			assert.Equal(t, "bcrypt_cost12", r.HashAlgorithm)
			assert.Equal(t, "consumer", r.HardwareTier)
			assert.Equal(t, 1437.0, r.EffectiveHashRate)
			assert.Contains(t, r.Strategies, StrategyPatterns)
			assert.Contains(t, r.Strategies, StrategyBruteForce)
			assert.NotEmpty(t, r.Decomposition)
			assert.Equal(t, RatingLabel(r.Rating), r.RatingLabel)

			require.NotNil(t, r.CrackTimeSeconds)
			assert.InDelta(t, *r.GuessNumber/r.EffectiveHashRate, *r.CrackTimeSeconds, 1e-9**r.CrackTimeSeconds)
			assert.Equal(t, RateCrackTime(*r.CrackTimeSeconds), r.Rating)
		})
	}
}

func TestEstimate_Ratings(t *testing.T) {
	e := newTestEstimator(t)

	weak, err := e.Estimate("password", "bcrypt_cost12", "consumer")
	require.NoError(t, err)
	assert.Equal(t, estimate.Rating(0), weak.Rating)
	assert.Equal(t, "CRITICAL", weak.RatingLabel)

	strong, err := e.Estimate("x7#Qp!9vLz@2Rk$w8Nm^4Tb", "bcrypt_cost12", "consumer")
	require.NoError(t, err)
	assert.Equal(t, estimate.Rating(4), strong.Rating)
	assert.Equal(t, "VERY STRONG", strong.RatingLabel)
}

func TestEstimate_Uncomputable(t *testing.T) {
	e := newTestEstimator(t)

	for _, pw := range []string{"", "\x00\x00"} {
		r, err := e.Estimate(pw, "md5", "consumer")
		require.NoError(t, err)
		assert.NoError(t, r.Validate())

		assert.Nil(t, r.GuessNumber)
		assert.Nil(t, r.CrackTimeSeconds)
		assert.Equal(t, "instant", r.CrackTimeDisplay)
		assert.Equal(t, estimate.Rating(0), r.Rating)
		assert.Empty(t, r.WinningAttack)
		assert.NotNil(t, r.Strategies)
		assert.NotNil(t, r.Decomposition)
	}
}

func TestEstimate_UnknownNames(t *testing.T) {
	e := newTestEstimator(t)

	_, err := e.Estimate("pw", "rot13", "consumer")
	assert.ErrorContains(t, err, "Unknown algorithm: 'rot13'")

	_, err = e.Estimate("pw", "md5", "toaster")
	assert.ErrorContains(t, err, "Unknown hardware tier: 'toaster'")
}

func TestEstimate_FasterHardwareNeverTakesLonger(t *testing.T) {
	e := newTestEstimator(t)

	results, err := e.CompareAttackers("Summer2019!", "sha256", []string{"budget", "consumer", "dedicated", "nation_state"})
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, *results[i].CrackTimeSeconds, *results[i-1].CrackTimeSeconds)
		assert.LessOrEqual(t, results[i].Rating, results[i-1].Rating)
	}
}

func TestTargeted(t *testing.T) {
	e := newTestEstimator(t)

	base, err := e.Estimate("john2024", "bcrypt_cost12", "consumer")
	require.NoError(t, err)

	r, err := e.Targeted("john2024", "bcrypt_cost12", "consumer", []string{"John", "2024", "boston", " "})
	require.NoError(t, err)
	assert.NoError(t, r.Validate())

	require.Contains(t, r.Strategies, StrategyTargeted)
	targeted := r.Strategies[StrategyTargeted]
	assert.Equal(t, []string{"John", "2024"}, targeted.Details["matched_context"])
	assert.LessOrEqual(t, *targeted.GuessNumber, *base.GuessNumber)
	assert.LessOrEqual(t, *r.GuessNumber, *base.GuessNumber)
	assert.LessOrEqual(t, r.Rating, base.Rating)

	// the cached untargeted estimate is left alone
	again, err := e.Estimate("john2024", "bcrypt_cost12", "consumer")
	require.NoError(t, err)
	assert.NotContains(t, again.Strategies, StrategyTargeted)
}

func TestTargeted_NoMatchingContext(t *testing.T) {
	e := newTestEstimator(t)

	base, err := e.Estimate("john2024", "md5", "consumer")
	require.NoError(t, err)

	for _, ctx := range [][]string{nil, {}, {"alice", "1999"}} {
		r, err := e.Targeted("john2024", "md5", "consumer", ctx)
		require.NoError(t, err)
		assert.Equal(t, base, r)
	}
}

func TestBatch(t *testing.T) {
	e := newTestEstimator(t, WithWorkers(3))

	passwords := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		passwords = append(passwords, fmt.Sprintf("hunter%d", i))
	}
	passwords = append(passwords, "", "x7#Qp!9vLz@2Rk$w8Nm^4Tb")

	b, err := e.Batch(passwords, "md5", "consumer")
	require.NoError(t, err)
	assert.NoError(t, b.Validate())

	require.Len(t, b.Passwords, len(passwords))
	for i, p := range b.Passwords {
		assert.Equal(t, passwords[i], p.Password)
	}

	assert.Equal(t, len(passwords), b.TotalPasswords)
	assert.Equal(t, estimate.Summarize(b.Passwords), b.Summary)
}

func TestBatch_Empty(t *testing.T) {
	e := newTestEstimator(t)

	b, err := e.Batch(nil, "md5", "consumer")
	require.NoError(t, err)
	assert.NoError(t, b.Validate())
	assert.Equal(t, 0, b.TotalPasswords)
	assert.Zero(t, b.Summary.MedianCrackTimeSeconds)
	assert.NotNil(t, b.Passwords)
}

func TestBatch_UnknownTier(t *testing.T) {
	e := newTestEstimator(t)
	_, err := e.Batch([]string{"a", "b"}, "md5", "toaster")
	assert.Error(t, err)
}

func TestComparePasswords_KeepsOrder(t *testing.T) {
	e := newTestEstimator(t, WithWorkers(4))

	inputs := []string{"zzz", "password", "Tr0ub4dor&3", "a", "correct horse battery staple"}
	results, err := e.ComparePasswords(inputs, "sha1", "consumer")
	require.NoError(t, err)
	require.Len(t, results, len(inputs))

	for i, r := range results {
		assert.Equal(t, inputs[i], r.Password)
	}
	assert.NoError(t, estimate.CheckRatingMonotonic(results))
}

func TestTile(t *testing.T) {
	// "ab€cd": € takes bytes 2..4
	pw := "ab€cd"
	segments := tile(pw, []match.Match{
		{Pattern: "dictionary", I: 2, J: 5, Entropy: 3},
		{Pattern: "repeat", I: 3, J: 6, Entropy: 1},
	})

	require.NoError(t, estimate.CheckDecomposition(pw, segments))
	require.Len(t, segments, 3)

	assert.Equal(t, StrategyBruteForce, segments[0].Type)
	assert.Equal(t, "ab", segments[0].Segment)
	assert.Equal(t, 676.0, segments[0].Guesses)

	assert.Equal(t, estimate.DecompositionSegment{Segment: "€c", Type: "dictionary", Guesses: 8, I: 2, J: 3}, segments[1])
	assert.Equal(t, "d", segments[2].Segment)
}

func TestTile_BruteforcePatternName(t *testing.T) {
	segments := tile("abc", []match.Match{{Pattern: "bruteforce", I: 0, J: 2, Entropy: 4}})
	require.Len(t, segments, 1)
	assert.Equal(t, StrategyBruteForce, segments[0].Type)
}

func TestCharsetCardinality(t *testing.T) {
	assert.Equal(t, 26, charsetCardinality("abc"))
	assert.Equal(t, 62, charsetCardinality("aB3"))
	assert.Equal(t, 95, charsetCardinality("aB3 "))
	assert.Equal(t, 159, charsetCardinality("é!x"))
}
