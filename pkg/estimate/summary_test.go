// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package estimate

import (
	"testing"
)

func row(password string, crackTime *float64, rating Rating, winner string) BatchPasswordResult {
	r := BatchPasswordResult{
		Password:         password,
		CrackTimeSeconds: crackTime,
		Rating:           rating,
		WinningAttack:    winner,
	}
	if crackTime != nil {
		r.GuessNumber = Float(*crackTime * 1000)
	}
	return r
}

func TestMedian(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{7}, 7},
		{"odd", []float64{9, 1, 5}, 5},
		{"even takes mean of middle values", []float64{10, 1, 4, 2}, 3},
		{"even with duplicates", []float64{2, 2, 8, 8}, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Median(tc.values); got != tc.want {
				t.Errorf("Median(%v) should be %g, got %g", tc.values, tc.want, got)
			}
		})
	}
}

func TestMedian_DoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("Median should not modify its input, got %v", values)
	}
}

func TestSummarize(t *testing.T) {
	results := []BatchPasswordResult{
		row("password", Float(0.5), 0, "dictionary"),
		row("letmein", Float(2), 0, "dictionary"),
		row("Tr0ub4dor&3", Float(86400*400), 3, "pattern_decomposition"),
		row("", nil, 0, ""),
		row("correct horse", Float(100), 1, "brute_force"),
	}

	s := Summarize(results)

	// 0.5, 2, 100, 34560000 -> mean of 2 and 100
	if s.MedianCrackTimeSeconds != 51 {
		t.Errorf("Median should exclude null crack times and be 51, got %g", s.MedianCrackTimeSeconds)
	}

	if s.RatingDistribution[0] != 3 || s.RatingDistribution[1] != 1 || s.RatingDistribution[3] != 1 {
		t.Errorf("Unexpected rating distribution %v", s.RatingDistribution)
	}

	if n := sumCounts(s.RatingDistribution); n != len(results) {
		t.Errorf("Rating distribution should count %d passwords, counts %d", len(results), n)
	}

	if _, ok := s.WinningAttackDistribution[""]; ok {
		t.Errorf("Passwords without a winning attack should not be counted")
	}

	if n := sumCounts(s.WinningAttackDistribution); n != len(results)-1 {
		t.Errorf("Winning attack distribution should count %d passwords, counts %d", len(results)-1, n)
	}

	if s.WinningAttackDistribution["dictionary"] != 2 {
		t.Errorf("Dictionary should have won twice, got %d", s.WinningAttackDistribution["dictionary"])
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	if s.MedianCrackTimeSeconds != 0 {
		t.Errorf("Median of an empty batch should be 0, got %g", s.MedianCrackTimeSeconds)
	}

	if len(s.RatingDistribution) != 0 || len(s.WinningAttackDistribution) != 0 {
		t.Errorf("Distributions of an empty batch should be empty")
	}
}
