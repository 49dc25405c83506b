// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package estimate

import (
	"math"

	"github.com/jfcg/sorty/v2"
)

// Summarize aggregates batch results. The summary depends on nothing but the results, so a
// caller can always recompute it to check what the service returned.
//
// Results without a crack time are left out of the median, and an even number of crack
// times yields the mean of the two middle values. With no crack time at all the median is 0.
// Results with an empty winning attack are not counted in the attack distribution.
func Summarize(results []BatchPasswordResult) BatchSummary {
	summary := BatchSummary{
		RatingDistribution:        make(map[Rating]int),
		WinningAttackDistribution: make(map[string]int),
	}

	times := make([]float64, 0, len(results))
	for _, r := range results {
		summary.RatingDistribution[r.Rating]++
		if r.WinningAttack != "" {
			summary.WinningAttackDistribution[r.WinningAttack]++
		}
		if r.CrackTimeSeconds != nil {
			times = append(times, *r.CrackTimeSeconds)
		}
	}

	summary.MedianCrackTimeSeconds = Median(times)
	return summary
}

// Median returns the median of values without modifying them, 0 when empty.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sorty.SortSlice(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}

	lo, hi := sorted[n/2-1], sorted[n/2]
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		// avoids Inf-Inf when both middle values are infinite
		if lo == hi {
			return lo
		}
	}
	return lo + (hi-lo)/2
}

// sameDistribution compares two distributions, treating missing keys as zero counts.
func sameDistribution[K comparable](a, b map[K]int) bool {
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	for k, v := range b {
		if a[k] != v {
			return false
		}
	}
	return true
}

func sumCounts[K comparable](m map[K]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}
