// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package simulate

import (
	"fmt"
	"math"

	"github.com/alvinbaena/crack-time/pkg/estimate"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86_400
	secondsPerYear   = 31_557_600 // 365.25 days
	daysPerMonth     = 30.44
)

var ratingLabels = [...]string{
	"CRITICAL",
	"WEAK",
	"FAIR",
	"STRONG",
	"VERY STRONG",
}

// RateCrackTime buckets a crack time: under a minute, a day, a year, a hundred years, or more.
func RateCrackTime(seconds float64) estimate.Rating {
	switch {
	case seconds < secondsPerMinute:
		return 0
	case seconds < secondsPerDay:
		return 1
	case seconds < secondsPerYear:
		return 2
	case seconds < secondsPerYear*100:
		return 3
	}
	return 4
}

func RatingLabel(r estimate.Rating) string {
	if !r.Valid() {
		return "UNKNOWN"
	}
	return ratingLabels[r]
}

// DisplayTime renders a crack time for people, from "instant" to "N billion years".
func DisplayTime(seconds float64) string {
	switch {
	case seconds == 0:
		return "instant"
	case math.IsInf(seconds, 1):
		return "infinite"
	case seconds < 1:
		return "< 1 second"
	case seconds < secondsPerMinute:
		return fmt.Sprintf("%.0f seconds", seconds)
	case seconds < secondsPerHour:
		return fmt.Sprintf("%.1f minutes", seconds/secondsPerMinute)
	case seconds < secondsPerDay:
		return fmt.Sprintf("%.1f hours", seconds/secondsPerHour)
	case seconds < secondsPerYear:
		days := seconds / secondsPerDay
		if days < 30 {
			return fmt.Sprintf("%.0f days", days)
		}
		return fmt.Sprintf("%.1f months", days/daysPerMonth)
	}

	years := seconds / secondsPerYear
	switch {
	case years < 100:
		return fmt.Sprintf("%.1f years", years)
	case years < 1000:
		return fmt.Sprintf("%.0f years", years)
	case years < 1_000_000:
		return fmt.Sprintf("%.0f thousand years", years/1000)
	case years < 1_000_000_000:
		return fmt.Sprintf("%.0f million years", years/1_000_000)
	}
	return fmt.Sprintf("%.0f billion years", years/1_000_000_000)
}
