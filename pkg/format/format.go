// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package format turns estimate values into display strings and colors.
package format

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/alvinbaena/crack-time/pkg/estimate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotAvailable is rendered in place of a missing number.
const NotAvailable = "N/A"

var ErrUnknownRating = errors.New("unknown rating")

var ratingColors = [...]string{
	"#dc2626", // red-600
	"#ea580c", // orange-600
	"#ca8a04", // yellow-600
	"#16a34a", // green-600
	"#059669", // emerald-600
}

var ratingBgColors = [...]string{
	"#450a0a", // red-950
	"#431407", // orange-950
	"#422006", // yellow-950
	"#052e16", // green-950
	"#022c22", // emerald-950
}

type Palette struct {
	Foreground string
	Background string
}

// RatingColor returns the foreground color of a rating.
func RatingColor(r estimate.Rating) (string, error) {
	if !r.Valid() {
		return "", fmt.Errorf("%w: %d", ErrUnknownRating, r)
	}
	return ratingColors[r], nil
}

// RatingBackground returns the background color of a rating.
func RatingBackground(r estimate.Rating) (string, error) {
	if !r.Valid() {
		return "", fmt.Errorf("%w: %d", ErrUnknownRating, r)
	}
	return ratingBgColors[r], nil
}

func RatingPalette(r estimate.Rating) (Palette, error) {
	if !r.Valid() {
		return Palette{}, fmt.Errorf("%w: %d", ErrUnknownRating, r)
	}
	return Palette{Foreground: ratingColors[r], Background: ratingBgColors[r]}, nil
}

// NumberFormatter groups digits following the conventions of a locale.
type NumberFormatter struct {
	p *message.Printer
}

func NewNumberFormatter(tag language.Tag) *NumberFormatter {
	return &NumberFormatter{p: message.NewPrinter(tag)}
}

// maxExactInt is the largest magnitude a float64 holds without losing integer precision.
const maxExactInt = 1 << 53

// Format renders n with thousands separators, or NotAvailable when n is nil.
func (f *NumberFormatter) Format(n *float64) string {
	if n == nil {
		return NotAvailable
	}

	v := *n
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return f.p.Sprint(v)
	}

	if v == math.Trunc(v) && math.Abs(v) < maxExactInt {
		return f.p.Sprintf("%d", int64(v))
	}

	return f.p.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

var english = NewNumberFormatter(language.English)

// FormatNumber renders n grouped with English separators, e.g. "1,234,567".
func FormatNumber(n *float64) string {
	return english.Format(n)
}

// FormatRate renders a hash rate in the largest unit the rate reaches.
func FormatRate(rate float64) string {
	switch {
	case rate >= 1e12:
		return fmt.Sprintf("%.1fT H/s", rate/1e12)
	case rate >= 1e9:
		return fmt.Sprintf("%.1fG H/s", rate/1e9)
	case rate >= 1e6:
		return fmt.Sprintf("%.1fM H/s", rate/1e6)
	case rate >= 1e3:
		return fmt.Sprintf("%.1fK H/s", rate/1e3)
	}
	return fmt.Sprintf("%.0f H/s", rate)
}

// AlgorithmLabel turns an algorithm name into a display label: "bcrypt_cost12" becomes
// "Bcrypt Cost12". Only the first letter of each word changes, so "aes_CBC" is "Aes CBC".
func AlgorithmLabel(name string) string {
	return label(name)
}

// TierLabel turns a hardware tier name into a display label, like AlgorithmLabel.
func TierLabel(name string) string {
	return label(name)
}

func label(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	wordStart := true
	for _, r := range strings.ReplaceAll(name, "_", " ") {
		if unicode.IsSpace(r) {
			wordStart = true
			b.WriteRune(r)
			continue
		}

		if wordStart {
			r = unicode.ToUpper(r)
			wordStart = false
		}
		b.WriteRune(r)
	}

	return b.String()
}
