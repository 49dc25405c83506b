// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package client

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/alvinbaena/crack-time/pkg/estimate"
	"github.com/go-playground/validator/v10"
)

// The wire types mirror the estimate values with pointer fields, so a field missing from the
// body can be told apart from a zero value. Only guess numbers and crack times may be absent.

type wireStrategy struct {
	GuessNumber *float64       `json:"guess_number"`
	AttackName  *string        `json:"attack_name" validate:"required"`
	Details     map[string]any `json:"details"`
}

type wireSegment struct {
	Segment *string  `json:"segment" validate:"required"`
	Type    *string  `json:"type" validate:"required"`
	Guesses *float64 `json:"guesses" validate:"required"`
	I       *int     `json:"i" validate:"required,min=0"`
	J       *int     `json:"j" validate:"required,min=0"`
}

type wireEstimate struct {
	Password          *string                 `json:"password" validate:"required"`
	HashAlgorithm     *string                 `json:"hash_algorithm" validate:"required"`
	HardwareTier      *string                 `json:"hardware_tier" validate:"required"`
	EffectiveHashRate *float64                `json:"effective_hash_rate" validate:"required,min=0"`
	GuessNumber       *float64                `json:"guess_number"`
	CrackTimeSeconds  *float64                `json:"crack_time_seconds"`
	CrackTimeDisplay  *string                 `json:"crack_time_display" validate:"required"`
	Rating            *int                    `json:"rating" validate:"required,min=0,max=4"`
	RatingLabel       *string                 `json:"rating_label" validate:"required"`
	WinningAttack     *string                 `json:"winning_attack" validate:"required"`
	Strategies        map[string]wireStrategy `json:"strategies" validate:"omitempty,dive"`
	Decomposition     []wireSegment           `json:"decomposition" validate:"omitempty,dive"`
}

type wireBatchRow struct {
	Password         *string  `json:"password" validate:"required"`
	CrackTimeSeconds *float64 `json:"crack_time_seconds"`
	CrackTimeDisplay *string  `json:"crack_time_display" validate:"required"`
	Rating           *int     `json:"rating" validate:"required,min=0,max=4"`
	RatingLabel      *string  `json:"rating_label" validate:"required"`
	WinningAttack    *string  `json:"winning_attack" validate:"required"`
	GuessNumber      *float64 `json:"guess_number"`
}

type wireSummary struct {
	// MedianCrackTimeSeconds may only be missing when no password has a crack time.
	MedianCrackTimeSeconds    *float64                `json:"median_crack_time_seconds"`
	RatingDistribution        map[estimate.Rating]int `json:"rating_distribution" validate:"required"`
	WinningAttackDistribution map[string]int          `json:"winning_attack_distribution" validate:"required"`
}

type wireBatch struct {
	TotalPasswords *int           `json:"total_passwords" validate:"required,min=0"`
	Summary        *wireSummary   `json:"summary" validate:"required"`
	Passwords      []wireBatchRow `json:"passwords" validate:"required,dive"`
}

type wireAlgorithm struct {
	Name *string  `json:"name" validate:"required"`
	Rate *float64 `json:"rate" validate:"required,min=0"`
}

type wireTier struct {
	Name        *string  `json:"name" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Multiplier  *float64 `json:"multiplier" validate:"required,min=0"`
}

type wireMetadata struct {
	Algorithms    []wireAlgorithm `json:"algorithms" validate:"required,dive"`
	HardwareTiers []wireTier      `json:"hardware_tiers" validate:"required,dive"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their wire names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return fe.Error()
}

// checkShape runs the struct validation and turns its failures into a single readable error.
func checkShape(v *validator.Validate, body any) error {
	err := v.Struct(body)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		msgs = append(msgs, fmt.Sprintf("%s %s", field, msgForTag(fe)))
	}

	return fmt.Errorf("malformed response: %s", strings.Join(msgs, "; "))
}

func (w wireEstimate) toEstimate() estimate.EstimateResponse {
	r := estimate.EstimateResponse{
		Password:          *w.Password,
		HashAlgorithm:     *w.HashAlgorithm,
		HardwareTier:      *w.HardwareTier,
		EffectiveHashRate: *w.EffectiveHashRate,
		GuessNumber:       w.GuessNumber,
		CrackTimeSeconds:  w.CrackTimeSeconds,
		CrackTimeDisplay:  *w.CrackTimeDisplay,
		Rating:            estimate.Rating(*w.Rating),
		RatingLabel:       *w.RatingLabel,
		WinningAttack:     *w.WinningAttack,
		Strategies:        make(map[string]estimate.StrategyInfo, len(w.Strategies)),
		Decomposition:     make([]estimate.DecompositionSegment, 0, len(w.Decomposition)),
	}

	for name, s := range w.Strategies {
		r.Strategies[name] = estimate.StrategyInfo{
			GuessNumber: s.GuessNumber,
			AttackName:  *s.AttackName,
			Details:     s.Details,
		}
	}

	for _, s := range w.Decomposition {
		r.Decomposition = append(r.Decomposition, estimate.DecompositionSegment{
			Segment: *s.Segment,
			Type:    *s.Type,
			Guesses: *s.Guesses,
			I:       *s.I,
			J:       *s.J,
		})
	}

	return r
}

func (w wireBatch) toBatch() (estimate.BatchResponse, error) {
	b := estimate.BatchResponse{
		TotalPasswords: *w.TotalPasswords,
		Passwords:      make([]estimate.BatchPasswordResult, 0, len(w.Passwords)),
		Summary: estimate.BatchSummary{
			RatingDistribution:        w.Summary.RatingDistribution,
			WinningAttackDistribution: w.Summary.WinningAttackDistribution,
		},
	}

	defined := false
	for _, p := range w.Passwords {
		defined = defined || p.CrackTimeSeconds != nil
		b.Passwords = append(b.Passwords, estimate.BatchPasswordResult{
			Password:         *p.Password,
			CrackTimeSeconds: p.CrackTimeSeconds,
			CrackTimeDisplay: *p.CrackTimeDisplay,
			Rating:           estimate.Rating(*p.Rating),
			RatingLabel:      *p.RatingLabel,
			WinningAttack:    *p.WinningAttack,
			GuessNumber:      p.GuessNumber,
		})
	}

	switch {
	case w.Summary.MedianCrackTimeSeconds != nil:
		b.Summary.MedianCrackTimeSeconds = *w.Summary.MedianCrackTimeSeconds
	case defined:
		return estimate.BatchResponse{}, errors.New("malformed response: summary.median_crack_time_seconds is required")
	}

	return b, nil
}

func (w wireMetadata) toMetadata() estimate.MetadataResponse {
	m := estimate.MetadataResponse{
		Algorithms:    make([]estimate.AlgorithmOption, 0, len(w.Algorithms)),
		HardwareTiers: make([]estimate.TierOption, 0, len(w.HardwareTiers)),
	}

	for _, a := range w.Algorithms {
		m.Algorithms = append(m.Algorithms, estimate.AlgorithmOption{Name: *a.Name, Rate: *a.Rate})
	}

	for _, t := range w.HardwareTiers {
		m.HardwareTiers = append(m.HardwareTiers, estimate.TierOption{
			Name:        *t.Name,
			Description: *t.Description,
			Multiplier:  *t.Multiplier,
		})
	}

	return m
}
