// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package estimate holds the values exchanged with a crack-time estimation service and the
// rules that tie them together: nullity of guess numbers and crack times, the winning
// attack, the tiling of a decomposition and the aggregation of batch summaries.
package estimate

// Rating is a coarse strength bucket derived by the service from the crack time.
type Rating int

const (
	MinRating Rating = 0
	MaxRating Rating = 4
)

// Valid reports whether r is inside the closed rating domain.
func (r Rating) Valid() bool {
	return r >= MinRating && r <= MaxRating
}

type StrategyInfo struct {
	// GuessNumber is nil when the strategy cannot crack the password at all.
	GuessNumber *float64       `json:"guess_number"`
	AttackName  string         `json:"attack_name"`
	Details     map[string]any `json:"details"`
}

// DecompositionSegment covers password runes I through J, both inclusive.
type DecompositionSegment struct {
	Segment string  `json:"segment"`
	Type    string  `json:"type"`
	Guesses float64 `json:"guesses"`
	I       int     `json:"i"`
	J       int     `json:"j"`
}

// Len is the number of runes covered by the segment.
func (s DecompositionSegment) Len() int {
	return s.J - s.I + 1
}

type EstimateResponse struct {
	Password          string  `json:"password"`
	HashAlgorithm     string  `json:"hash_algorithm"`
	HardwareTier      string  `json:"hardware_tier"`
	EffectiveHashRate float64 `json:"effective_hash_rate"`
	// GuessNumber and CrackTimeSeconds are nil together when the estimate is uncomputable.
	GuessNumber      *float64                `json:"guess_number"`
	CrackTimeSeconds *float64                `json:"crack_time_seconds"`
	CrackTimeDisplay string                  `json:"crack_time_display"`
	Rating           Rating                  `json:"rating"`
	RatingLabel      string                  `json:"rating_label"`
	WinningAttack    string                  `json:"winning_attack"`
	Strategies       map[string]StrategyInfo `json:"strategies"`
	Decomposition    []DecompositionSegment  `json:"decomposition"`
}

// Project drops the strategy breakdown and decomposition, keeping what a batch row carries.
func (r EstimateResponse) Project() BatchPasswordResult {
	return BatchPasswordResult{
		Password:         r.Password,
		CrackTimeSeconds: r.CrackTimeSeconds,
		CrackTimeDisplay: r.CrackTimeDisplay,
		Rating:           r.Rating,
		RatingLabel:      r.RatingLabel,
		WinningAttack:    r.WinningAttack,
		GuessNumber:      r.GuessNumber,
	}
}

type BatchPasswordResult struct {
	Password         string   `json:"password"`
	CrackTimeSeconds *float64 `json:"crack_time_seconds"`
	CrackTimeDisplay string   `json:"crack_time_display"`
	Rating           Rating   `json:"rating"`
	RatingLabel      string   `json:"rating_label"`
	WinningAttack    string   `json:"winning_attack"`
	GuessNumber      *float64 `json:"guess_number"`
}

type BatchSummary struct {
	MedianCrackTimeSeconds    float64        `json:"median_crack_time_seconds"`
	RatingDistribution        map[Rating]int `json:"rating_distribution"`
	WinningAttackDistribution map[string]int `json:"winning_attack_distribution"`
}

type BatchResponse struct {
	TotalPasswords int                   `json:"total_passwords"`
	Summary        BatchSummary          `json:"summary"`
	Passwords      []BatchPasswordResult `json:"passwords"`
}

type AlgorithmOption struct {
	Name string  `json:"name" yaml:"name"`
	Rate float64 `json:"rate" yaml:"rate"`
}

type TierOption struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Multiplier  float64 `json:"multiplier" yaml:"multiplier"`
}

// MetadataResponse is the catalog of algorithm and hardware tier names the service accepts.
type MetadataResponse struct {
	Algorithms    []AlgorithmOption `json:"algorithms"`
	HardwareTiers []TierOption      `json:"hardware_tiers"`
}

func (m MetadataResponse) Algorithm(name string) (AlgorithmOption, bool) {
	for _, a := range m.Algorithms {
		if a.Name == name {
			return a, true
		}
	}
	return AlgorithmOption{}, false
}

func (m MetadataResponse) Tier(name string) (TierOption, bool) {
	for _, t := range m.HardwareTiers {
		if t.Name == name {
			return t, true
		}
	}
	return TierOption{}, false
}

func (m MetadataResponse) HasAlgorithm(name string) bool {
	_, ok := m.Algorithm(name)
	return ok
}

func (m MetadataResponse) HasTier(name string) bool {
	_, ok := m.Tier(name)
	return ok
}

// Float returns a pointer to v. Handy when building responses by hand.
func Float(v float64) *float64 {
	return &v
}
