// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package estimate

// Request bodies accepted by the estimation service. Lists are required by the service, an
// empty list must be sent as [] and never as null. Clients build these with NonNil.

type EstimateRequest struct {
	Password     string `json:"password"`
	Algorithm    string `json:"algorithm"`
	HardwareTier string `json:"hardware_tier"`
}

type BatchRequest struct {
	Passwords    []string `json:"passwords"`
	Algorithm    string   `json:"algorithm"`
	HardwareTier string   `json:"hardware_tier"`
}

type ComparePasswordsRequest struct {
	Passwords    []string `json:"passwords"`
	Algorithm    string   `json:"algorithm"`
	HardwareTier string   `json:"hardware_tier"`
}

type CompareAlgorithmsRequest struct {
	Password     string   `json:"password"`
	Algorithms   []string `json:"algorithms"`
	HardwareTier string   `json:"hardware_tier"`
}

type CompareAttackersRequest struct {
	Password      string   `json:"password"`
	Algorithm     string   `json:"algorithm"`
	HardwareTiers []string `json:"hardware_tiers"`
}

type TargetedRequest struct {
	Password     string   `json:"password"`
	Algorithm    string   `json:"algorithm"`
	HardwareTier string   `json:"hardware_tier"`
	Context      []string `json:"context"`
}

// NonNil returns s, or an empty slice when s is nil.
func NonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
