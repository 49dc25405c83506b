// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

const (
	DefaultAlgorithm = "bcrypt_cost12"
	DefaultTier      = "consumer"
)

// Request bodies as bound by the handlers. They mirror the estimate request types, with the
// lists the service cannot do without marked as required.

type estimateRequest struct {
	Password     string `json:"password"`
	Algorithm    string `json:"algorithm"`
	HardwareTier string `json:"hardware_tier"`
}

type batchRequest struct {
	Passwords    []string `json:"passwords" binding:"required"`
	Algorithm    string   `json:"algorithm"`
	HardwareTier string   `json:"hardware_tier"`
}

type compareAlgorithmsRequest struct {
	Password     string   `json:"password"`
	Algorithms   []string `json:"algorithms" binding:"required"`
	HardwareTier string   `json:"hardware_tier"`
}

type compareAttackersRequest struct {
	Password      string   `json:"password"`
	Algorithm     string   `json:"algorithm"`
	HardwareTiers []string `json:"hardware_tiers" binding:"required"`
}

type targetedRequest struct {
	Password     string   `json:"password"`
	Algorithm    string   `json:"algorithm"`
	HardwareTier string   `json:"hardware_tier"`
	Context      []string `json:"context"`
}

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Detail string `json:"detail"`
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
