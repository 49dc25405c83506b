// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package client

import (
	"context"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/alvinbaena/crack-time/pkg/estimate"
)

// Estimate evaluates one password.
func (c *Client) Estimate(ctx context.Context, password, algorithm, tier string) (estimate.EstimateResponse, error) {
	if err := checkText(password, algorithm, tier); err != nil {
		return estimate.EstimateResponse{}, err
	}

	var w wireEstimate
	req := estimate.EstimateRequest{Password: password, Algorithm: algorithm, HardwareTier: tier}
	if err := c.do(ctx, http.MethodPost, "/estimate", req, &w); err != nil {
		return estimate.EstimateResponse{}, err
	}

	return c.checkEstimate(w)
}

// Batch evaluates many passwords at once. The results carry no strategy breakdown or
// decomposition.
func (c *Client) Batch(ctx context.Context, passwords []string, algorithm, tier string) (estimate.BatchResponse, error) {
	if err := checkList("passwords", passwords); err != nil {
		return estimate.BatchResponse{}, err
	}
	if err := checkText("", algorithm, tier); err != nil {
		return estimate.BatchResponse{}, err
	}

	var w wireBatch
	req := estimate.BatchRequest{Passwords: estimate.NonNil(passwords), Algorithm: algorithm, HardwareTier: tier}
	if err := c.do(ctx, http.MethodPost, "/batch", req, &w); err != nil {
		return estimate.BatchResponse{}, err
	}

	if err := checkShape(c.validate, w); err != nil {
		return estimate.BatchResponse{}, contractErrorWithStatus(http.StatusOK, err)
	}

	b, err := w.toBatch()
	if err != nil {
		return estimate.BatchResponse{}, contractErrorWithStatus(http.StatusOK, err)
	}

	if c.checkInvariants {
		if err = b.Validate(); err != nil {
			return estimate.BatchResponse{}, contractErrorWithStatus(http.StatusOK, err)
		}
	}

	return b, nil
}

// ComparePasswords evaluates each password with the same algorithm and tier. Result k belongs
// to passwords[k].
func (c *Client) ComparePasswords(ctx context.Context, passwords []string, algorithm, tier string) ([]estimate.EstimateResponse, error) {
	if err := checkList("passwords", passwords); err != nil {
		return nil, err
	}
	if err := checkText("", algorithm, tier); err != nil {
		return nil, err
	}

	req := estimate.ComparePasswordsRequest{Passwords: estimate.NonNil(passwords), Algorithm: algorithm, HardwareTier: tier}
	return c.compare(ctx, "/compare/passwords", req, passwords, "password",
		func(r estimate.EstimateResponse) string { return r.Password })
}

// CompareAlgorithms evaluates one password under each algorithm. Result k belongs to
// algorithms[k].
func (c *Client) CompareAlgorithms(ctx context.Context, password string, algorithms []string, tier string) ([]estimate.EstimateResponse, error) {
	if err := checkList("algorithms", algorithms); err != nil {
		return nil, err
	}
	if err := checkText(password, "", tier); err != nil {
		return nil, err
	}

	req := estimate.CompareAlgorithmsRequest{Password: password, Algorithms: estimate.NonNil(algorithms), HardwareTier: tier}
	return c.compare(ctx, "/compare/algorithms", req, algorithms, "hash_algorithm",
		func(r estimate.EstimateResponse) string { return r.HashAlgorithm })
}

// CompareAttackers evaluates one password against each hardware tier. Result k belongs to
// tiers[k].
func (c *Client) CompareAttackers(ctx context.Context, password, algorithm string, tiers []string) ([]estimate.EstimateResponse, error) {
	if err := checkList("hardware_tiers", tiers); err != nil {
		return nil, err
	}
	if err := checkText(password, algorithm, ""); err != nil {
		return nil, err
	}

	req := estimate.CompareAttackersRequest{Password: password, Algorithm: algorithm, HardwareTiers: estimate.NonNil(tiers)}
	return c.compare(ctx, "/compare/attackers", req, tiers, "hardware_tier",
		func(r estimate.EstimateResponse) string { return r.HardwareTier })
}

// compare sends a comparison request and checks that the results line up with the inputs:
// one result per input, each echoing the input it was computed for.
func (c *Client) compare(ctx context.Context, path string, req any, inputs []string, field string,
	axis func(estimate.EstimateResponse) string) ([]estimate.EstimateResponse, error) {
	var ws []wireEstimate
	if err := c.do(ctx, http.MethodPost, path, req, &ws); err != nil {
		return nil, err
	}

	if len(ws) != len(inputs) {
		return nil, contractErrorWithStatus(http.StatusOK,
			fmt.Errorf("malformed response: %d results for %d inputs", len(ws), len(inputs)))
	}

	results := make([]estimate.EstimateResponse, 0, len(ws))
	for k, w := range ws {
		r, err := c.checkEstimate(w)
		if err != nil {
			return nil, err
		}

		if got := axis(r); got != inputs[k] {
			return nil, contractError("malformed response: result %d has %s %q, expected %q", k, field, got, inputs[k])
		}

		results = append(results, r)
	}

	if c.checkInvariants && field == "password" {
		if err := estimate.CheckRatingMonotonic(results); err != nil {
			return nil, contractErrorWithStatus(http.StatusOK, err)
		}
	}

	return results, nil
}

// Targeted evaluates a password against an attacker who knows the context items, such as
// names or dates tied to the account owner.
func (c *Client) Targeted(ctx context.Context, password, algorithm, tier string, contextItems []string) (estimate.EstimateResponse, error) {
	if err := checkList("context", contextItems); err != nil {
		return estimate.EstimateResponse{}, err
	}
	if err := checkText(password, algorithm, tier); err != nil {
		return estimate.EstimateResponse{}, err
	}

	var w wireEstimate
	req := estimate.TargetedRequest{
		Password:     password,
		Algorithm:    algorithm,
		HardwareTier: tier,
		Context:      estimate.NonNil(contextItems),
	}
	if err := c.do(ctx, http.MethodPost, "/targeted", req, &w); err != nil {
		return estimate.EstimateResponse{}, err
	}

	return c.checkEstimate(w)
}

// Metadata fetches the algorithms and hardware tiers the service accepts.
func (c *Client) Metadata(ctx context.Context) (estimate.MetadataResponse, error) {
	var w wireMetadata
	if err := c.do(ctx, http.MethodGet, "/metadata", nil, &w); err != nil {
		return estimate.MetadataResponse{}, err
	}

	if err := checkShape(c.validate, w); err != nil {
		return estimate.MetadataResponse{}, contractErrorWithStatus(http.StatusOK, err)
	}

	return w.toMetadata(), nil
}

// checkText refuses request fields that are not valid UTF-8. JSON encoding would replace the
// bad bytes with U+FFFD and the service would answer for a different string. The password is
// never quoted in the message.
func checkText(password, algorithm, tier string) error {
	if !utf8.ValidString(password) {
		return inputError("password must be valid UTF-8")
	}
	if !utf8.ValidString(algorithm) {
		return inputError("algorithm %q must be valid UTF-8", algorithm)
	}
	if !utf8.ValidString(tier) {
		return inputError("hardware tier %q must be valid UTF-8", tier)
	}
	return nil
}

func checkList(field string, values []string) error {
	for i, v := range values {
		if !utf8.ValidString(v) {
			return inputError("%s[%d] must be valid UTF-8", field, i)
		}
	}
	return nil
}
