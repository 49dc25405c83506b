// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/alvinbaena/crack-time/pkg/estimate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func estimateFor(password, algorithm, tier string) string {
	return fmt.Sprintf(`{"password": %q, "hash_algorithm": %q, "hardware_tier": %q, "effective_hash_rate": 1437,
		"guess_number": 100, "crack_time_seconds": 0.07, "crack_time_display": "< 1 second", "rating": 0,
		"rating_label": "CRITICAL", "winning_attack": "brute_force",
		"strategies": {"brute_force": {"guess_number": 100, "attack_name": "Brute force", "details": {}}},
		"decomposition": []}`, password, algorithm, tier)
}

func list(items ...string) string {
	return "[" + strings.Join(items, ",") + "]"
}

func TestComparePasswords(t *testing.T) {
	body := list(
		estimateFor("a", "md5", "consumer"),
		estimateFor("b", "md5", "consumer"),
		estimateFor("c", "md5", "consumer"),
	)
	f := &fakeService{status: http.StatusOK, body: body}
	c := newTestClient(t, f)

	inputs := []string{"a", "b", "c"}
	results, err := c.ComparePasswords(context.Background(), inputs, "md5", "consumer")
	require.NoError(t, err)
	assert.Equal(t, "/api/compare/passwords", f.path)

	require.Len(t, results, len(inputs))
	for i, r := range results {
		assert.Equal(t, inputs[i], r.Password)
	}
}

func TestComparePasswords_OutOfOrder(t *testing.T) {
	body := list(estimateFor("b", "md5", "consumer"), estimateFor("a", "md5", "consumer"))
	c := newTestClient(t, &fakeService{status: http.StatusOK, body: body})

	_, err := c.ComparePasswords(context.Background(), []string{"a", "b"}, "md5", "consumer")
	e := asError(t, err)
	assert.Equal(t, KindContract, e.Kind)
	assert.Contains(t, e.Message, `result 0 has password "b"`)
}

func TestComparePasswords_WrongCount(t *testing.T) {
	c := newTestClient(t, &fakeService{status: http.StatusOK, body: list(estimateFor("a", "md5", "consumer"))})

	_, err := c.ComparePasswords(context.Background(), []string{"a", "b"}, "md5", "consumer")
	assert.Equal(t, KindContract, asError(t, err).Kind)
}

func TestCompareAlgorithms(t *testing.T) {
	body := list(estimateFor("pw", "md5", "consumer"), estimateFor("pw", "bcrypt_cost12", "consumer"))
	f := &fakeService{status: http.StatusOK, body: body}
	c := newTestClient(t, f)

	results, err := c.CompareAlgorithms(context.Background(), "pw", []string{"md5", "bcrypt_cost12"}, "consumer")
	require.NoError(t, err)
	assert.Equal(t, "/api/compare/algorithms", f.path)
	assert.Equal(t, []any{"md5", "bcrypt_cost12"}, f.payload["algorithms"])
	assert.Equal(t, "md5", results[0].HashAlgorithm)
	assert.Equal(t, "bcrypt_cost12", results[1].HashAlgorithm)

	// a service that swaps algorithms is caught
	_, err = c.CompareAlgorithms(context.Background(), "pw", []string{"bcrypt_cost12", "md5"}, "consumer")
	assert.Equal(t, KindContract, asError(t, err).Kind)
}

func TestCompareAttackers(t *testing.T) {
	body := list(estimateFor("pw", "md5", "consumer"), estimateFor("pw", "md5", "nation_state"))
	f := &fakeService{status: http.StatusOK, body: body}
	c := newTestClient(t, f)

	results, err := c.CompareAttackers(context.Background(), "pw", "md5", []string{"consumer", "nation_state"})
	require.NoError(t, err)
	assert.Equal(t, "/api/compare/attackers", f.path)
	assert.Equal(t, []any{"consumer", "nation_state"}, f.payload["hardware_tiers"])
	assert.Equal(t, "nation_state", results[1].HardwareTier)
}

func TestCompare_ServiceError(t *testing.T) {
	c := newTestClient(t, &fakeService{status: http.StatusBadRequest, body: `{"detail": "Need at least 2 passwords to compare"}`})

	_, err := c.ComparePasswords(context.Background(), []string{"solo"}, "md5", "consumer")
	assert.Equal(t, "Need at least 2 passwords to compare", err.Error())
}

func TestBatch(t *testing.T) {
	passwords := []estimate.BatchPasswordResult{
		{Password: "a", CrackTimeSeconds: estimate.Float(1), GuessNumber: estimate.Float(10), CrackTimeDisplay: "1 seconds", RatingLabel: "CRITICAL", WinningAttack: "brute_force"},
		{Password: "b", CrackTimeSeconds: estimate.Float(5), GuessNumber: estimate.Float(50), CrackTimeDisplay: "5 seconds", RatingLabel: "CRITICAL", WinningAttack: "dictionary"},
	}
	resp := estimate.BatchResponse{TotalPasswords: 2, Summary: estimate.Summarize(passwords), Passwords: passwords}
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	f := &fakeService{status: http.StatusOK, body: string(raw)}
	c := newTestClient(t, f, WithInvariantChecks(true))

	b, err := c.Batch(context.Background(), []string{"a", "b"}, "md5", "consumer")
	require.NoError(t, err)
	assert.Equal(t, "/api/batch", f.path)
	assert.Equal(t, 2, b.TotalPasswords)
	assert.Equal(t, 3.0, b.Summary.MedianCrackTimeSeconds)
	assert.Equal(t, 2, b.Summary.RatingDistribution[0])
	assert.Equal(t, 1, b.Summary.WinningAttackDistribution["dictionary"])
}

func TestBatch_Empty(t *testing.T) {
	body := `{"total_passwords": 0, "summary": {"median_crack_time_seconds": null, "rating_distribution": {},
		"winning_attack_distribution": {}}, "passwords": []}`
	f := &fakeService{status: http.StatusOK, body: body}
	c := newTestClient(t, f, WithInvariantChecks(true))

	b, err := c.Batch(context.Background(), nil, "md5", "consumer")
	require.NoError(t, err)
	assert.Equal(t, []any{}, f.payload["passwords"])
	assert.Equal(t, 0, b.TotalPasswords)
	assert.Zero(t, b.Summary.MedianCrackTimeSeconds)
	assert.Empty(t, b.Passwords)
}

func TestBatch_SummaryMismatch(t *testing.T) {
	body := `{"total_passwords": 1, "summary": {"median_crack_time_seconds": 99, "rating_distribution": {"0": 1},
		"winning_attack_distribution": {"brute_force": 1}}, "passwords": [{"password": "a", "crack_time_seconds": 1,
		"guess_number": 10, "crack_time_display": "1 seconds", "rating": 0, "rating_label": "CRITICAL",
		"winning_attack": "brute_force"}]}`
	f := &fakeService{status: http.StatusOK, body: body}

	_, err := newTestClient(t, f).Batch(context.Background(), []string{"a"}, "md5", "consumer")
	require.NoError(t, err)

	_, err = newTestClient(t, f, WithInvariantChecks(true)).Batch(context.Background(), []string{"a"}, "md5", "consumer")
	assert.ErrorIs(t, err, estimate.ErrBatchSummary)
}

func TestBatch_MissingMedian(t *testing.T) {
	body := `{"total_passwords": 1, "summary": {"rating_distribution": {"0": 1},
		"winning_attack_distribution": {"brute_force": 1}}, "passwords": [{"password": "a", "crack_time_seconds": 1,
		"guess_number": 10, "crack_time_display": "1 seconds", "rating": 0, "rating_label": "CRITICAL",
		"winning_attack": "brute_force"}]}`

	_, err := newTestClient(t, &fakeService{status: http.StatusOK, body: body}).Batch(context.Background(), []string{"a"}, "md5", "consumer")
	assert.Equal(t, KindContract, asError(t, err).Kind)
}
