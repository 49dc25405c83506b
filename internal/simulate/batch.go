// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package simulate

import (
	"fmt"

	"github.com/alvinbaena/crack-time/pkg/estimate"
	"github.com/rs/zerolog/log"
	"github.com/thinhdanggroup/executor"
)

// Batch evaluates every password with the same algorithm and tier. Rows come back in input
// order, and the summary is computed from them.
func (e *Estimator) Batch(passwords []string, algorithm, tier string) (estimate.BatchResponse, error) {
	rate, err := e.rateFor(passwords, algorithm, tier)
	if err != nil {
		return estimate.BatchResponse{}, err
	}

	rows := make([]estimate.BatchPasswordResult, len(passwords))
	if len(passwords) > 0 {
		if err = e.each(passwords, func(i int, password string, st *status) {
			r, hit := e.evaluate(password, algorithm, tier, rate)
			rows[i] = r.Project()
			st.Evaluated(hit)
		}); err != nil {
			return estimate.BatchResponse{}, err
		}
	}

	return estimate.BatchResponse{
		TotalPasswords: len(rows),
		Summary:        estimate.Summarize(rows),
		Passwords:      rows,
	}, nil
}

// each runs fn for every item on a bounded pool. Every call writes to its own index, so no
// locking is needed.
func (e *Estimator) each(items []string, fn func(i int, item string, st *status)) error {
	workers := e.workers
	if workers > len(items) {
		workers = len(items)
	}

	tasks, err := executor.New(executor.Config{
		ReqPerSeconds: 0,
		QueueSize:     2 * workers,
		NumWorkers:    workers,
	})
	if err != nil {
		return err
	}
	defer tasks.Close()

	log.Debug().Msgf("evaluating %d passwords with %d workers", len(items), workers)
	st := newStatus(len(items), progressInterval)
	st.BeginProgress()
	defer st.Done()

	for i, item := range items {
		if err = tasks.Publish(fn, i, item, st); err != nil {
			return err
		}
	}

	tasks.Wait()
	return nil
}

// CompareAlgorithms evaluates one password under each algorithm, in the given order.
func (e *Estimator) CompareAlgorithms(password string, algorithms []string, tier string) ([]estimate.EstimateResponse, error) {
	results := make([]estimate.EstimateResponse, 0, len(algorithms))
	for _, a := range algorithms {
		r, err := e.Estimate(password, a, tier)
		if err != nil {
			return nil, fmt.Errorf("Error for algorithm '%s': %w", a, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// CompareAttackers evaluates one password on each hardware tier, in the given order.
func (e *Estimator) CompareAttackers(password, algorithm string, tiers []string) ([]estimate.EstimateResponse, error) {
	results := make([]estimate.EstimateResponse, 0, len(tiers))
	for _, t := range tiers {
		r, err := e.Estimate(password, algorithm, t)
		if err != nil {
			return nil, fmt.Errorf("Error for tier '%s': %w", t, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// ComparePasswords evaluates each password under the same algorithm and tier, in the given
// order.
func (e *Estimator) ComparePasswords(passwords []string, algorithm, tier string) ([]estimate.EstimateResponse, error) {
	rate, err := e.rateFor(passwords, algorithm, tier)
	if err != nil {
		return nil, err
	}

	results := make([]estimate.EstimateResponse, len(passwords))
	if len(passwords) > 0 {
		if err = e.each(passwords, func(i int, password string, st *status) {
			r, hit := e.evaluate(password, algorithm, tier, rate)
			results[i] = r
			st.Evaluated(hit)
		}); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// rateFor resolves the rate shared by a list of passwords. A bad name fails on the first
// password, so the error names it.
func (e *Estimator) rateFor(passwords []string, algorithm, tier string) (float64, error) {
	rate, err := e.catalog.EffectiveRate(algorithm, tier)
	if err != nil && len(passwords) > 0 {
		return 0, fmt.Errorf("Error for '%s': %w", passwords[0], err)
	}
	return rate, err
}
