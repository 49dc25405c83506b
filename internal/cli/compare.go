// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/alvinbaena/crack-time/pkg/estimate"
	"github.com/alvinbaena/crack-time/pkg/format"
	"github.com/spf13/cobra"
)

var (
	compareCmd = &cobra.Command{
		Use:   "compare",
		Short: "Compare crack times side by side",
	}

	comparePasswordsCmd = &cobra.Command{
		Use:   "passwords PASSWORD PASSWORD...",
		Short: "Compare several passwords under the same algorithm and hardware",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := newQuery(cmd)
			if err != nil {
				return err
			}

			results, err := q.client.ComparePasswords(cmd.Context(), args, q.algorithm, q.tier)
			if err != nil {
				return err
			}
			return printComparison(cmd, "Passwords", results, func(r estimate.EstimateResponse) string {
				return r.Password
			})
		},
	}

	compareAlgorithmsCmd = &cobra.Command{
		Use:   "algorithms PASSWORD ALGORITHM ALGORITHM...",
		Short: "Compare one password stored with different hash algorithms",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := newQuery(cmd)
			if err != nil {
				return err
			}

			results, err := q.client.CompareAlgorithms(cmd.Context(), args[0], args[1:], q.tier)
			if err != nil {
				return err
			}
			return printComparison(cmd, "Hash algorithms", results, func(r estimate.EstimateResponse) string {
				return format.AlgorithmLabel(r.HashAlgorithm)
			})
		},
	}

	compareAttackersCmd = &cobra.Command{
		Use:   "attackers PASSWORD TIER TIER...",
		Short: "Compare one password against attackers with different hardware",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := newQuery(cmd)
			if err != nil {
				return err
			}

			results, err := q.client.CompareAttackers(cmd.Context(), args[0], q.algorithm, args[1:])
			if err != nil {
				return err
			}
			return printComparison(cmd, "Hardware tiers", results, func(r estimate.EstimateResponse) string {
				return format.TierLabel(r.HardwareTier)
			})
		},
	}
)

func init() {
	compareCmd.AddCommand(comparePasswordsCmd)
	compareCmd.AddCommand(compareAlgorithmsCmd)
	compareCmd.AddCommand(compareAttackersCmd)

	rootCmd.AddCommand(compareCmd)
}

func printComparison(cmd *cobra.Command, title string, results []estimate.EstimateResponse, label func(estimate.EstimateResponse) string) error {
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), results)
	}
	renderComparison(cmd.OutOrStdout(), title, results, label)
	return nil
}
