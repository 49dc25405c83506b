// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"io"

	"github.com/alvinbaena/crack-time/pkg/estimate"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	estimateCmd = &cobra.Command{
		Use:   "estimate [PASSWORD]",
		Short: "Estimate the crack time of a single password",
		Args:  passwordArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return estimateCommand(cmd, args, func(ctx context.Context, q query, password string) (estimate.EstimateResponse, error) {
				return q.client.Estimate(ctx, password, q.algorithm, q.tier)
			})
		},
	}

	targetedCmd = &cobra.Command{
		Use:   "targeted [PASSWORD]",
		Short: "Estimate the crack time against an attacker who knows the password owner",
		Long: "Estimate the crack time against an attacker who knows personal details of the password owner, " +
			"such as names, birth dates or pets. Pass each detail with --context.",
		Args: passwordArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return estimateCommand(cmd, args, func(ctx context.Context, q query, password string) (estimate.EstimateResponse, error) {
				return q.client.Targeted(ctx, password, q.algorithm, q.tier, contextItems)
			})
		},
	}
)

func init() {
	estimateCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode. Passwords are typed in a masked prompt.")
	targetedCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode. Passwords are typed in a masked prompt.")
	targetedCmd.Flags().StringSliceVarP(&contextItems, "context", "c", nil, "Personal detail known to the attacker. Repeat or separate with commas.")

	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(targetedCmd)
}

func passwordArgs(cmd *cobra.Command, args []string) error {
	if interactive {
		return cobra.NoArgs(cmd, args)
	}
	return cobra.ExactArgs(1)(cmd, args)
}

type estimateFunc func(ctx context.Context, q query, password string) (estimate.EstimateResponse, error)

func estimateCommand(cmd *cobra.Command, args []string, fn estimateFunc) error {
	q, err := newQuery(cmd)
	if err != nil {
		return err
	}

	if !interactive {
		r, err := fn(cmd.Context(), q, args[0])
		if err != nil {
			return err
		}
		return printEstimate(cmd.OutOrStdout(), r)
	}

	prompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) == 0 {
				return errors.New("please enter a password")
			}
			return nil
		},
	}

	log.Info().Msgf("Running interactive session. ^C to exit")
	for {
		password, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				log.Info().Msgf("Goodbye")
				return nil
			}
			return err
		}

		r, err := fn(cmd.Context(), q, password)
		if err != nil {
			// keep the session going, the next password may work
			log.Error().Err(err).Msg("Error estimating password")
			continue
		}

		if err = printEstimate(cmd.OutOrStdout(), r); err != nil {
			return err
		}
	}
}

func printEstimate(w io.Writer, r estimate.EstimateResponse) error {
	if jsonOutput {
		return writeJSON(w, r)
	}
	renderEstimate(w, r)
	return nil
}
