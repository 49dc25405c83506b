// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/spf13/cobra"
)

var (
	metadataCmd = &cobra.Command{
		Use:   "metadata",
		Short: "List the hash algorithms and hardware tiers the service knows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := newQuery(cmd)
			if err != nil {
				return err
			}

			m, err := q.client.Metadata(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), m)
			}
			renderMetadata(cmd.OutOrStdout(), m)
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(metadataCmd)
}
