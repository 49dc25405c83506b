// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alvinbaena/crack-time/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	batchCmd = &cobra.Command{
		Use:   "batch [PASSWORD...]",
		Short: "Audit many passwords at once",
		Long: "Audit many passwords at once, given as arguments or read from a file with one password per line. " +
			"Use '-' as the file to read from standard input. Empty lines are skipped.",
		Args: func(cmd *cobra.Command, args []string) error {
			if inputFile == "" && len(args) == 0 {
				return errors.New("give passwords as arguments or a file with --in-file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return batchCommand(cmd, args)
		},
	}
)

func init() {
	batchCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "File with one password per line, '-' for standard input")

	rootCmd.AddCommand(batchCmd)
}

func batchCommand(cmd *cobra.Command, args []string) error {
	q, err := newQuery(cmd)
	if err != nil {
		return err
	}

	passwords := args
	if inputFile != "" {
		var in io.Reader = cmd.InOrStdin()
		if inputFile != "-" {
			file, err := os.Open(inputFile)
			if err != nil {
				return err
			}

			defer func(file *os.File) {
				if err := file.Close(); err != nil {
					log.Error().Err(err).Msg("error closing passwords file")
				}
			}(file)
			in = file
		}

		read, err := readPasswords(in)
		if err != nil {
			return fmt.Errorf("error reading passwords: %w", err)
		}
		passwords = append(passwords, read...)
	}

	s := util.Stats()
	defer s()

	log.Debug().Msgf("auditing %d passwords", len(passwords))
	b, err := q.client.Batch(cmd.Context(), passwords, q.algorithm, q.tier)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), b)
	}
	renderBatch(cmd.OutOrStdout(), b)
	return nil
}

// readPasswords returns the non-empty lines of r, without line endings.
func readPasswords(r io.Reader) ([]string, error) {
	var passwords []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			passwords = append(passwords, line)
		}
	}
	return passwords, scanner.Err()
}
