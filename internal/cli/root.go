// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/alvinbaena/crack-time/internal/config"
	"github.com/alvinbaena/crack-time/internal/util"
	"github.com/alvinbaena/crack-time/pkg/client"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "crack-time [COMMAND] [OPTIONS]",
		Short: "Estimate how long passwords would take to crack",
		Long: "Ask a crack-time estimation service how long a password would resist an offline attack, " +
			"for a given hash algorithm and attacker hardware. Passwords can be checked one by one, in batches, " +
			"side by side, or against an attacker who knows personal details of the owner.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			util.ApplyCliSettings(verbose, profile, pprofPort)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print more information on the processing")
	rootCmd.PersistentFlags().BoolVar(&profile, "profile", false, "Enable the profiling server (pprof) when running commands")
	rootCmd.PersistentFlags().Uint16Var(&pprofPort, "profile-port", 6060, "The port to use for the pprof server. Only used if the profile flag is set")
	rootCmd.PersistentFlags().StringVarP(&serviceURL, "url", "u", "", "Base URL of the estimation service (env CRACK_TIME_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "Timeout of each request to the service (env CRACK_TIME_TIMEOUT)")
	rootCmd.PersistentFlags().StringVarP(&algorithm, "algorithm", "a", "", "Hash algorithm protecting the password (env CRACK_TIME_ALGORITHM)")
	rootCmd.PersistentFlags().StringVarP(&tier, "tier", "t", "", "Hardware tier of the attacker (env CRACK_TIME_TIER)")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Reject service responses that break the estimate invariants (env CRACK_TIME_STRICT)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print the raw JSON results instead of tables")
}

func Execute() error {
	return rootCmd.Execute()
}

// settings merges the environment configuration with the flags given on the command line.
func settings(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.URL = serviceURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flags.Changed("algorithm") {
		cfg.Algorithm = algorithm
	}
	if flags.Changed("tier") {
		cfg.Tier = tier
	}
	if flags.Changed("strict") {
		cfg.Strict = strict
	}

	return cfg, cfg.Validate()
}

func newClient(cfg config.Config) (*client.Client, error) {
	return client.New(cfg.URL, client.WithTimeout(cfg.Timeout), client.WithInvariantChecks(cfg.Strict))
}

// query is what every command needs to call the service.
type query struct {
	client    *client.Client
	algorithm string
	tier      string
}

func newQuery(cmd *cobra.Command) (query, error) {
	cfg, err := settings(cmd)
	if err != nil {
		return query{}, err
	}

	c, err := newClient(cfg)
	if err != nil {
		return query{}, err
	}

	return query{client: c, algorithm: cfg.Algorithm, tier: cfg.Tier}, nil
}
