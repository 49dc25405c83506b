// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import "time"

var (
	// root
	verbose bool
	// root
	profile bool
	// root
	pprofPort uint16
	// root
	serviceURL string
	// root
	timeout time.Duration
	// root
	algorithm string
	// root
	tier string
	// root
	strict bool
	// root
	jsonOutput bool
	// estimate, targeted
	interactive bool
	// batch
	inputFile string
	// targeted
	contextItems []string
	// serve
	selfTLS bool
	// serve
	tlsCert string
	// serve
	tlsKey string
	// serve
	port uint16
	// serve
	catalogFile string
	// serve
	workers int
	// serve
	maxConnections int
)
