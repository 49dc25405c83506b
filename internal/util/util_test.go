// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToScreamingSnakeCase(t *testing.T) {
	cases := map[string]string{
		"URL":            "URL",
		"Timeout":        "TIMEOUT",
		"TLSCert":        "TLS_CERT",
		"SelfTLS":        "SELF_TLS",
		"CatalogFile":    "CATALOG_FILE",
		"tls-key":        "TLS_KEY",
		"Port2":          "PORT2",
		"TLSCert TLSKey": "TLS_CERT TLS_KEY",
		"":               "",
	}

	for in, want := range cases {
		assert.Equal(t, want, ToScreamingSnakeCase(in), in)
	}
}
