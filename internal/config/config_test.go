// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.URL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "bcrypt_cost12", cfg.Algorithm)
	assert.Equal(t, "consumer", cfg.Tier)
	assert.False(t, cfg.Strict)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CRACK_TIME_URL", "https://estimator.internal/api")
	t.Setenv("CRACK_TIME_TIMEOUT", "5s")
	t.Setenv("CRACK_TIME_ALGORITHM", "md5")
	t.Setenv("CRACK_TIME_TIER", "nation_state")
	t.Setenv("CRACK_TIME_STRICT", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Config{
		URL:       "https://estimator.internal/api",
		Timeout:   5 * time.Second,
		Algorithm: "md5",
		Tier:      "nation_state",
		Strict:    true,
	}, cfg)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CRACK_TIME_URL", "not a url")
	t.Setenv("CRACK_TIME_TIMEOUT", "0s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CRACK_TIME_URL: This field must be an absolute URL")
	assert.Contains(t, err.Error(), "CRACK_TIME_TIMEOUT: This field must be greater than 0")
}

func TestConfig_Validate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Tier = ""
	assert.EqualError(t, cfg.Validate(), "CRACK_TIME_TIER: This field is required")
}

func TestLoadServer(t *testing.T) {
	catalog := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(catalog, []byte("algorithms: []\n"), 0o600))

	t.Setenv("CRACK_TIME_PORT", "9090")
	t.Setenv("CRACK_TIME_CATALOG_FILE", catalog)
	t.Setenv("CRACK_TIME_CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, uint16(9090), cfg.Port)
	assert.Equal(t, catalog, cfg.CatalogFile)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins)
	assert.Zero(t, cfg.Workers)
	assert.Equal(t, 256, cfg.MaxConnections)
}

func TestServerConfig_TLS(t *testing.T) {
	cfg := ServerConfig{Port: 8000, TLSCert: "cert.pem"}
	assert.EqualError(t, cfg.Validate(), "CRACK_TIME_TLS_KEY: This field requires the presence of CRACK_TIME_TLS_CERT")

	cfg = ServerConfig{Port: 8000, TLSCert: "cert.pem", TLSKey: "key.pem", SelfTLS: true}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CRACK_TIME_TLS_CERT: This field cannot be used together with CRACK_TIME_SELF_TLS")

	cfg = ServerConfig{Port: 8000, SelfTLS: true}
	assert.NoError(t, cfg.Validate())
}
