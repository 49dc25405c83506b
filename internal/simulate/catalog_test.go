// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package simulate

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	m := c.Metadata()
	assert.Len(t, m.Algorithms, 12)
	assert.Len(t, m.HardwareTiers, 8)
	assert.Equal(t, "argon2id_64m_t3", m.Algorithms[0].Name, "algorithms are sorted by name")
	assert.Equal(t, "budget", m.HardwareTiers[0].Name, "tiers keep catalog order")

	tier, ok := m.Tier("well_funded")
	require.True(t, ok)
	assert.Equal(t, "~100 GPUs", tier.Description)

	// metadata is a copy
	m.Algorithms[0].Rate = -1
	rate, err := c.HashRate("argon2id_64m_t3")
	require.NoError(t, err)
	assert.Equal(t, 600.0, rate)
}

func TestCatalog_HashRate(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	rate, err := c.HashRate("md5")
	require.NoError(t, err)
	assert.Equal(t, 164100000000.0, rate)

	// listed bcrypt costs win over derived ones
	rate, err = c.HashRate("bcrypt_cost12")
	require.NoError(t, err)
	assert.Equal(t, 1437.0, rate)

	rate, err = c.HashRate("bcrypt_cost14")
	require.NoError(t, err)
	assert.Equal(t, 184000/math.Pow(2, 9), rate)

	rate, err = c.HashRate("bcrypt_cost4")
	require.NoError(t, err)
	assert.Equal(t, 368000.0, rate)

	for _, name := range []string{"bcrypt_cost3", "bcrypt_cost32", "bcrypt_costX", "rot13"} {
		_, err = c.HashRate(name)
		if assert.Error(t, err, name) {
			assert.True(t, strings.HasPrefix(err.Error(), "Unknown algorithm: '"+name+"'. Supported: argon2id_64m_t3, "))
		}
	}
}

func TestCatalog_EffectiveRate(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	rate, err := c.EffectiveRate("bcrypt_cost12", "small_rig")
	require.NoError(t, err)
	assert.InDelta(t, 1437*3.6, rate, 1e-9)

	_, err = c.EffectiveRate("md5", "toaster")
	require.Error(t, err)
	assert.Equal(t, "Unknown hardware tier: 'toaster'. Supported: budget, consumer, dedicated, enthusiast, large_rig, nation_state, small_rig, well_funded", err.Error())
}

func TestLoadCatalog_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key": `
algorithms: [{name: md5, rate: 1, speed: 2}]
hardware_tiers: [{name: consumer, description: x, multiplier: 1}]`,
		"duplicate algorithm": `
algorithms: [{name: md5, rate: 1}, {name: md5, rate: 2}]
hardware_tiers: [{name: consumer, description: x, multiplier: 1}]`,
		"zero rate": `
algorithms: [{name: md5, rate: 0}]
hardware_tiers: [{name: consumer, description: x, multiplier: 1}]`,
		"negative multiplier": `
algorithms: [{name: md5, rate: 1}]
hardware_tiers: [{name: consumer, description: x, multiplier: -1}]`,
		"no tiers": `
algorithms: [{name: md5, rate: 1}]`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog_SameNameAcrossKinds(t *testing.T) {
	doc := `
algorithms: [{name: fast, rate: 10}]
hardware_tiers: [{name: fast, description: x, multiplier: 2}]`

	c, err := LoadCatalog(strings.NewReader(doc))
	require.NoError(t, err)

	rate, err := c.EffectiveRate("fast", "fast")
	require.NoError(t, err)
	assert.Equal(t, 20.0, rate)
}
