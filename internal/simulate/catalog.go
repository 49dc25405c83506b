// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package simulate

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/alvinbaena/crack-time/pkg/estimate"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

const (
	bcryptPrefix  = "bcrypt_cost"
	bcryptBase    = "bcrypt_cost5"
	bcryptMinCost = 4
	bcryptMaxCost = 31
)

// Catalog holds the hash rate of one GPU per algorithm and the multiplier of each hardware
// tier over that GPU.
type Catalog struct {
	Algorithms    []estimate.AlgorithmOption `yaml:"algorithms"`
	HardwareTiers []estimate.TierOption      `yaml:"hardware_tiers"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}

// LoadCatalog reads a YAML catalog. Unknown keys, duplicate names and non-positive rates are
// rejected.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}

	if len(c.Algorithms) == 0 || len(c.HardwareTiers) == 0 {
		return nil, errors.New("catalog needs at least one algorithm and one hardware tier")
	}

	seen := make(map[string]bool)
	for _, a := range c.Algorithms {
		if a.Name == "" || seen["a:"+a.Name] {
			return nil, fmt.Errorf("catalog has an empty or duplicate algorithm name %q", a.Name)
		}
		if a.Rate <= 0 {
			return nil, fmt.Errorf("algorithm %q must have a positive rate", a.Name)
		}
		seen["a:"+a.Name] = true
	}

	for _, t := range c.HardwareTiers {
		if t.Name == "" || seen["t:"+t.Name] {
			return nil, fmt.Errorf("catalog has an empty or duplicate hardware tier name %q", t.Name)
		}
		if t.Multiplier <= 0 {
			return nil, fmt.Errorf("hardware tier %q must have a positive multiplier", t.Name)
		}
		seen["t:"+t.Name] = true
	}

	sort.SliceStable(c.Algorithms, func(i, j int) bool { return c.Algorithms[i].Name < c.Algorithms[j].Name })
	return &c, nil
}

// Metadata lists the catalog, algorithms sorted by name and tiers in catalog order.
func (c *Catalog) Metadata() estimate.MetadataResponse {
	m := estimate.MetadataResponse{
		Algorithms:    make([]estimate.AlgorithmOption, len(c.Algorithms)),
		HardwareTiers: make([]estimate.TierOption, len(c.HardwareTiers)),
	}
	copy(m.Algorithms, c.Algorithms)
	copy(m.HardwareTiers, c.HardwareTiers)
	return m
}

// HashRate returns the single GPU rate of an algorithm. bcrypt costs missing from the catalog
// are derived from bcrypt_cost5, each cost step halving the rate.
func (c *Catalog) HashRate(algorithm string) (float64, error) {
	for _, a := range c.Algorithms {
		if a.Name == algorithm {
			return a.Rate, nil
		}
	}

	if strings.HasPrefix(algorithm, bcryptPrefix) {
		cost, err := strconv.Atoi(strings.TrimPrefix(algorithm, bcryptPrefix))
		if err == nil && cost >= bcryptMinCost && cost <= bcryptMaxCost {
			for _, a := range c.Algorithms {
				if a.Name == bcryptBase {
					return a.Rate / math.Pow(2, float64(cost-5)), nil
				}
			}
		}
	}

	names := make([]string, 0, len(c.Algorithms))
	for _, a := range c.Algorithms {
		names = append(names, a.Name)
	}
	return 0, fmt.Errorf("Unknown algorithm: '%s'. Supported: %s. For bcrypt, use 'bcrypt_costN' with any cost N from %d to %d.",
		algorithm, strings.Join(names, ", "), bcryptMinCost, bcryptMaxCost)
}

func (c *Catalog) Multiplier(tier string) (float64, error) {
	for _, t := range c.HardwareTiers {
		if t.Name == tier {
			return t.Multiplier, nil
		}
	}

	names := make([]string, 0, len(c.HardwareTiers))
	for _, t := range c.HardwareTiers {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return 0, fmt.Errorf("Unknown hardware tier: '%s'. Supported: %s", tier, strings.Join(names, ", "))
}

// EffectiveRate is the guesses per second of an algorithm on a hardware tier.
func (c *Catalog) EffectiveRate(algorithm, tier string) (float64, error) {
	rate, err := c.HashRate(algorithm)
	if err != nil {
		return 0, err
	}

	multiplier, err := c.Multiplier(tier)
	if err != nil {
		return 0, err
	}

	return rate * multiplier, nil
}
