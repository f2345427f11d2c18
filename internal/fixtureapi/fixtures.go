// Package fixtureapi serves a local catalog API from a fixtures file, for
// development and demos when no real backend is available.
package fixtureapi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/rocketshoes-labs/cartctl/internal/cart"
)

// Fixtures is the data served by the fixture API.
type Fixtures struct {
	Products []cart.Product `json:"products" yaml:"products"`
	Stock    []cart.Stock   `json:"stock" yaml:"stock"`
}

// LoadFixtures reads fixtures from a .json, .yaml or .yml file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures: %w", err)
	}

	var f Fixtures
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing fixtures JSON %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing fixtures YAML %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported fixtures format %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}

	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid fixtures %s: %w", path, err)
	}
	return &f, nil
}

func (f *Fixtures) validate() error {
	seen := make(map[int]bool, len(f.Products))
	for _, p := range f.Products {
		if seen[p.ID] {
			return fmt.Errorf("duplicate product id %d", p.ID)
		}
		seen[p.ID] = true
	}
	stock := make(map[int]bool, len(f.Stock))
	for _, s := range f.Stock {
		if stock[s.ID] {
			return fmt.Errorf("duplicate stock id %d", s.ID)
		}
		if s.Amount < 0 {
			return fmt.Errorf("stock %d has negative amount %d", s.ID, s.Amount)
		}
		stock[s.ID] = true
	}
	return nil
}

func (f *Fixtures) product(id int) (cart.Product, bool) {
	for _, p := range f.Products {
		if p.ID == id {
			return p, true
		}
	}
	return cart.Product{}, false
}

func (f *Fixtures) stock(id int) (cart.Stock, bool) {
	for _, s := range f.Stock {
		if s.ID == id {
			return s, true
		}
	}
	return cart.Stock{}, false
}
