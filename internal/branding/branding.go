// Package branding provides compile-time identity values for the CLI.
//
// Values come from branding.yaml, which is baked into the binary with
// //go:embed. Hard defaults apply when the embedded file is empty.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName       string `yaml:"cli_name"`
	DisplayName   string `yaml:"display_name"`
	Description   string `yaml:"description"`
	HomeDir       string `yaml:"home_dir"`
	EnvPrefix     string `yaml:"env_prefix"`
	StorageKey    string `yaml:"storage_key"`
	DefaultAPIURL string `yaml:"default_api_url"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:       "cartctl",
			DisplayName:   "RocketShoes Cart",
			Description:   "Terminal shopping cart for the RocketShoes storefront",
			HomeDir:       ".cartctl",
			EnvPrefix:     "CARTCTL",
			StorageKey:    "@RocketShoes:cart",
			DefaultAPIURL: "http://localhost:3333",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "cartctl").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".cartctl").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "CARTCTL").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// StorageKey returns the key under which the cart is persisted.
// It matches the key the web storefront writes to localStorage.
func StorageKey() string { load(); return defaults.StorageKey }

// DefaultAPIURL returns the storefront API base URL used when none is configured.
func DefaultAPIURL() string { load(); return defaults.DefaultAPIURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("API_URL") → "CARTCTL_API_URL".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
