package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/rocketshoes-labs/cartctl/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys.
const (
	KeyAPIURL        = "api_url"
	KeyLocale        = "locale"
	KeyLogLevel      = "log_level"
	KeyStorageDriver = "storage.driver"
	KeyStoragePath   = "storage.path"
	KeyRedisAddr     = "redis.addr"
)

// Storage drivers.
const (
	DriverFile  = "file"
	DriverRedis = "redis"
)

var defaults = map[string]string{
	KeyAPIURL:        branding.DefaultAPIURL(),
	KeyLocale:        "en",
	KeyLogLevel:      "warn",
	KeyStorageDriver: DriverFile,
	KeyStoragePath:   "",
	KeyRedisAddr:     "localhost:6379",
}

// Keys returns every supported config key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dir returns the path to the cartctl config directory (~/.cartctl/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.cartctl/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file, a .env file in the
// working directory, and CARTCTL_* environment variables, in increasing
// order of precedence.
func Load() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// StoragePath returns the file storage location, defaulting to
// ~/.cartctl/storage.json.
func StoragePath() string {
	if p := Get(KeyStoragePath); p != "" {
		return p
	}
	return filepath.Join(Dir(), "storage.json")
}

// Validate checks value for key without saving it.
func Validate(key, value string) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}

	switch key {
	case KeyAPIURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an http(s) URL, got %q", key, value)
		}
	case KeyLogLevel:
		if _, err := logrus.ParseLevel(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	case KeyStorageDriver:
		if value != DriverFile && value != DriverRedis {
			return fmt.Errorf("%s must be %q or %q, got %q", key, DriverFile, DriverRedis, value)
		}
	}
	return nil
}

// Set validates and writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := Validate(key, value); err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
