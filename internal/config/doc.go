// Package config manages the cartctl configuration file (~/.cartctl/config.yaml)
// and environment overrides using Viper.
package config
