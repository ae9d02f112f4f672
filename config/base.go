package config

import (
	"fmt"
	"slices"
)

var validEnvironments = []string{"development", "staging", "production"}

// BaseConfig contains the identity fields every binary carries.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
}

// Validate validates base configuration.
func (c *BaseConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !slices.Contains(validEnvironments, c.Environment) {
		return fmt.Errorf("environment must be one of %v (got: %s)", validEnvironments, c.Environment)
	}
	return nil
}
