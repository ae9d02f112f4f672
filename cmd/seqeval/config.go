package main

import (
	"fmt"

	"github.com/kbukum/seqkit/config"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/server"
)

// AppConfig is the seqeval configuration, read from config.yml and
// SEQEVAL_* environment variables.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Server               server.Config        `yaml:"server" mapstructure:"server"`
	Observability        observability.Config `yaml:"observability" mapstructure:"observability"`

	// Plan is the plan file evaluated by one-shot runs.
	Plan string `yaml:"plan" mapstructure:"plan"`
}

// ApplyDefaults fills every section. Telemetry inherits the service identity.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.ServiceVersion == "" {
		c.Observability.ServiceVersion = c.Version
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
}

// Validate validates every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}
