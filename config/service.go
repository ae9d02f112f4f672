package config

import (
	"fmt"

	"github.com/kbukum/seqkit/logger"
)

// ServiceConfig is BaseConfig plus logging. Binaries embed it:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Server server.Config `yaml:"server" mapstructure:"server"`
//	}
type ServiceConfig struct {
	BaseConfig `yaml:",inline" mapstructure:",squash"`
	Logging    logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies base and logging defaults.
func (c *ServiceConfig) ApplyDefaults() {
	c.BaseConfig.ApplyDefaults()
	c.Logging.ApplyDefaults()
	if c.Debug && c.Logging.Level == "info" {
		c.Logging.Level = "debug"
	}
}

// Validate validates base and logging configuration.
func (c *ServiceConfig) Validate() error {
	if err := c.BaseConfig.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// GetServiceConfig returns c. Types embedding ServiceConfig satisfy
// bootstrap.Config through it.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig { return c }
