package server

import (
	"time"

	"github.com/kbukum/seqkit/server/middleware"
	"github.com/kbukum/seqkit/validation"
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string                `yaml:"host" mapstructure:"host"`
	Port         int                   `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	ReadTimeout  int                   `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gte=0"`   // seconds
	WriteTimeout int                   `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gte=0"` // seconds
	IdleTimeout  int                   `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"gte=0"`   // seconds
	MaxBodySize  string                `yaml:"max_body_size" mapstructure:"max_body_size"`                  // e.g. "10MB"
	RateLimit    int                   `yaml:"rate_limit" mapstructure:"rate_limit" validate:"gte=0"`       // requests per minute per client, 0 disables
	PlanDirs     []string              `yaml:"plan_dirs" mapstructure:"plan_dirs"`
	CORS         middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`

	// MaxConcurrent bounds evaluations in flight. 0 means unbounded.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent" validate:"gte=0"`
	// QueueTimeout is how long an evaluation waits for a slot before 503.
	QueueTimeout time.Duration `yaml:"queue_timeout" mapstructure:"queue_timeout" validate:"gte=0"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "10MB"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-Id"}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// MaxBodyBytes returns MaxBodySize in bytes.
func (c *Config) MaxBodyBytes() int64 {
	return middleware.ParseSize(c.MaxBodySize, middleware.DefaultMaxBodySize)
}
