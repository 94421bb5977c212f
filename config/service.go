package config

import (
	"fmt"

	"github.com/kbukum/augment/logger"
	"github.com/kbukum/augment/observability"
	"github.com/kbukum/augment/validation"
)

// Environments accepted in ServiceConfig.Environment.
var Environments = []string{"development", "staging", "production"}

// ServiceConfig contains the fields every augment process needs.
//
// Example:
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Extra string `yaml:"extra" mapstructure:"extra"`
//	}
type ServiceConfig struct {
	Name        string                     `yaml:"name" mapstructure:"name"`
	Environment string                     `yaml:"environment" mapstructure:"environment"`
	Version     string                     `yaml:"version" mapstructure:"version"`
	Debug       bool                       `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config              `yaml:"logging" mapstructure:"logging"`
	Tracing     observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics     observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// ApplyDefaults applies default values to the base configuration.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	c.Tracing.ApplyDefaults(c.Name)
	c.Metrics.ApplyDefaults(c.Name)
	if c.Version != "" {
		c.Tracing.ServiceVersion = c.Version
		c.Metrics.ServiceVersion = c.Version
	}
	c.Tracing.Environment = c.Environment
	c.Metrics.Environment = c.Environment
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if err := validation.New().
		Required("name", c.Name).
		OneOf("environment", c.Environment, Environments).
		Custom(!c.Metrics.Enabled || c.Metrics.Interval > 0, "metrics.interval", "must be positive when metrics are enabled").
		Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := validation.Validate(c.Tracing); err != nil {
		return fmt.Errorf("config.tracing: %w", err)
	}
	return nil
}
