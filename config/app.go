package config

import (
	"github.com/kbukum/augment/deform"
	"github.com/kbukum/augment/errors"
	"github.com/kbukum/augment/validation"
)

// ServiceName names the augment process in logs, config lookup and
// telemetry.
const ServiceName = "augment"

// PipelineConfig describes the stage tree to run.
type PipelineConfig struct {
	Name  string           `yaml:"name" mapstructure:"name"`
	Stage deform.StageSpec `yaml:"stage" mapstructure:"stage"`
}

// Config is the full augment configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Pipeline      PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	if c.Pipeline.Name == "" {
		c.Pipeline.Name = c.Pipeline.Stage.Name
	}
}

// Validate checks the service fields and the stage tree.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return validation.Validate(c.Pipeline)
}

// Load reads the config file at path, applies AUGMENT_* environment
// overrides and defaults, and validates the result.
func Load(path string, opts ...LoaderOption) (*Config, error) {
	fs := loaderFileSystem(opts)
	if path == "" || !fs.Exists(path) {
		return nil, errors.NotFound("config file", path)
	}

	var cfg Config
	opts = append(opts, WithConfigFile(path))
	if err := LoadConfig(ServiceName, &cfg, opts...); err != nil {
		return nil, errors.InvalidInput("config", err.Error()).WithCause(err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loaderFileSystem(opts []LoaderOption) FileSystem {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		return &RealFileSystem{}
	}
	return lc.FileSystem
}
