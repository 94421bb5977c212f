// Package config loads augment configuration from YAML files, .env files,
// and AUGMENT_* environment variables.
//
// # Usage
//
//	cfg, err := config.Load("pipeline.yml")
//	stage, err := deform.DefaultRegistry().Build(cfg.Pipeline.Stage)
//
// Environment variables override file values. The prefix is stripped and
// the rest is mapped onto nested keys, so AUGMENT_LOGGING_LEVEL=debug sets
// logging.level.
package config
