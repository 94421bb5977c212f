// Package logger provides structured logging for augment using zerolog.
//
// It supports JSON and console output, per-logger levels, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("augment").WithComponent("deform")
//	log.Info("stage finished", logger.Fields("stage", "stretch", "variants", 3))
package logger
