// Package errors provides the structured error type used across augment.
// Errors carry a machine-readable code, a human-readable message, optional
// details, and an optional cause that stays reachable through errors.Unwrap.
package errors
