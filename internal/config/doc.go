// Package config loads, normalizes, and validates framescan configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the FRAMESCAN_LOG_LEVEL
// environment override. The Config type centralizes the knobs the CLI and the
// batch driver need: frame source and OCR backends, stride, output placement,
// and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical backend names, and clear validation errors.
package config
