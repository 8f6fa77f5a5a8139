package config

import "errors"

// ErrInvalidConfig is returned when a configuration fails schema validation.
var ErrInvalidConfig = errors.New("config validation failed")
