// Package config loads runtime settings for agentbus programs from a YAML
// file, an optional .env file and AGENTBUS_* environment overrides, and
// validates the result against an embedded JSON schema.
package config
