// Package config loads and validates application settings from an optional
// config.yaml and GRADEBOOK_-prefixed environment variables.
package config
