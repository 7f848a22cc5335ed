// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to the settings of the reminder engine, its adapters and its ops
// server while keeping configuration details separate from business logic.
package config
