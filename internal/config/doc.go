// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, .env and YAML files). The
// resulting Config is built once at startup and passed by value or pointer
// to the components that need it; nothing reads configuration globally.
package config
