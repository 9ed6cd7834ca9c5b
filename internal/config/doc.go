// Package config loads, normalizes, and validates coursegen configuration.
//
// Settings come from a TOML file (~/.config/coursegen/config.toml or
// ./coursegen.toml), with blank values filled from the environment. A .env file
// in the working directory is loaded first and never overrides variables that
// are already set. The resulting Config is built once at startup and passed to
// constructors; nothing reads the environment after Load returns.
package config
