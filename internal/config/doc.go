// Package config loads, validates, and normalizes Hunt configuration.
//
// Configuration is sourced from a TOML file (default ~/.config/hunt/config.toml
// with a hunt.toml fallback in the working directory), overlaid with
// environment variables for secrets such as the ntfy topic. All path values
// are expanded to absolute form during Load so downstream code never handles
// "~" or relative segments.
package config
