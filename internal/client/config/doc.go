// Package config loads runtime configuration for the VetSOAP client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "5s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.vetsoap.example",
//	  "auth_base_url": "https://auth.vetsoap.example",
//	  "poll_interval": "5s",
//	  "inactivity_timeout": "15m",
//	  "dev_mode": false
//	}
//
// Note: the default configuration is a development configuration (local
// HTTP API, relaxed transport checks). Production deployments must provide
// HTTPS base URLs and dev_mode=false.
package config
