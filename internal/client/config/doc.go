// Package config loads runtime configuration for the timeline CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. JSON file, by default ~/.timeline/config.json (see Load).
//  3. Command-line flags bound by the cli package, which override earlier
//     values.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the call timeout, so it can be
// either a string like "10s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "eyJhbGciOi...",
//	  "timeout": "10s"
//	}
//
// A missing file is not an error. Save writes the file back with 0600
// permissions since it holds the access token.
package config
