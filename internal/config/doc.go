// Package config provides configuration loading, merging, and validation
// facilities for the application.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. JSON or YAML config file
//  2. Environment variables, seeded from an optional .env file
//  3. Command-line flags
//
// Defaults fill whatever is still empty. The entry point is
// [GetStructuredConfig].
package config
