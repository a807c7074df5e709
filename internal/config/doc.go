// Package config loads arkroute.yaml and resolves it into the absolute paths
// of one pipeline run.
//
// Precedence, lowest first: built-in layout defaults, arkroute.yaml,
// ARKROUTE_* environment variables, command-line flags.
package config
