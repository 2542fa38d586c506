// Package config loads the report configuration.
//
// Values are resolved in order of precedence:
//
//  1. Environment variables with the OVERNIGHT_ prefix (highest)
//  2. A YAML file named by -config or OVERNIGHT_CONFIG_FILE
//  3. default: struct tags (lowest)
//
// Nested sections map to nested prefixes, for example
// OVERNIGHT_ANALYSIS_CLUSTER_K or OVERNIGHT_LOGGING_LEVEL. List values
// are comma separated in the environment.
//
// The merged configuration is checked with validator struct tags; a
// failure is a CONFIG error.
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
package config
