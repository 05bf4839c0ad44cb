// Package config handles loading and validating edgenode configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (EDGENODE_* pattern)
//   - Validating values before the node starts
//   - Providing typed access to all settings
//
// Configuration precedence (lowest to highest):
//  1. Hardcoded defaults
//  2. YAML file (configs/config.yaml)
//  3. Environment variables
//
// Runtime MQTT overrides persisted in the settings store are applied by the
// orchestrator after loading, on top of this precedence chain.
package config
