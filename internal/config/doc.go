// Package config provides centralized configuration management for the
// WQ Grid service. Configuration is loaded from the following sources in
// order of precedence:
//
//	1. Environment variables (prefix WQGRID, highest priority)
//	2. An optional YAML configuration file (config.yaml or
//	   WQGRID_CONFIG_FILE)
//	3. Default values (lowest priority)
//
// Example environment variables:
//
//	WQGRID_SERVER_PORT=8080
//	WQGRID_LOGGING_LEVEL=debug
//	WQGRID_PATHS_RANGES_FILE=data/ranges/water_quality_ranges.xlsx
//	WQGRID_UPLOAD_MAX_FILES=3
//
// All configuration is validated at load time.
package config
