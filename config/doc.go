// Copyright (c) Brand Agent Authors.
// Licensed under the MIT License.

/*
Package config provides unified configuration loading for the brand agent
platform: defaults, YAML file, then environment-variable overrides, in that
precedence order.

Usage:

	cfg, err := config.NewLoader().
	    WithConfigPath("config.yaml").
	    WithEnvPrefix("BRANDAGENT").
	    Load()
*/
package config
