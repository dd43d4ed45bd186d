// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package config

import (
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"grimm.is/haplane/internal/errors"
)

// LoadFile reads, decodes, defaults, and validates an HCL config file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, "failed to read config file")
	}
	return LoadBytes(path, data)
}

// LoadBytes decodes config from bytes. The filename is used for diagnostics
// and must carry a .hcl extension for hclsimple to pick the syntax.
func LoadBytes(filename string, data []byte) (*Config, error) {
	var cfg Config
	if err := hclsimple.Decode(filename, data, nil, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.KindValidation, "failed to decode config")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.NodeID == "" {
		if host, err := os.Hostname(); err == nil {
			c.NodeID = host
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.StateFile == "" {
		c.StateFile = DefaultStateFile
	}
	if c.Relations == nil {
		c.Relations = &RelationsConfig{}
	}
	if c.Relations.Dir == "" {
		c.Relations.Dir = DefaultRelationsDir
	}
	if c.API == nil {
		c.API = &APIConfig{}
	}
	if c.API.Listen == "" {
		c.API.Listen = DefaultAPIListen
	}
	if c.HA != nil && c.HA.McastPort == 0 {
		c.HA.McastPort = DefaultMcastPort
	}
}
