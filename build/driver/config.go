// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package driver

import (
	"fmt"
	"os"
	"sort"

	"github.com/gx-org/irlower/build/lower/mangle"
	"github.com/gx-org/irlower/build/rewrite"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/mod/semver"
)

// ConfigVersion is the version of the configuration format written by DefaultConfig.
const ConfigVersion = "v1.0.0"

// DefaultPasses is the order in which passes run when the configuration does not list any.
var DefaultPasses = []string{"modorder", "declcalls", "arrayloop", "containers", "mangle"}

// Config of a pass pipeline.
//
// A configuration is usually read from a TOML file:
//
//	version = "v1.0.0"
//	passes = ["modorder", "declcalls", "arrayloop", "containers", "mangle"]
//	mangle = "module"
//	max_passes = 32
//	max_depth = 512
type Config struct {
	// Version of the configuration format. Only major version v1 is supported.
	Version string `toml:"version"`
	// Passes lists the names of the passes to run, in order.
	Passes []string `toml:"passes"`
	// Mangle is the name of the mangling policy.
	Mangle string `toml:"mangle"`
	// MaxPasses bounds the number of pass invocations in a single run.
	MaxPasses int `toml:"max_passes"`
	// MaxDepth bounds the depth of the expressions walked by the passes.
	MaxDepth int `toml:"max_depth"`
}

// DefaultConfig returns the configuration used when none is provided.
func DefaultConfig() *Config {
	return (&Config{}).withDefaults()
}

// LoadConfig decodes a TOML configuration.
// Missing fields are set to their default values.
func LoadConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "cannot decode pass configuration")
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFile reads and decodes a TOML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read pass configuration")
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return cfg, nil
}

// withDefaults returns a copy of the configuration with missing fields set.
func (cfg *Config) withDefaults() *Config {
	c := *cfg
	if c.Version == "" {
		c.Version = ConfigVersion
	}
	if c.Passes == nil {
		c.Passes = append([]string{}, DefaultPasses...)
	}
	if c.Mangle == "" {
		c.Mangle = mangle.PolicyModule.String()
	}
	if c.MaxPasses == 0 {
		c.MaxPasses = 32
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = rewrite.DefaultMaxDepth
	}
	return &c
}

func (cfg *Config) validate() error {
	if !semver.IsValid(cfg.Version) {
		return errors.Errorf("invalid configuration version %q", cfg.Version)
	}
	if major := semver.Major(cfg.Version); major != "v1" {
		return errors.Errorf("configuration version %s not supported: want major version v1", cfg.Version)
	}
	for _, name := range cfg.Passes {
		if _, ok := registry[name]; !ok {
			return errors.Errorf("unknown pass %q: available passes are %s", name, availablePasses())
		}
	}
	if _, err := mangle.ParsePolicy(cfg.Mangle); err != nil {
		return err
	}
	if cfg.MaxPasses < 0 {
		return errors.Errorf("max_passes=%d: must be positive", cfg.MaxPasses)
	}
	if cfg.MaxDepth < 0 {
		return errors.Errorf("max_depth=%d: must be positive", cfg.MaxDepth)
	}
	return nil
}

func availablePasses() string {
	names := maps.Keys(registry)
	sort.Strings(names)
	return fmt.Sprint(names)
}
