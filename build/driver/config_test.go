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

package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gx-org/irlower/build/driver"
	"github.com/gx-org/irlower/build/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := driver.DefaultConfig()
	assert.Equal(t, driver.ConfigVersion, cfg.Version)
	assert.Equal(t, []string{"modorder", "declcalls", "arrayloop", "containers", "mangle"}, cfg.Passes)
	assert.Equal(t, "module", cfg.Mangle)
	assert.Equal(t, 32, cfg.MaxPasses)
	assert.Equal(t, rewrite.DefaultMaxDepth, cfg.MaxDepth)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := driver.LoadConfig([]byte(`
version = "v1.2.0"
passes = ["arrayloop", "mangle"]
mangle = "all"
max_passes = 4
max_depth = 16
`))
	require.NoError(t, err)
	assert.Equal(t, &driver.Config{
		Version:   "v1.2.0",
		Passes:    []string{"arrayloop", "mangle"},
		Mangle:    "all",
		MaxPasses: 4,
		MaxDepth:  16,
	}, cfg)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := driver.LoadConfig([]byte(`mangle = "none"`))
	require.NoError(t, err)
	want := driver.DefaultConfig()
	want.Mangle = "none"
	assert.Equal(t, want, cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{
			src:  `version = "1.0"`,
			want: `invalid configuration version "1.0"`,
		},
		{
			src:  `version = "v2.0.0"`,
			want: "configuration version v2.0.0 not supported",
		},
		{
			src:  `passes = ["arrayloop", "inline"]`,
			want: `unknown pass "inline": available passes are [arrayloop containers declcalls mangle modorder]`,
		},
		{
			src:  `mangle = "everything"`,
			want: `unknown mangling policy "everything"`,
		},
		{
			src:  `max_passes = -1`,
			want: "max_passes=-1",
		},
		{
			src:  `passes = [`,
			want: "cannot decode pass configuration",
		},
	}
	for i, test := range tests {
		_, err := driver.LoadConfig([]byte(test.src))
		require.Error(t, err, "test %d: %s", i, test.src)
		assert.Contains(t, err.Error(), test.want, "test %d", i)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passes.toml")
	require.NoError(t, os.WriteFile(path, []byte(`passes = ["modorder"]`), 0o644))
	cfg, err := driver.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"modorder"}, cfg.Passes)

	_, err = driver.LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "cannot read pass configuration")
}
