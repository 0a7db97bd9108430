// Copyright 2025 walteh LLC
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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/cachebust/pkg/digest"
	"github.com/walteh/cachebust/pkg/expand"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "yaml_full",
			file: "cachebust.yaml",
			config: `
directory: ./out
skip:
  - index.html
  - flutter_service_worker.js
algorithm: blake3
digest_length: 12
manifest: out/manifest.json
dry_run: true
rewrite:
  skip: [version.json]
  bases: ["", assets, static]
  include: ["**/*.js", "**/*.html"]
  strategy: staged
  quotes: ["'"]
  protect: []
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "out", cfg.Directory, "directory should be cleaned")
				assert.Equal(t, []string{"index.html", "flutter_service_worker.js"}, cfg.Skip)
				assert.Equal(t, "blake3", cfg.Algorithm)
				assert.Equal(t, 12, cfg.DigestLength)
				assert.Equal(t, filepath.FromSlash("out/manifest.json"), cfg.Manifest)
				assert.True(t, cfg.DryRun)
				assert.Equal(t, []string{"version.json"}, cfg.Rewrite.Skip)
				assert.Equal(t, []string{"", "assets", "static"}, cfg.Rewrite.Bases)
				assert.Equal(t, []string{"**/*.js", "**/*.html"}, cfg.Rewrite.Include)
				assert.Equal(t, "staged", cfg.Rewrite.Strategy)
				assert.Equal(t, []string{"'"}, cfg.Rewrite.Quotes)
				assert.Empty(t, cfg.Rewrite.Protect, "explicit empty list disables protection")
			},
		},
		{
			name:   "yaml_minimal",
			file:   "cachebust.yml",
			config: "skip: [index.html]\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, filepath.FromSlash("build/web"), cfg.Directory)
				assert.Equal(t, "sha256", cfg.Algorithm)
				assert.Equal(t, digest.DefaultLength, cfg.DigestLength)
				assert.Equal(t, DefaultBases, cfg.Rewrite.Bases)
				assert.Equal(t, "automaton", cfg.Rewrite.Strategy)
				assert.Equal(t, []string{`"`}, cfg.Rewrite.Quotes)
				assert.Equal(t, []string{expand.ServiceWorkerPattern}, cfg.Rewrite.Protect)
			},
		},
		{
			name:   "yaml_empty",
			file:   "cachebust.yaml",
			config: "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, filepath.FromSlash("build/web"), cfg.Directory)
			},
		},
		{
			name:        "yaml_unknown_field",
			file:        "cachebust.yaml",
			config:      "directry: ./out\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name: "jsonc_with_comments",
			file: "cachebust.jsonc",
			config: `{
	// where the build lives
	"directory": "./site",
	"digest_length": 16,
	"rewrite": {
		"bases": [""], /* only the root */
	},
}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "site", cfg.Directory)
				assert.Equal(t, 16, cfg.DigestLength)
				assert.Equal(t, []string{""}, cfg.Rewrite.Bases)
			},
		},
		{
			name:        "json_unknown_field",
			file:        "cachebust.json",
			config:      `{"dir": "x"}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name: "hcl_full",
			file: "cachebust.hcl",
			config: `
directory     = "./www"
skip          = ["index.html"]
algorithm     = "sha256"
digest_length = 6

rewrite {
  bases    = ["", "assets"]
  strategy = "staged"
  include  = ["**/*.html"]
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "www", cfg.Directory)
				assert.Equal(t, []string{"index.html"}, cfg.Skip)
				assert.Equal(t, 6, cfg.DigestLength)
				assert.Equal(t, []string{"", "assets"}, cfg.Rewrite.Bases)
				assert.Equal(t, "staged", cfg.Rewrite.Strategy)
				assert.Equal(t, []string{"**/*.html"}, cfg.Rewrite.Include)
				assert.Equal(t, []string{expand.ServiceWorkerPattern}, cfg.Rewrite.Protect)
			},
		},
		{
			name:   "hcl_home_variable",
			file:   "cachebust.hcl",
			config: `directory = "${home}/site"`,
			check: func(t *testing.T, cfg *Config) {
				home, err := homedir.Dir()
				require.NoError(t, err)
				assert.Equal(t, filepath.Join(home, "site"), cfg.Directory)
			},
		},
		{
			name:        "hcl_unknown_attribute",
			file:        "cachebust.hcl",
			config:      `dir = "x"`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "bad_algorithm",
			file:        "cachebust.yaml",
			config:      "algorithm: md5\n",
			wantErr:     true,
			errContains: "unknown digest algorithm",
		},
		{
			name:        "bad_digest_length",
			file:        "cachebust.yaml",
			config:      "digest_length: 2\n",
			wantErr:     true,
			errContains: "digest_length must be between 4 and 64",
		},
		{
			name:        "bad_strategy",
			file:        "cachebust.yaml",
			config:      "rewrite:\n  strategy: regex\n",
			wantErr:     true,
			errContains: "rewrite.strategy",
		},
		{
			name:        "bad_include_pattern",
			file:        "cachebust.yaml",
			config:      "rewrite:\n  include: ['[oops']\n",
			wantErr:     true,
			errContains: "rewrite.include: invalid pattern",
		},
		{
			name:        "absolute_skip",
			file:        "cachebust.yaml",
			config:      "skip: [/etc/passwd]\n",
			wantErr:     true,
			errContains: "must be relative",
		},
		{
			name:        "protect_with_many_quotes",
			file:        "cachebust.yaml",
			config:      "rewrite:\n  quotes: ['\"', \"'\"]\n",
			wantErr:     true,
			errContains: "at most one quote style",
		},
		{
			name:        "unknown_extension",
			file:        "cachebust.toml",
			config:      "directory = 'x'",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temporary config file
			configPath := filepath.Join(t.TempDir(), tt.file)
			err := os.WriteFile(configPath, []byte(tt.config), 0o644)
			require.NoError(t, err, "writing config file should succeed")

			// Load config
			cfg, err := Load(ctx, configPath)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

// 🧪 TestParserSelection tests parser selection by file extension
func TestParserSelection(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Parser
	}{
		{"yaml_file", "cachebust.yaml", &YAMLParser{}},
		{"yml_file", "CACHEBUST.YML", &YAMLParser{}},
		{"hcl_file", "cachebust.hcl", &HCLParser{}},
		{"json_file", "cachebust.json", &JSONParser{}},
		{"jsonc_file", "cachebust.jsonc", &JSONParser{}},
		{"unknown_extension", "cachebust.txt", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	h, err := cfg.Hasher()
	require.NoError(t, err)
	assert.Equal(t, digest.SHA256, h.Algorithm())
	assert.Equal(t, 8, h.Length())

	exp, err := cfg.Expander()
	require.NoError(t, err)
	assert.Equal(t, []string{`"main.dart.js"`}, exp.Expand("main.dart.js"))
	assert.Equal(t, []string{"flutter_service_worker.js"}, exp.Expand("flutter_service_worker.js"))

	assert.Equal(t, filepath.FromSlash("build/web")+` (sha256/8, bases=["","assets"], automaton)`, cfg.String())
}

func TestValidateExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	cfg := &Config{Directory: "~/web", Manifest: "~/m.json"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, filepath.Join(home, "web"), cfg.Directory)
	assert.Equal(t, filepath.Join(home, "m.json"), cfg.Manifest)
}
