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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/go-homedir"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/cachebust/pkg/digest"
	"github.com/walteh/cachebust/pkg/expand"
	"github.com/walteh/cachebust/pkg/text"
)

// 📁 DefaultDirectory is where web builds usually land
const DefaultDirectory = "./build/web"

// 🎯 DefaultBases are the replace bases used when none are configured
var DefaultBases = []string{"", "assets"}

// 📝 RewriteConfig controls the reference rewrite stage
type RewriteConfig struct {
	Skip     []string `json:"skip,omitempty" yaml:"skip,omitempty"`         // Root-relative files left untouched
	Bases    []string `json:"bases,omitempty" yaml:"bases,omitempty"`       // Replace bases, "" is the root
	Include  []string `json:"include,omitempty" yaml:"include,omitempty"`   // Doublestar globs of files to rewrite
	Strategy string   `json:"strategy,omitempty" yaml:"strategy,omitempty"` // automaton or staged
	Quotes   []string `json:"quotes,omitempty" yaml:"quotes,omitempty"`     // Quote strings wrapped around paths
	Protect  []string `json:"protect,omitempty" yaml:"protect,omitempty"`   // Globs of paths matched unquoted
}

// 🔧 Config is the complete cachebust configuration
type Config struct {
	Directory    string         `json:"directory,omitempty" yaml:"directory,omitempty"`
	Skip         []string       `json:"skip,omitempty" yaml:"skip,omitempty"`
	Algorithm    string         `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	DigestLength int            `json:"digest_length,omitempty" yaml:"digest_length,omitempty"`
	Rewrite      *RewriteConfig `json:"rewrite,omitempty" yaml:"rewrite,omitempty"`
	Manifest     string         `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	DryRun       bool           `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
}

// 🏭 Default returns a validated configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	// defaults always validate
	_ = cfg.Validate()
	return cfg
}

// ✅ Validate fills defaults, expands ~ in paths and checks every value
func (cfg *Config) Validate() error {
	if cfg.Rewrite == nil {
		cfg.Rewrite = &RewriteConfig{}
	}

	// Set defaults
	if cfg.Directory == "" {
		cfg.Directory = DefaultDirectory
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = string(digest.SHA256)
	}
	if cfg.DigestLength == 0 {
		cfg.DigestLength = digest.DefaultLength
	}
	if cfg.Rewrite.Bases == nil {
		cfg.Rewrite.Bases = append([]string(nil), DefaultBases...)
	}
	if cfg.Rewrite.Strategy == "" {
		cfg.Rewrite.Strategy = string(text.StrategyAutomaton)
	}
	if cfg.Rewrite.Quotes == nil {
		cfg.Rewrite.Quotes = []string{`"`}
	}
	if cfg.Rewrite.Protect == nil {
		cfg.Rewrite.Protect = []string{expand.ServiceWorkerPattern}
	}

	// Clean up paths
	dir, err := homedir.Expand(cfg.Directory)
	if err != nil {
		return errors.Errorf("expanding directory: %w", err)
	}
	cfg.Directory = filepath.Clean(dir)

	if cfg.Manifest != "" {
		m, err := homedir.Expand(cfg.Manifest)
		if err != nil {
			return errors.Errorf("expanding manifest path: %w", err)
		}
		cfg.Manifest = filepath.Clean(m)
	}

	// Check values
	if err := digest.Algorithm(cfg.Algorithm).Validate(); err != nil {
		return errors.Errorf("algorithm: %w", err)
	}
	if cfg.DigestLength < digest.MinLength || cfg.DigestLength > digest.MaxLength {
		return errors.Errorf("digest_length must be between %d and %d, got %d", digest.MinLength, digest.MaxLength, cfg.DigestLength)
	}
	if err := text.Strategy(cfg.Rewrite.Strategy).Validate(); err != nil {
		return errors.Errorf("rewrite.strategy: %w", err)
	}
	for _, p := range cfg.Skip {
		if filepath.IsAbs(p) {
			return errors.Errorf("skip entry %q must be relative to the directory", p)
		}
	}
	for _, p := range cfg.Rewrite.Skip {
		if filepath.IsAbs(p) {
			return errors.Errorf("rewrite.skip entry %q must be relative to the directory", p)
		}
	}
	for _, q := range cfg.Rewrite.Quotes {
		if q == "" {
			return errors.Errorf("rewrite.quotes entries must not be empty")
		}
	}
	if len(cfg.Rewrite.Protect) > 0 && len(cfg.Rewrite.Quotes) > 1 {
		return errors.Errorf("rewrite.protect needs at most one quote style, got %d", len(cfg.Rewrite.Quotes))
	}
	if err := validatePatterns("rewrite.include", cfg.Rewrite.Include); err != nil {
		return err
	}
	if err := validatePatterns("rewrite.protect", cfg.Rewrite.Protect); err != nil {
		return err
	}

	return nil
}

func validatePatterns(field string, patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("%s: invalid pattern %q", field, p)
		}
	}
	return nil
}

// 🔐 Hasher builds the digest hasher described by the config
func (cfg *Config) Hasher() (*digest.Hasher, error) {
	return digest.New(digest.Algorithm(cfg.Algorithm), cfg.DigestLength)
}

// 🔤 Expander builds the pattern expander described by the config
func (cfg *Config) Expander() (expand.Expander, error) {
	if cfg.Rewrite == nil {
		return expand.Default(), nil
	}
	return expand.New(expand.Options{
		Quotes:  cfg.Rewrite.Quotes,
		Protect: cfg.Rewrite.Protect,
	})
}

func (cfg *Config) String() string {
	bases := []string{}
	strategy := ""
	if cfg.Rewrite != nil {
		bases = cfg.Rewrite.Bases
		strategy = cfg.Rewrite.Strategy
	}
	return fmt.Sprintf("%s (%s/%d, bases=[%s], %s)", cfg.Directory, cfg.Algorithm, cfg.DigestLength, strings.Join(quoteAll(bases), ","), strategy)
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
