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

// Package rewrite updates references to renamed files across a tree.
//
//	┌──────────┐    ┌──────────┐    ┌──────────┐    ┌──────────┐
//	│ Manifest │───►│  Rules   │───►│ Replace  │───►│  Atomic  │
//	│ + bases  │    │ per base │    │ at once  │    │  write   │
//	└──────────┘    └──────────┘    └──────────┘    └──────────┘
package rewrite

import (
	"context"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/cachebust/pkg/expand"
	"github.com/walteh/cachebust/pkg/manifest"
	"github.com/walteh/cachebust/pkg/status"
	"github.com/walteh/cachebust/pkg/text"
	"github.com/walteh/cachebust/pkg/tree"
)

// ⚙️ Options configure a Rewriter
type Options struct {
	// Strategy selects the simultaneous replacement implementation
	Strategy text.Strategy

	// Include limits rewriting to files matching one of these doublestar
	// patterns, relative to the root. Empty means every file.
	Include []string

	// DryRun computes changes without writing them
	DryRun bool

	Reporter status.Reporter
}

// 📝 Rewriter applies the manifest to every text file of a tree
type Rewriter struct {
	strategy text.Strategy
	include  []string
	dryRun   bool
	reporter status.Reporter
}

// 🏭 New validates options and creates a rewriter
func New(opts Options) (*Rewriter, error) {
	if err := opts.Strategy.Validate(); err != nil {
		return nil, err
	}
	for _, p := range opts.Include {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Errorf("invalid include pattern %q", p)
		}
	}
	r := &Rewriter{
		strategy: opts.Strategy,
		include:  opts.Include,
		dryRun:   opts.DryRun,
		reporter: opts.Reporter,
	}
	if r.reporter == nil {
		r.reporter = status.Discard{}
	}
	return r, nil
}

// 🚀 Rewrite replaces every reference to a manifest entry in the text files
// under root. Files that are not valid UTF-8 are left alone, and a file is
// only written when its content changed.
func (r *Rewriter) Rewrite(ctx context.Context, root string, bases []string, m *manifest.Manifest, skip tree.SkipSet, exp expand.Expander) error {
	logger := zerolog.Ctx(ctx)

	if exp == nil {
		exp = expand.Default()
	}

	rules, err := BuildRules(root, bases, m, exp)
	if err != nil {
		return errors.Errorf("building substitution rules: %w", err)
	}

	replacer, err := text.NewReplacer(r.strategy, rules)
	if err != nil {
		return errors.Errorf("compiling substitution rules: %w", err)
	}

	logger.Debug().
		Int("rules", len(rules)).
		Strs("bases", NormalizeBases(bases)).
		Msg("compiled substitution rules")

	entries, err := tree.Snapshot(ctx, root, skip)
	if err != nil {
		return errors.Errorf("listing files to rewrite: %w", err)
	}

	r.reporter.StartOperation(ctx, "rewrite", len(entries))
	defer r.reporter.FinishOperation(ctx)

	for i, entry := range entries {
		st, err := r.rewriteFile(ctx, entry, replacer)
		if err != nil {
			return err
		}
		r.reporter.Track(ctx, status.FileInfo{Path: entry.Rel, Status: st})
		r.reporter.UpdateProgress(ctx, i+1)
	}

	return nil
}

func (r *Rewriter) included(rel string) bool {
	if len(r.include) == 0 {
		return true
	}
	slashed := filepath.ToSlash(rel)
	for _, p := range r.include {
		if ok, _ := doublestar.Match(p, slashed); ok {
			return true
		}
	}
	return false
}

func (r *Rewriter) rewriteFile(ctx context.Context, entry tree.Entry, replacer text.Replacer) (status.FileStatus, error) {
	if !r.included(entry.Rel) {
		return status.StatusSkipped, nil
	}

	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return status.StatusUnknown, errors.Errorf("reading %s: %w", entry.Path, err)
	}

	if !utf8.Valid(data) {
		return status.StatusBinary, nil
	}

	result, err := text.ReplaceText(replacer, string(data))
	if err != nil {
		return status.StatusUnknown, errors.Errorf("rewriting %s: %w", entry.Path, err)
	}
	if !result.WasModified {
		return status.StatusUnchanged, nil
	}

	if r.dryRun {
		zerolog.Ctx(ctx).Debug().Str("file", entry.Rel).Msg("would rewrite")
		return status.StatusRewritten, nil
	}

	if err := writeFileAtomic(entry.Path, []byte(result.ModifiedContent)); err != nil {
		return status.StatusUnknown, err
	}
	return status.StatusRewritten, nil
}

// writeFileAtomic replaces path with data through a temp file in the same
// directory, keeping the original permission bits.
func writeFileAtomic(path string, data []byte) error {
	fi, err := os.Stat(path)
	if err != nil {
		return errors.Errorf("stat %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(fi.Mode().Perm()); err != nil {
		tmp.Close()
		return errors.Errorf("setting mode on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
