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

// Package rename fingerprints every file of a tree by inserting a content
// digest into its name.
//
//	┌──────────┐    ┌──────────┐    ┌──────────┐    ┌──────────┐
//	│ Snapshot │───►│  Digest  │───►│  Rename  │───►│ Manifest │
//	│   tree   │    │ contents │    │ in place │    │  record  │
//	└──────────┘    └──────────┘    └──────────┘    └──────────┘
package rename

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/cachebust/pkg/digest"
	"github.com/walteh/cachebust/pkg/manifest"
	"github.com/walteh/cachebust/pkg/status"
	"github.com/walteh/cachebust/pkg/tree"
)

var ErrTargetExists = errors.Base("rename target already exists")

// ⚙️ Options configure a Renamer
type Options struct {
	Hasher   *digest.Hasher
	DryRun   bool
	Reporter status.Reporter
}

// 🔖 Renamer renames files to their fingerprinted names
type Renamer struct {
	hasher   *digest.Hasher
	dryRun   bool
	reporter status.Reporter
}

// 🏭 New creates a renamer, filling unset options with defaults
func New(opts Options) *Renamer {
	r := &Renamer{
		hasher:   opts.Hasher,
		dryRun:   opts.DryRun,
		reporter: opts.Reporter,
	}
	if r.hasher == nil {
		r.hasher = digest.Default()
	}
	if r.reporter == nil {
		r.reporter = status.Discard{}
	}
	return r
}

// 🚀 Rename fingerprints every regular file under root that is not in skip.
//
// The first failure aborts the run. Files renamed before the failure stay
// renamed; the returned error says which path failed.
func (r *Renamer) Rename(ctx context.Context, root string, skip tree.SkipSet) (*manifest.Manifest, error) {
	logger := zerolog.Ctx(ctx)

	entries, err := tree.Snapshot(ctx, root, skip)
	if err != nil {
		return nil, errors.Errorf("listing files to rename: %w", err)
	}

	r.reporter.StartOperation(ctx, "rename", len(entries))
	defer r.reporter.FinishOperation(ctx)

	plan := newPlan(r.dryRun)
	m := manifest.New()

	for i, entry := range entries {
		sum, err := r.hasher.SumFile(entry.Path)
		if err != nil {
			return nil, errors.Errorf("fingerprinting %s: %w", entry.Rel, err)
		}

		newPath := filepath.Join(filepath.Dir(entry.Path), digest.FileName(filepath.Base(entry.Path), sum))

		if err := plan.move(entry.Path, newPath); err != nil {
			return nil, err
		}

		if err := m.Add(entry.Path, newPath); err != nil {
			return nil, err
		}

		logger.Debug().
			Str("from", entry.Path).
			Str("to", newPath).
			Bool("dry_run", r.dryRun).
			Msg("renamed")

		r.reporter.Track(ctx, status.FileInfo{
			Path:   entry.Rel,
			Status: status.StatusRenamed,
			Detail: filepath.Base(newPath),
		})
		r.reporter.UpdateProgress(ctx, i+1)
	}

	return m, nil
}

// plan performs renames, or in dry-run mode records them so later
// collision checks see the tree as it would have been.
type plan struct {
	dryRun   bool
	vacated  map[string]struct{}
	occupied map[string]struct{}
}

func newPlan(dryRun bool) *plan {
	return &plan{
		dryRun:   dryRun,
		vacated:  map[string]struct{}{},
		occupied: map[string]struct{}{},
	}
}

func (p *plan) exists(path string) (bool, error) {
	if _, ok := p.occupied[path]; ok {
		return true, nil
	}
	if _, ok := p.vacated[path]; ok {
		return false, nil
	}
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errors.Errorf("checking %s: %w", path, err)
}

func (p *plan) move(from, to string) error {
	exists, err := p.exists(to)
	if err != nil {
		return err
	}
	if exists {
		return errors.Errorf("%w: renaming %s to %s", ErrTargetExists, from, to)
	}

	if p.dryRun {
		p.vacated[from] = struct{}{}
		delete(p.occupied, from)
		p.occupied[to] = struct{}{}
		return nil
	}

	if err := os.Rename(from, to); err != nil {
		return errors.Errorf("renaming %s to %s: %w", from, to, err)
	}
	return nil
}
