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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/cachebust/pkg/digest"
	"github.com/walteh/cachebust/pkg/expand"
	"github.com/walteh/cachebust/pkg/manifest"
	"github.com/walteh/cachebust/pkg/rename"
	"github.com/walteh/cachebust/pkg/rewrite"
	"github.com/walteh/cachebust/pkg/status"
	"github.com/walteh/cachebust/pkg/text"
	"github.com/walteh/cachebust/pkg/tree"
)

// 🔧 Options contains everything a pipeline run needs
type Options struct {
	// Root is the directory to process
	Root string

	// Skip lists root-relative paths that keep their names
	Skip []string

	// RewriteSkip lists root-relative paths whose contents are not rewritten
	RewriteSkip []string

	// ReplaceBases scope which manifest entries produce which relative paths
	ReplaceBases []string

	// Expander turns relative paths into the text that references them
	Expander expand.Expander

	// Hasher computes fingerprints; nil means sha256 with 8 characters
	Hasher *digest.Hasher

	// Strategy selects the simultaneous replacement implementation
	Strategy text.Strategy

	// Include restricts rewriting to matching files
	Include []string

	// DryRun computes everything without touching the tree
	DryRun bool

	// Tracker collects per-file outcomes; nil creates a fresh one
	Tracker *status.Tracker

	// Observer also receives every per-file outcome
	Observer status.Reporter
}

// 📊 Result summarizes a pipeline run
type Result struct {
	Manifest  *manifest.Manifest
	Renamed   int
	Rewritten int
	Unchanged int
	Binary    int
	Skipped   int
}

// 🚀 Pipeline renames every file under Root and then rewrites references
// to the renamed files.
func Pipeline(ctx context.Context, opts Options) (*Result, error) {
	if opts.Root == "" {
		return nil, errors.New("root directory is required")
	}

	tracker := opts.Tracker
	if tracker == nil {
		tracker = status.NewTracker(nil)
	}
	reporter := status.Multi(tracker, opts.Observer)

	exp := opts.Expander
	if exp == nil {
		exp = expand.Default()
	}

	renamer := rename.New(rename.Options{
		Hasher:   opts.Hasher,
		DryRun:   opts.DryRun,
		Reporter: reporter,
	})
	rewriter, err := rewrite.New(rewrite.Options{
		Strategy: opts.Strategy,
		Include:  opts.Include,
		DryRun:   opts.DryRun,
		Reporter: reporter,
	})
	if err != nil {
		return nil, errors.Errorf("configuring rewrite: %w", err)
	}

	renameOp := NewRenameOperation(renamer, opts.Root, tree.NewSkipSet(opts.Skip...))
	rewriteOp := NewRewriteOperation(rewriter, opts.Root, opts.ReplaceBases, renameOp, tree.NewSkipSet(opts.RewriteSkip...), exp)

	if err := NewRunner().Run(ctx, renameOp, rewriteOp); err != nil {
		return nil, err
	}

	res := &Result{
		Manifest:  renameOp.Manifest(),
		Renamed:   renameOp.Manifest().Len(),
		Rewritten: tracker.Count(status.StatusRewritten),
		Unchanged: tracker.Count(status.StatusUnchanged),
		Binary:    tracker.Count(status.StatusBinary),
		Skipped:   tracker.Count(status.StatusSkipped),
	}

	zerolog.Ctx(ctx).Info().
		Str("root", opts.Root).
		Int("renamed", res.Renamed).
		Int("rewritten", res.Rewritten).
		Bool("dry_run", opts.DryRun).
		Msg("pipeline complete")

	return res, nil
}
