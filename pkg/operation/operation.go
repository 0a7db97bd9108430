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

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/cachebust/pkg/expand"
	"github.com/walteh/cachebust/pkg/manifest"
	"github.com/walteh/cachebust/pkg/rename"
	"github.com/walteh/cachebust/pkg/rewrite"
	"github.com/walteh/cachebust/pkg/tree"
)

// 🎯 Operation is a single stage of the pipeline
type Operation interface {
	Name() string
	Execute(ctx context.Context) error
}

// 📚 ManifestSource supplies the manifest a rewrite works from
type ManifestSource interface {
	Manifest() *manifest.Manifest
}

// 📌 StaticManifest is a ManifestSource for an already built manifest
type StaticManifest struct {
	M *manifest.Manifest
}

func (s StaticManifest) Manifest() *manifest.Manifest { return s.M }

// 🔖 RenameOperation fingerprints a tree and keeps the resulting manifest
type RenameOperation struct {
	renamer  *rename.Renamer
	root     string
	skip     tree.SkipSet
	manifest *manifest.Manifest
}

var (
	_ Operation      = (*RenameOperation)(nil)
	_ ManifestSource = (*RenameOperation)(nil)
)

// 🏭 NewRenameOperation creates the rename stage
func NewRenameOperation(r *rename.Renamer, root string, skip tree.SkipSet) *RenameOperation {
	return &RenameOperation{renamer: r, root: root, skip: skip}
}

func (op *RenameOperation) Name() string { return "rename" }

// 🏃 Execute runs the rename stage
func (op *RenameOperation) Execute(ctx context.Context) error {
	m, err := op.renamer.Rename(ctx, op.root, op.skip)
	if err != nil {
		return err
	}
	op.manifest = m
	return nil
}

// Manifest returns nil until Execute has succeeded
func (op *RenameOperation) Manifest() *manifest.Manifest { return op.manifest }

// 📝 RewriteOperation rewrites references using a manifest
type RewriteOperation struct {
	rewriter *rewrite.Rewriter
	root     string
	bases    []string
	source   ManifestSource
	skip     tree.SkipSet
	expander expand.Expander
}

var _ Operation = (*RewriteOperation)(nil)

// 🏭 NewRewriteOperation creates the rewrite stage. The manifest is read
// from source when the stage executes, not when it is created.
func NewRewriteOperation(rw *rewrite.Rewriter, root string, bases []string, source ManifestSource, skip tree.SkipSet, exp expand.Expander) *RewriteOperation {
	return &RewriteOperation{
		rewriter: rw,
		root:     root,
		bases:    bases,
		source:   source,
		skip:     skip,
		expander: exp,
	}
}

func (op *RewriteOperation) Name() string { return "rewrite" }

// 🏃 Execute runs the rewrite stage
func (op *RewriteOperation) Execute(ctx context.Context) error {
	m := op.source.Manifest()
	if m == nil {
		return errors.New("no manifest available, rename has not run")
	}
	return op.rewriter.Rewrite(ctx, op.root, op.bases, m, op.skip, op.expander)
}
