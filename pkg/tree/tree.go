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

// Package tree lists the regular files of a directory tree.
package tree

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📄 Entry is a regular file found under a root
type Entry struct {
	Path string // absolute path
	Rel  string // path relative to the root, OS separators
}

// 🚫 SkipSet holds root-relative paths excluded by exact match
type SkipSet map[string]struct{}

// 🏭 NewSkipSet cleans each path so "./a/b.js" and "a/b.js" are the same entry
func NewSkipSet(paths ...string) SkipSet {
	s := make(SkipSet, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		s[filepath.Clean(filepath.FromSlash(p))] = struct{}{}
	}
	return s
}

// 🔍 Contains reports whether rel is skipped
func (s SkipSet) Contains(rel string) bool {
	_, ok := s[rel]
	return ok
}

// 📸 Snapshot walks root and returns every regular, non-skipped file.
//
// The whole listing is taken before the caller touches the tree, so
// renaming entries afterwards cannot disturb the walk. A symlinked root is
// resolved before walking, but entry paths stay under root as given.
// Symlinks inside the tree are not followed and are never returned.
func Snapshot(ctx context.Context, root string, skip SkipSet) ([]Entry, error) {
	logger := zerolog.Ctx(ctx)

	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", root, err)
	}

	var entries []Entry
	err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(resolved, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		if skip.Contains(rel) {
			logger.Debug().Str("file", rel).Msg("skipped by skip list")
			return nil
		}

		entries = append(entries, Entry{Path: filepath.Join(root, rel), Rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}
