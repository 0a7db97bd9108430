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

package rewrite

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/cachebust/pkg/expand"
	"github.com/walteh/cachebust/pkg/manifest"
	"github.com/walteh/cachebust/pkg/text"
)

var (
	ErrInvalidEncoding = errors.Base("path is not valid UTF-8")
	ErrVariantMismatch = errors.Base("expander returned different variant counts")
)

// NormalizeBases cleans the replace base list. An empty list means the
// root only, "." means the root, duplicates are dropped and the root base
// always comes first.
func NormalizeBases(bases []string) []string {
	if len(bases) == 0 {
		return []string{""}
	}

	seen := map[string]struct{}{}
	out := make([]string, 0, len(bases))
	hasRoot := false
	for _, b := range bases {
		b = filepath.ToSlash(filepath.Clean(filepath.FromSlash(b)))
		if b == "." {
			b = ""
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		if b == "" {
			hasRoot = true
			continue
		}
		out = append(out, b)
	}
	if hasRoot {
		out = append([]string{""}, out...)
	}
	return out
}

// BuildRules turns the manifest into substitution rules.
//
// For each base and each entry whose old and new paths both sit strictly
// inside root/base, both paths are made relative to root/base, expanded,
// and paired variant by variant.
func BuildRules(root string, bases []string, m *manifest.Manifest, exp expand.Expander) ([]text.ReplacementRule, error) {
	root = filepath.Clean(root)
	entries := m.Entries()

	var rules []text.ReplacementRule
	for _, base := range NormalizeBases(bases) {
		baseDir := filepath.Join(root, filepath.FromSlash(base))
		for _, e := range entries {
			oldRel, ok := under(baseDir, e.OldPath)
			if !ok {
				continue
			}
			newRel, ok := under(baseDir, e.NewPath)
			if !ok {
				continue
			}

			if !utf8.ValidString(oldRel) {
				return nil, errors.Errorf("%w: %q", ErrInvalidEncoding, e.OldPath)
			}
			if !utf8.ValidString(newRel) {
				return nil, errors.Errorf("%w: %q", ErrInvalidEncoding, e.NewPath)
			}

			olds := exp.Expand(oldRel)
			news := exp.Expand(newRel)
			if len(olds) != len(news) {
				return nil, errors.Errorf("%w: %s gave %d, %s gave %d", ErrVariantMismatch, oldRel, len(olds), newRel, len(news))
			}

			for i := range olds {
				if olds[i] == "" {
					continue
				}
				rules = append(rules, text.ReplacementRule{FromText: olds[i], ToText: news[i]})
			}
		}
	}
	return rules, nil
}

// under returns path relative to dir with slash separators, if path is
// strictly inside dir
func under(dir, path string) (string, bool) {
	path = filepath.Clean(path)
	prefix := dir + string(filepath.Separator)
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		prefix = dir
	}
	if !strings.HasPrefix(path, prefix) || len(path) == len(prefix) {
		return "", false
	}
	return filepath.ToSlash(path[len(prefix):]), true
}
