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

package manifest

import (
	"sort"

	"gitlab.com/tozd/go/errors"
)

var ErrDuplicateEntry = errors.Base("duplicate manifest entry")

// 🔄 Entry maps an original absolute path to its renamed absolute path
type Entry struct {
	OldPath string `json:"old" yaml:"old"`
	NewPath string `json:"new" yaml:"new"`
}

// 📚 Manifest is the complete old→new mapping produced by the rename stage
type Manifest struct {
	byOld map[string]string
}

// 🏭 New creates an empty manifest
func New() *Manifest {
	return &Manifest{byOld: make(map[string]string)}
}

// 📝 Add records a rename. Each old path may only be added once.
func (m *Manifest) Add(oldPath, newPath string) error {
	if prev, ok := m.byOld[oldPath]; ok {
		return errors.Errorf("%w: %s already maps to %s", ErrDuplicateEntry, oldPath, prev)
	}
	m.byOld[oldPath] = newPath
	return nil
}

// 🔍 Lookup returns the new path for oldPath
func (m *Manifest) Lookup(oldPath string) (string, bool) {
	if m == nil {
		return "", false
	}
	newPath, ok := m.byOld[oldPath]
	return newPath, ok
}

func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.byOld)
}

// 📋 Entries returns every entry sorted by old path
func (m *Manifest) Entries() []Entry {
	if m == nil {
		return nil
	}
	entries := make([]Entry, 0, len(m.byOld))
	for oldPath, newPath := range m.byOld {
		entries = append(entries, Entry{OldPath: oldPath, NewPath: newPath})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].OldPath < entries[j].OldPath
	})
	return entries
}

// 🗺️ Map returns a copy of the mapping
func (m *Manifest) Map() map[string]string {
	out := make(map[string]string, m.Len())
	if m == nil {
		return out
	}
	for k, v := range m.byOld {
		out[k] = v
	}
	return out
}
