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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 📦 Format is the on-disk encoding of a manifest file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// 🔍 FormatFor picks the format from the file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.Errorf("unsupported manifest extension %q", filepath.Ext(path))
	}
}

// 📝 Marshal encodes the manifest as root-relative, slash-separated paths
func Marshal(m *Manifest, root string, format Format) ([]byte, error) {
	rel := make(map[string]string, m.Len())
	for _, e := range m.Entries() {
		oldRel, err := filepath.Rel(root, e.OldPath)
		if err != nil {
			return nil, errors.Errorf("relativizing %s: %w", e.OldPath, err)
		}
		newRel, err := filepath.Rel(root, e.NewPath)
		if err != nil {
			return nil, errors.Errorf("relativizing %s: %w", e.NewPath, err)
		}
		rel[filepath.ToSlash(oldRel)] = filepath.ToSlash(newRel)
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(rel, "", "  ")
		if err != nil {
			return nil, errors.Errorf("encoding JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(rel); err != nil {
			return nil, errors.Errorf("encoding YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Errorf("encoding YAML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.Errorf("unsupported manifest format %q", string(format))
	}
}

// 📥 Unmarshal decodes a manifest file, resolving paths against root
func Unmarshal(data []byte, root string, format Format) (*Manifest, error) {
	rel := map[string]string{}
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &rel); err != nil {
			return nil, errors.Errorf("parsing JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &rel); err != nil {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
	default:
		return nil, errors.Errorf("unsupported manifest format %q", string(format))
	}

	m := New()
	for oldRel, newRel := range rel {
		oldPath := filepath.Join(root, filepath.FromSlash(oldRel))
		newPath := filepath.Join(root, filepath.FromSlash(newRel))
		if err := m.Add(oldPath, newPath); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// 💾 Write stores the manifest at path, format chosen by extension
func Write(path string, root string, m *Manifest) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Marshal(m, root, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("creating manifest directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

// 📂 Read loads a manifest written by Write
func Read(path string, root string) (*Manifest, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading manifest %s: %w", path, err)
	}
	return Unmarshal(data, root, format)
}
