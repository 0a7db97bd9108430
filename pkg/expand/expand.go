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

// Package expand turns a slash-separated relative path into the literal
// text variants that reference it inside a file.
package expand

import (
	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// ServiceWorkerPattern matches files that must keep their paths unquoted
const ServiceWorkerPattern = "**/flutter_service_worker.js"

// Expander produces the variants of a relative path. For a given
// expander, every path must yield the same number of variants.
type Expander interface {
	Expand(rel string) []string
}

// Func adapts a plain function to Expander
type Func func(rel string) []string

func (f Func) Expand(rel string) []string { return f(rel) }

// Raw yields the path itself
type Raw struct{}

func (Raw) Expand(rel string) []string { return []string{rel} }

// Quoted yields the path wrapped in each quote string
type Quoted struct {
	Quotes []string
}

func (q Quoted) Expand(rel string) []string {
	quotes := q.Quotes
	if len(quotes) == 0 {
		quotes = []string{`"`}
	}
	out := make([]string, len(quotes))
	for i, quote := range quotes {
		out[i] = quote + rel + quote
	}
	return out
}

// Protected passes matching paths through untouched and hands everything
// else to Next. Next must yield exactly one variant per path, otherwise
// protected and unprotected paths disagree on the variant count.
type Protected struct {
	Patterns []string
	Next     Expander
}

// NewProtected validates the doublestar patterns
func NewProtected(patterns []string, next Expander) (*Protected, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Errorf("invalid protect pattern %q", p)
		}
	}
	if next == nil {
		next = Raw{}
	}
	return &Protected{Patterns: patterns, Next: next}, nil
}

func (p *Protected) Expand(rel string) []string {
	for _, pattern := range p.Patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return []string{rel}
		}
	}
	if p.Next == nil {
		return []string{rel}
	}
	return p.Next.Expand(rel)
}

// Default quotes paths with double quotes, except the service worker
func Default() Expander {
	return &Protected{
		Patterns: []string{ServiceWorkerPattern},
		Next:     Quoted{Quotes: []string{`"`}},
	}
}

// Options describe an expander built from configuration
type Options struct {
	Quotes  []string
	Protect []string
}

// New builds an expander from options. No quotes means raw paths; no
// protect patterns means no pass-through.
func New(opts Options) (Expander, error) {
	var next Expander = Raw{}
	if len(opts.Quotes) > 0 {
		next = Quoted{Quotes: opts.Quotes}
	}
	if len(opts.Protect) == 0 {
		return next, nil
	}
	if len(opts.Quotes) > 1 {
		return nil, errors.Errorf("protect patterns need at most one quote style, got %d", len(opts.Quotes))
	}
	return NewProtected(opts.Protect, next)
}
