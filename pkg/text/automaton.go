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

package text

import (
	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// AutomatonReplacer matches every rule in a single left-to-right scan over
// an Aho-Corasick automaton.
//
// At each position the earliest-listed rule that matches wins, the match
// is consumed, and scanning resumes after it. Replacement text is written
// straight to the output and never scanned again.
type AutomatonReplacer struct {
	r  ahocorasick.Replacer
	to []string
}

// NewAutomatonReplacer compiles rules into a single leftmost-first
// automaton. Rules with an empty FromText must be filtered out first (see
// ValidateRules).
func NewAutomatonReplacer(rules []ReplacementRule) *AutomatonReplacer {
	from := make([]string, 0, len(rules))
	to := make([]string, 0, len(rules))
	for _, rule := range rules {
		from = append(from, rule.FromText)
		to = append(to, rule.ToText)
	}
	if len(from) == 0 {
		return &AutomatonReplacer{}
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		MatchKind: ahocorasick.LeftMostFirstMatch,
		DFA:       true,
	})
	return &AutomatonReplacer{
		r:  ahocorasick.NewReplacer(builder.Build(from)),
		to: to,
	}
}

// Replace implements Replacer.Replace
func (a *AutomatonReplacer) Replace(content string) (string, error) {
	if len(a.to) == 0 {
		return content, nil
	}
	return a.r.ReplaceAll(content, a.to), nil
}
