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

// Package text applies a set of literal replacements to text as if every
// replacement happened at once: text produced by one rule is never matched
// by another rule in the same pass.
package text

import (
	"gitlab.com/tozd/go/errors"
)

// ReplacementRule defines a single literal replacement
type ReplacementRule struct {
	// FromText is the text to replace
	FromText string

	// ToText is the replacement text
	ToText string
}

// ReplacementResult contains the results of a replacement pass
type ReplacementResult struct {
	// WasModified indicates if the content changed
	WasModified bool

	// OriginalContent is the content before replacements
	OriginalContent string

	// ModifiedContent is the content after replacements
	ModifiedContent string
}

// Replacer applies a compiled rule set to content
type Replacer interface {
	// Replace returns content with every rule applied simultaneously
	Replace(content string) (string, error)
}

// Strategy selects how simultaneous replacement is implemented
type Strategy string

const (
	// StrategyAutomaton matches all rules in one scan over a trie
	StrategyAutomaton Strategy = "automaton"
	// StrategyStaged swaps matches for sentinels, then sentinels for output
	StrategyStaged Strategy = "staged"
)

var ErrUnknownStrategy = errors.Base("unknown replacement strategy")

// Validate checks that the strategy is known. Empty means automaton.
func (s Strategy) Validate() error {
	switch s {
	case StrategyAutomaton, StrategyStaged, "":
		return nil
	default:
		return errors.Errorf("%w: %q", ErrUnknownStrategy, string(s))
	}
}

// NewReplacer validates rules and compiles them with the given strategy
func NewReplacer(strategy Strategy, rules []ReplacementRule) (Replacer, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	switch strategy {
	case StrategyAutomaton, "":
		return NewAutomatonReplacer(rules), nil
	case StrategyStaged:
		return NewStagedReplacer(rules)
	default:
		return nil, errors.Errorf("%w: %q", ErrUnknownStrategy, string(strategy))
	}
}

// ValidateRules checks that every rule has something to match
func ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
	}
	return nil
}

// ReplaceText runs r over content and reports whether anything changed
func ReplaceText(r Replacer, content string) (*ReplacementResult, error) {
	modified, err := r.Replace(content)
	if err != nil {
		return nil, errors.Errorf("replacing text: %w", err)
	}
	return &ReplacementResult{
		WasModified:     modified != content,
		OriginalContent: content,
		ModifiedContent: modified,
	}, nil
}
