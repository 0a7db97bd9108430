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
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

var strategies = []Strategy{StrategyAutomaton, StrategyStaged}

// 🧪 TestSimultaneousReplacement checks that output of one rule is never rewritten by another
func TestSimultaneousReplacement(t *testing.T) {
	tests := []struct {
		name    string
		rules   []ReplacementRule
		content string
		want    string
	}{
		{
			name: "chained_renames",
			rules: []ReplacementRule{
				{FromText: "a.js", ToText: "a.111.js"},
				{FromText: "a.111.js", ToText: "a.222.js"},
			},
			content: "ref to a.js and a.111.js",
			want:    "ref to a.111.js and a.222.js",
		},
		{
			name: "swap",
			rules: []ReplacementRule{
				{FromText: "x.css", ToText: "y.css"},
				{FromText: "y.css", ToText: "x.css"},
			},
			content: "x.css y.css x.css",
			want:    "y.css x.css y.css",
		},
		{
			name: "quoted_paths",
			rules: []ReplacementRule{
				{FromText: `"main.dart.js"`, ToText: `"main.dart.1a2b3c4d.js"`},
				{FromText: `"assets/logo.png"`, ToText: `"assets/logo.5e6f7a8b.png"`},
			},
			content: `<script src="main.dart.js"></script><img src="assets/logo.png">`,
			want:    `<script src="main.dart.1a2b3c4d.js"></script><img src="assets/logo.5e6f7a8b.png">`,
		},
		{
			name: "replacement_contains_pattern",
			rules: []ReplacementRule{
				{FromText: "a", ToText: "aa"},
			},
			content: "banana",
			want:    "baanaanaa",
		},
		{
			name: "no_match",
			rules: []ReplacementRule{
				{FromText: "missing", ToText: "found"},
			},
			content: "nothing to see",
			want:    "nothing to see",
		},
		{
			name:    "no_rules",
			rules:   nil,
			content: "unchanged",
			want:    "unchanged",
		},
		{
			name: "unicode_content",
			rules: []ReplacementRule{
				{FromText: "café.js", ToText: "café.0badf00d.js"},
			},
			content: "load café.js ☕",
			want:    "load café.0badf00d.js ☕",
		},
	}

	for _, strategy := range strategies {
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s/%s", strategy, tt.name), func(t *testing.T) {
				r, err := NewReplacer(strategy, tt.rules)
				require.NoError(t, err)

				got, err := r.Replace(tt.content)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestReplacementTieBreak(t *testing.T) {
	// both rules match at offset 0, the earlier one wins
	rules := []ReplacementRule{
		{FromText: "ab", ToText: "X"},
		{FromText: "abc", ToText: "Y"},
	}

	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			r, err := NewReplacer(strategy, rules)
			require.NoError(t, err)
			got, err := r.Replace("abc")
			require.NoError(t, err)
			assert.Equal(t, "Xc", got)
		})
	}
}

func TestLeftmostMatchWins(t *testing.T) {
	tests := []struct {
		name    string
		rules   []ReplacementRule
		content string
		want    string
	}{
		{
			name:    "later_rule_starts_earlier",
			rules:   []ReplacementRule{{FromText: "bc", ToText: "1"}, {FromText: "ab", ToText: "2"}},
			content: "abc",
			want:    "2c",
		},
		{
			name: "old_name_is_suffix_of_another",
			rules: []ReplacementRule{
				{FromText: "a.js", ToText: "a.11111111.js"},
				{FromText: "ba.js", ToText: "ba.22222222.js"},
			},
			content: "load ba.js then a.js",
			want:    "load ba.22222222.js then a.11111111.js",
		},
		{
			name: "old_name_is_infix_of_another",
			rules: []ReplacementRule{
				{FromText: "main.js", ToText: "main.1.js"},
				{FromText: "app/main.js.map", ToText: "app/main.js.2.map"},
			},
			content: "app/main.js.map main.js",
			want:    "app/main.js.2.map main.1.js",
		},
	}

	for _, strategy := range strategies {
		for _, tt := range tests {
			t.Run(string(strategy)+"/"+tt.name, func(t *testing.T) {
				r, err := NewReplacer(strategy, tt.rules)
				require.NoError(t, err)

				got, err := r.Replace(tt.content)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestStagedSentinelRunesInContent(t *testing.T) {
	// occupy the first private use runes so sentinels must move past them
	var b strings.Builder
	for r := rune(puaFirst); r < puaFirst+20; r++ {
		b.WriteRune(r)
	}
	noise := b.String()

	r, err := NewStagedReplacer([]ReplacementRule{
		{FromText: "a.js", ToText: "a.111.js"},
		{FromText: "a.111.js", ToText: "a.222.js"},
	})
	require.NoError(t, err)

	got, err := r.Replace(noise + "a.js a.111.js" + noise)
	require.NoError(t, err)
	assert.Equal(t, noise+"a.111.js a.222.js"+noise, got)
}

func TestStagedManyRules(t *testing.T) {
	// more than ten rules exercises multi-digit sentinels
	var rules []ReplacementRule
	var in, want []string
	for i := 0; i < 25; i++ {
		from := fmt.Sprintf("f%02d.js", i)
		to := fmt.Sprintf("f%02d.%08d.js", i, i)
		rules = append(rules, ReplacementRule{FromText: from, ToText: to})
		in = append(in, from)
		want = append(want, to)
	}

	r, err := NewStagedReplacer(rules)
	require.NoError(t, err)

	got, err := r.Replace(strings.Join(in, " "))
	require.NoError(t, err)
	assert.Equal(t, strings.Join(want, " "), got)
}

func TestStagedNoSentinel(t *testing.T) {
	var b strings.Builder
	for r := rune(puaFirst); r <= puaLast; r++ {
		b.WriteRune(r)
	}

	r, err := NewStagedReplacer([]ReplacementRule{{FromText: "a", ToText: "b"}})
	require.NoError(t, err)

	_, err = r.Replace(b.String())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSentinel))
}

func TestStagedInvalidRule(t *testing.T) {
	_, err := NewStagedReplacer([]ReplacementRule{{FromText: "a\xff", ToText: "b"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRule))
}

func TestSentinelSpelling(t *testing.T) {
	var m sentinelMarks
	for i := range m {
		m[i] = rune('A' + i)
	}
	// A opens, B closes, C..L are digits 0..9
	assert.Equal(t, "ACB", m.sentinel(0))
	assert.Equal(t, "ADB", m.sentinel(1))
	assert.Equal(t, "ADCB", m.sentinel(10))
	assert.Equal(t, "AEFGB", m.sentinel(234))
}

func TestNewReplacerErrors(t *testing.T) {
	_, err := NewReplacer("fancy", []ReplacementRule{{FromText: "a"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStrategy))

	_, err = NewReplacer(StrategyAutomaton, []ReplacementRule{{FromText: "", ToText: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from_text is required")
}

func TestStrategyValidate(t *testing.T) {
	assert.NoError(t, Strategy("").Validate())
	assert.NoError(t, StrategyStaged.Validate())
	assert.Error(t, Strategy("regex").Validate())
}

func TestReplaceText(t *testing.T) {
	r := NewAutomatonReplacer([]ReplacementRule{{FromText: "old", ToText: "new"}})

	res, err := ReplaceText(r, "old text")
	require.NoError(t, err)
	assert.True(t, res.WasModified)
	assert.Equal(t, "old text", res.OriginalContent)
	assert.Equal(t, "new text", res.ModifiedContent)

	res, err = ReplaceText(r, "plain")
	require.NoError(t, err)
	assert.False(t, res.WasModified)
}
