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
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// Private use area runes are the sentinel alphabet.
const (
	puaFirst = '\uE000'
	puaLast  = '\uF8FF'

	// open, close and ten digits
	markCount = 12
)

var (
	ErrNoSentinel  = errors.Base("no sentinel runes available")
	ErrInvalidRule = errors.Base("rule text is not valid UTF-8")
)

// StagedReplacer replaces in two phases. Every FromText is first swapped
// for a sentinel unique to its rule, then every sentinel is swapped for
// the rule's ToText.
//
// Phase one is a single left-to-right scan: at each offset the earliest
// listed rule that matches is swapped for its sentinel and the scan resumes
// after the match. Sentinels are spelled with private use runes that occur
// neither in the content nor in any rule, so phase two only sees sentinels
// phase one wrote.
type StagedReplacer struct {
	rules []ReplacementRule
	used  map[rune]struct{} // private use runes appearing in rule texts
	first map[byte][]int    // rule indexes by leading byte, in rule order
}

// NewStagedReplacer checks that every rule is valid UTF-8 and records the
// sentinel runes the rules already use.
func NewStagedReplacer(rules []ReplacementRule) (*StagedReplacer, error) {
	used := map[rune]struct{}{}
	first := map[byte][]int{}
	for i, rule := range rules {
		if rule.FromText != "" {
			first[rule.FromText[0]] = append(first[rule.FromText[0]], i)
		}
		for _, s := range []string{rule.FromText, rule.ToText} {
			if !utf8.ValidString(s) {
				return nil, errors.Errorf("%w: rule %d", ErrInvalidRule, i)
			}
			for _, r := range s {
				if r >= puaFirst && r <= puaLast {
					used[r] = struct{}{}
				}
			}
		}
	}
	return &StagedReplacer{rules: rules, used: used, first: first}, nil
}

// Replace implements Replacer.Replace
func (s *StagedReplacer) Replace(content string) (string, error) {
	if len(s.rules) == 0 {
		return content, nil
	}

	marks, err := s.marks(content)
	if err != nil {
		return "", err
	}

	sentinels := make([]string, len(s.rules))
	for i := range s.rules {
		sentinels[i] = marks.sentinel(i)
	}

	content = s.mark(content, sentinels)
	for i, rule := range s.rules {
		content = strings.ReplaceAll(content, sentinels[i], rule.ToText)
	}
	return content, nil
}

// mark swaps the leftmost match at each offset for its rule's sentinel
func (s *StagedReplacer) mark(content string, sentinels []string) string {
	var b strings.Builder
	b.Grow(len(content))

	for i := 0; i < len(content); {
		k := s.matchAt(content[i:])
		if k < 0 {
			b.WriteByte(content[i])
			i++
			continue
		}
		b.WriteString(sentinels[k])
		i += len(s.rules[k].FromText)
	}
	return b.String()
}

// matchAt returns the first rule whose FromText prefixes rest, or -1
func (s *StagedReplacer) matchAt(rest string) int {
	for _, k := range s.first[rest[0]] {
		if strings.HasPrefix(rest, s.rules[k].FromText) {
			return k
		}
	}
	return -1
}

// marks picks sentinel runes absent from the content and from every rule
func (s *StagedReplacer) marks(content string) (sentinelMarks, error) {
	taken := make(map[rune]struct{}, len(s.used))
	for r := range s.used {
		taken[r] = struct{}{}
	}
	for _, r := range content {
		if r >= puaFirst && r <= puaLast {
			taken[r] = struct{}{}
		}
	}

	var m sentinelMarks
	n := 0
	for r := rune(puaFirst); r <= puaLast && n < markCount; r++ {
		if _, ok := taken[r]; ok {
			continue
		}
		m[n] = r
		n++
	}
	if n < markCount {
		return m, ErrNoSentinel
	}
	return m, nil
}

// sentinelMarks holds open, close, then the digits 0-9
type sentinelMarks [markCount]rune

func (m sentinelMarks) sentinel(index int) string {
	var b strings.Builder
	b.WriteRune(m[0])
	if index == 0 {
		b.WriteRune(m[2])
	}
	var digits []rune
	for i := index; i > 0; i /= 10 {
		digits = append(digits, m[2+i%10])
	}
	for i := len(digits) - 1; i >= 0; i-- {
		b.WriteRune(digits[i])
	}
	b.WriteRune(m[1])
	return b.String()
}
