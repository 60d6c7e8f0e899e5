// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strings"
	"unicode"
)

// Matcher decides whether a single line carries a marker. Matchers are
// grouped into a Chain and tried from strictest to loosest.
type Matcher interface {
	// Name identifies the strategy in diagnostics.
	Name() string
	Match(line string) bool
}

// Chain is an ordered list of matcher strategies. The first strategy is the
// primary match; later ones are fallbacks.
type Chain []Matcher

// Find scans lines[from:] with each strategy in priority order and returns
// the index of the first matching line and the name of the strategy that
// found it. A strategy scans the whole range before the next one is tried,
// so an exact match further down wins over a loose match near the top.
func (c Chain) Find(lines []string, from int) (int, string, bool) {
	if from < 0 {
		from = 0
	}
	for _, m := range c {
		for i := from; i < len(lines); i++ {
			if m.Match(lines[i]) {
				return i, m.Name(), true
			}
		}
	}
	return -1, "", false
}

// Primary reports whether strategy is the first strategy of the chain.
func (c Chain) Primary(strategy string) bool {
	return len(c) > 0 && c[0].Name() == strategy
}

// CompactContains matches lines that contain marker once all whitespace is
// removed from both sides. Text extraction frequently drops or doubles the
// space inside a marker phrase.
func CompactContains(marker string) Matcher {
	return compactContains{marker: compact(marker)}
}

type compactContains struct{ marker string }

func (m compactContains) Name() string { return "compact" }

func (m compactContains) Match(line string) bool {
	return m.marker != "" && strings.Contains(compact(line), m.marker)
}

// AllKeywords matches lines that contain every keyword, independently and in
// any order.
func AllKeywords(keywords ...string) Matcher {
	kw := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			kw = append(kw, k)
		}
	}
	return allKeywords{keywords: kw}
}

type allKeywords struct{ keywords []string }

func (m allKeywords) Name() string { return "keywords" }

func (m allKeywords) Match(line string) bool {
	if len(m.keywords) == 0 {
		return false
	}
	for _, k := range m.keywords {
		if !strings.Contains(line, k) {
			return false
		}
	}
	return true
}

// Prefix matches lines that start with marker.
func Prefix(marker string) Matcher {
	return prefix{marker: marker}
}

type prefix struct{ marker string }

func (m prefix) Name() string { return "prefix" }

func (m prefix) Match(line string) bool {
	return m.marker != "" && strings.HasPrefix(line, m.marker)
}

// CompactPrefix matches lines that start with marker when whitespace is
// ignored on both sides.
func CompactPrefix(marker string) Matcher {
	return compactPrefix{marker: compact(marker)}
}

type compactPrefix struct{ marker string }

func (m compactPrefix) Name() string { return "compact-prefix" }

func (m compactPrefix) Match(line string) bool {
	return m.marker != "" && strings.HasPrefix(compact(line), m.marker)
}

// compact removes every whitespace rune from s.
func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
