// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Block is the raw content of one calendar date: the date label as it
// appeared in the source and the non-blank lines that followed it.
type Block struct {
	Label string
	Lines []string
}

// dateRegexp builds the date-label pattern "<day>. <month>" for the given
// month names. Extracted text often carries no-break spaces, so any Unicode
// space separates day and month.
func dateRegexp(months []string) *regexp.Regexp {
	alts := make([]string, len(months))
	for i, m := range months {
		alts[i] = regexp.QuoteMeta(m)
	}
	return regexp.MustCompile(`(?i)^(\d{1,2})\.[\s\p{Zs}]+(` + strings.Join(alts, "|") + `)$`)
}

// IsDateLabel reports whether line, once trimmed, is a date label.
func (p *Parser) IsDateLabel(line string) bool {
	return p.dateRe.MatchString(strings.TrimSpace(norm.NFC.String(line)))
}

// Segment splits lines into blocks, one per date label, in first-seen order.
// Lines before the first label and blank lines are discarded. A label
// followed directly by another label yields no block.
func (p *Parser) Segment(lines []string) []Block {
	blocks, _ := p.segment(lines)
	return blocks
}

// segment is Segment that also reports how many labels it recognized.
func (p *Parser) segment(lines []string) ([]Block, int) {
	var (
		blocks  []Block
		label   string
		content []string
		labels  int
	)

	flush := func() {
		if label != "" && len(content) > 0 {
			blocks = append(blocks, Block{Label: label, Lines: content})
		}
		content = nil
	}

	for _, raw := range lines {
		line := strings.TrimSpace(norm.NFC.String(raw))
		if line == "" {
			continue
		}

		// The label keeps its source bytes; only matching uses NFC.
		if p.dateRe.MatchString(line) {
			flush()
			label = strings.TrimSpace(raw)
			labels++
			continue
		}

		if label != "" {
			content = append(content, line)
		}
	}

	flush()
	return blocks, labels
}
