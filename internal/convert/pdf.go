// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageSource yields the plain text of each page of an opened document.
// Pages are numbered from 1.
type pageSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

// PlainTextConverter extracts the embedded text layer of a PDF with
// github.com/ledongthuc/pdf. Scanned, image-only pages produce no text.
type PlainTextConverter struct {
	// Log receives one warning line per page that yielded no text. Nil
	// discards them.
	Log io.Writer
}

// Convert opens the PDF and concatenates the text of every page, each
// followed by a newline. A page that fails to extract or is empty
// contributes nothing; only a document that cannot be opened is an error.
func (c *PlainTextConverter) Convert(pdfPath string) (string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	log := c.Log
	if log == nil {
		log = io.Discard
	}
	return joinPages(&ledongthucDoc{r: r}, log), nil
}

// joinPages concatenates page texts in page order.
func joinPages(src pageSource, w io.Writer) string {
	var b strings.Builder
	for n := 1; n <= src.NumPage(); n++ {
		text, err := src.PageText(n)
		if err != nil {
			fmt.Fprintf(w, "warning: page %d: %v\n", n, err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			fmt.Fprintf(w, "warning: page %d: no text\n", n)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

// ledongthucDoc adapts a pdf.Reader to pageSource.
type ledongthucDoc struct {
	r *pdf.Reader
}

func (d *ledongthucDoc) NumPage() int { return d.r.NumPage() }

// PageText lays out the positioned glyphs of page n as lines. Fonts are
// resolved from the page's own resources.
func (d *ledongthucDoc) PageText(n int) (text string, err error) {
	// The content stream decoder panics on some malformed pages.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extracting text: %v", r)
		}
	}()

	p := d.r.Page(n)
	if p.V.IsNull() {
		return "", nil
	}
	return layoutLines(p.Content().Text), nil
}

// minLineGap is the smallest baseline shift, in points, that starts a new
// line regardless of font size.
const minLineGap = 1.0

// layoutLines groups glyphs into lines by baseline, top of the page first,
// and orders each line left to right. A space is inserted where the gap
// between two glyphs is wider than a quarter of the font size.
func layoutLines(glyphs []pdf.Text) string {
	var kept []pdf.Text
	for _, g := range glyphs {
		if g.S == "\n" || g.S == "\r" || g.S == "" {
			continue
		}
		kept = append(kept, g)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Y > kept[j].Y })

	var (
		lines []string
		line  []pdf.Text
	)
	flush := func() {
		if len(line) == 0 {
			return
		}
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
		var b strings.Builder
		for i, g := range line {
			if i > 0 {
				prev := line[i-1]
				gap := g.X - (prev.X + prev.W)
				if gap > g.FontSize/4 && !isSpace(prev.S) && !isSpace(g.S) {
					b.WriteByte(' ')
				}
			}
			b.WriteString(g.S)
		}
		if l := strings.TrimRight(b.String(), " \t"); l != "" {
			lines = append(lines, l)
		}
		line = nil
	}

	for _, g := range kept {
		if len(line) > 0 && line[0].Y-g.Y > max(line[0].FontSize/2, minLineGap) {
			flush()
		}
		line = append(line, g)
	}
	flush()

	return strings.Join(lines, "\n")
}

func isSpace(s string) bool {
	return strings.TrimSpace(s) == ""
}
