// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/jftlv/internal/parse"
	"github.com/pdiddy/jftlv/pkg/types"
)

// fakeDoc serves canned page texts; a non-nil entry in errs fails that page.
type fakeDoc struct {
	pages []string
	errs  map[int]error
}

func (d *fakeDoc) NumPage() int { return len(d.pages) }

func (d *fakeDoc) PageText(n int) (string, error) {
	if err := d.errs[n]; err != nil {
		return "", err
	}
	return d.pages[n-1], nil
}

func TestJoinPages(t *testing.T) {
	doc := &fakeDoc{
		pages: []string{"1. janvāris\nCerība", "broken", "   ", "2. janvāris\nAtvērtība"},
		errs:  map[int]error{2: errors.New("bad font")},
	}

	var log bytes.Buffer
	got := joinPages(doc, &log)

	assert.Equal(t, "1. janvāris\nCerība\n2. janvāris\nAtvērtība\n", got)
	assert.Contains(t, log.String(), "warning: page 2: bad font")
	assert.Contains(t, log.String(), "warning: page 3: no text")
}

func TestJoinPagesEmptyDocument(t *testing.T) {
	var log bytes.Buffer
	assert.Equal(t, "", joinPages(&fakeDoc{}, &log))
	assert.Empty(t, log.String())
}

func TestPlainTextConverterMissingFile(t *testing.T) {
	c := &PlainTextConverter{}
	_, err := c.Convert(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening PDF")
}

// writePDF writes a single-page PDF whose content stream is content, using
// the standard Helvetica font with WinAnsi encoding.
func writePDF(t *testing.T, content string) string {
	t.Helper()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "page.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// tdLines builds a text object that places each line with a relative Td
// move, the way most PDF producers start a new line.
func tdLines(lines ...string) string {
	var b strings.Builder
	b.WriteString("BT /F1 12 Tf 72 720 Td ")
	for i, l := range lines {
		if i > 0 {
			b.WriteString("0 -14 Td ")
		}
		fmt.Fprintf(&b, "(%s) Tj ", l)
	}
	b.WriteString("ET")
	return b.String()
}

func TestPlainTextConverterSplitsTdLines(t *testing.T) {
	// \223 and \224 are the curly quotes and \232 is "š" in WinAnsi.
	path := writePDF(t, tdLines(
		"1. marts",
		"Atvertiba",
		"\\223Mes klausamies.\\224",
		"Body line",
		"More body",
		"Tikai \\232odien es klausos.",
	))

	c := &PlainTextConverter{}
	text, err := c.Convert(path)
	require.NoError(t, err)

	assert.Equal(t,
		"1. marts\nAtvertiba\n\u201cMes klausamies.\u201d\nBody line\nMore body\nTikai \u0161odien es klausos.\n",
		text)

	p, err := parse.New(types.ParserConfig{Year: 2025})
	require.NoError(t, err)
	lines, err := parse.ReadLines(strings.NewReader(text))
	require.NoError(t, err)

	res := p.Parse(lines)
	require.Len(t, res.Entries, 1)
	e := res.Entries[0]
	assert.Equal(t, "2025-03-01", e.Date)
	assert.Equal(t, "Atvertiba", e.Title)
	assert.Equal(t, "\u201cMes klausamies.\u201d", e.Quote)
	assert.Equal(t, "Body line More body", e.Body)
	assert.Equal(t, "Tikai \u0161odien es klausos.", e.Affirmation)
}

func TestLayoutLines(t *testing.T) {
	glyph := func(s string, x, y float64) pdf.Text {
		return pdf.Text{FontSize: 12, X: x, Y: y, W: 6, S: s}
	}

	tests := []struct {
		name   string
		glyphs []pdf.Text
		want   string
	}{
		{
			name:   "empty",
			glyphs: nil,
			want:   "",
		},
		{
			name: "baselines top to bottom",
			glyphs: []pdf.Text{
				glyph("b", 72, 706), glyph("a", 72, 720), glyph("c", 72, 692),
			},
			want: "a\nb\nc",
		},
		{
			name: "small baseline jitter stays on one line",
			glyphs: []pdf.Text{
				glyph("a", 72, 720), glyph("b", 78, 719.5), glyph("c", 84, 720.2),
			},
			want: "abc",
		},
		{
			name: "glyphs ordered left to right",
			glyphs: []pdf.Text{
				glyph("c", 84, 720), glyph("a", 72, 720), glyph("b", 78, 720),
			},
			want: "abc",
		},
		{
			name: "wide gap becomes a space",
			glyphs: []pdf.Text{
				glyph("a", 72, 720), glyph("b", 100, 720),
			},
			want: "a b",
		},
		{
			name: "line break markers dropped",
			glyphs: []pdf.Text{
				glyph("a", 72, 720), glyph("\n", 78, 720), glyph("b", 72, 706),
			},
			want: "a\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, layoutLines(tt.glyphs))
		})
	}
}
