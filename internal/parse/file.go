// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/jftlv/pkg/types"
)

// ErrInvalidEncoding is returned when the input text is not valid UTF-8.
var ErrInvalidEncoding = errors.New("input is not valid UTF-8")

// maxLineSize bounds a single input line. Extracted pages rarely exceed a
// few kilobytes per line; the limit only guards against binary input.
const maxLineSize = 1 << 20

// ReadLines reads r line by line. A leading byte order mark and trailing
// carriage returns are dropped. Input that is not UTF-8 is rejected.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if n == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("line %d: %w", n, ErrInvalidEncoding)
		}
		lines = append(lines, strings.TrimSuffix(line, "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	return lines, nil
}

// WriteJSON writes entries as an indented JSON array. Non-ASCII text and
// characters such as '<' and '&' are written literally.
func WriteJSON(w io.Writer, entries []types.Entry) error {
	if entries == nil {
		entries = []types.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding entries: %w", err)
	}
	return nil
}

// ReadJSON decodes an entry array written by WriteJSON.
func ReadJSON(r io.Reader) ([]types.Entry, error) {
	var entries []types.Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding entries: %w", err)
	}
	return entries, nil
}

// ParseFile parses the text file at inPath and writes the entries as JSON to
// outPath, creating its directory if needed. A missing or undecodable input
// is fatal; skipped blocks are reported in the returned Result. A summary
// line is printed to w.
func ParseFile(p *Parser, inPath, outPath string, w io.Writer) (Result, error) {
	f, err := os.Open(inPath)
	if err != nil {
		return Result{}, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", inPath, err)
	}

	res := p.Parse(lines)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, res.Entries); err != nil {
		return res, err
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return res, fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Fprintf(w, "Saved %d entries to %s (%d date labels, %d skipped)\n",
		len(res.Entries), outPath, res.Labels, res.Skipped)
	return res, nil
}
