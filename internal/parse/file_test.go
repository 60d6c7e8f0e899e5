// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/jftlv/pkg/types"
)

func TestReadLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "plain", input: "a\nb\n", want: []string{"a", "b"}},
		{name: "no trailing newline", input: "a\nb", want: []string{"a", "b"}},
		{name: "crlf", input: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "bom", input: "\uFEFF1. janvāris\nx", want: []string{"1. janvāris", "x"}},
		{name: "blank lines kept", input: "a\n\n  \nb", want: []string{"a", "", "  ", "b"}},
		{name: "empty", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadLines(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadLinesInvalidUTF8(t *testing.T) {
	_, err := ReadLines(bytes.NewReader([]byte("ok\n\xff\xfe bad\n")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidEncoding))
	assert.Contains(t, err.Error(), "line 2")
}

func TestWriteJSON(t *testing.T) {
	entries := []types.Entry{{
		Date:      "2025-01-01",
		DateLabel: "1. janvāris",
		Title:     "Cerība",
		Quote:     "“Q”",
		Body:      "a & <b>",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, entries))

	want := `[
  {
    "date": "2025-01-01",
    "dateLV": "1. janvāris",
    "title": "Cerība",
    "quote": "“Q”",
    "reference": "",
    "body": "a & <b>",
    "affirmation": ""
  }
]
`
	assert.Equal(t, want, buf.String())

	back, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, entries, back)
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "raw.txt")
	out := filepath.Join(dir, "json", "entries.json")
	require.NoError(t, os.WriteFile(in, []byte(strings.Join(sampleDocument("32. janvāris"), "\n")), 0o644))

	p := newParser(t, types.JoinSpace)
	var log bytes.Buffer
	res, err := ParseFile(p, in, out, &log)
	require.NoError(t, err)

	assert.Len(t, res.Entries, 2)
	assert.Equal(t, 1, res.Skipped)
	assert.Contains(t, log.String(), "Saved 2 entries to "+out)
	assert.Contains(t, log.String(), "1 skipped")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	back, err := ReadJSON(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, res.Entries, back)

	// A second run over the same input produces identical bytes.
	_, err = ParseFile(p, in, out, &log)
	require.NoError(t, err)
	again, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestParseFileMissingInput(t *testing.T) {
	dir := t.TempDir()
	p := newParser(t, types.JoinSpace)

	var log bytes.Buffer
	_, err := ParseFile(p, filepath.Join(dir, "missing.txt"), filepath.Join(dir, "out.json"), &log)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, statErr := os.Stat(filepath.Join(dir, "out.json"))
	assert.True(t, os.IsNotExist(statErr), "no output on fatal input error")
}
