// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// DateLayout is the canonical layout of Entry.Date.
const DateLayout = "2006-01-02"

// Entry is one calendar day's reading. Field names in the JSON encoding are
// fixed by downstream consumers and must not change.
type Entry struct {
	// Date is the calendar date in YYYY-MM-DD form. The year comes from the
	// processing configuration since the source document carries none.
	Date string `json:"date" yaml:"date"`

	// DateLabel is the date label exactly as it appeared in the source
	// (e.g. "1. janvāris").
	DateLabel string `json:"dateLV" yaml:"dateLV"`

	// Title is the first content line of the entry.
	Title string `json:"title" yaml:"title"`

	// Quote is the quoted passage, possibly spanning several source lines.
	Quote string `json:"quote" yaml:"quote"`

	// Reference is the citation line, or empty when none was found.
	Reference string `json:"reference" yaml:"reference"`

	// Body holds the paragraphs between the reference and the affirmation.
	Body string `json:"body" yaml:"body"`

	// Affirmation is the closing "just for today" text, or empty.
	Affirmation string `json:"affirmation" yaml:"affirmation"`
}

// Day returns the month and day of the entry's date.
func (e Entry) Day() (time.Month, int, error) {
	t, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing entry date %q: %w", e.Date, err)
	}
	return t.Month(), t.Day(), nil
}

// DayKey formats the month and day of t as MM-DD, the key used to look up
// the reading for a day independent of the year.
func DayKey(t time.Time) string {
	return fmt.Sprintf("%02d-%02d", int(t.Month()), t.Day())
}

// ConversionStatus indicates the outcome of converting one PDF to text.
type ConversionStatus string

const (
	ConversionNone   ConversionStatus = "none"
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)
