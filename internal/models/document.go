// Package models defines core data structures for documents, evidence,
// relationships, and cross-document queries.
package models

import (
	"strconv"
	"strings"
	"time"
)

// FieldValue is one extracted field with the upstream extractor's confidence.
type FieldValue struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Document represents one processed input file. Documents arrive with fields
// and text already extracted upstream and are immutable inside the engine.
type Document struct {
	ID        string                `json:"id"`
	Filename  string                `json:"filename"`
	MIMEType  string                `json:"mime_type,omitempty"`
	SizeBytes int64                 `json:"size_bytes,omitempty"`
	Fields    map[string]FieldValue `json:"extracted_fields,omitempty"`
	Text      string                `json:"text_content,omitempty"`
	Date      *time.Time            `json:"date,omitempty"`
}

// Field returns the named extracted field.
func (d *Document) Field(name string) (FieldValue, bool) {
	if d.Fields == nil {
		return FieldValue{}, false
	}
	fv, ok := d.Fields[name]
	return fv, ok
}

// NumericField parses the named field as a number. Currency symbols and
// thousands separators are stripped, so "$1,234.50" parses as 1234.50.
func (d *Document) NumericField(name string) (float64, bool) {
	fv, ok := d.Field(name)
	if !ok {
		return 0, false
	}
	return ParseAmount(fv.Value)
}

// ParseAmount parses a monetary or plain numeric string.
func ParseAmount(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, s)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// dateLayouts are the formats accepted for document date fields.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseDate parses a date string in any of the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ResolveDate fills d.Date from the first parseable field in dateFields.
// A Date already set upstream is left alone.
func ResolveDate(d *Document, dateFields []string) {
	if d.Date != nil {
		return
	}
	for _, name := range dateFields {
		fv, ok := d.Field(name)
		if !ok {
			continue
		}
		if t, ok := ParseDate(fv.Value); ok {
			d.Date = &t
			return
		}
	}
}
