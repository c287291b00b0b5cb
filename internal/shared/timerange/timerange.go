// Package timerange builds the closed created_at interval shared by the
// order and product reports.
package timerange

import (
	"fmt"
	"strings"
	"time"
)

// Range is a closed created_at interval; nil bounds mean unbounded.
type Range struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether no bound was requested.
func (r Range) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Contains reports whether t falls inside the interval, bounds included.
func (r Range) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// FieldError names the query parameter that failed to parse.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("Invalid %s format", e.Field)
}

var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse validates the optional startDate/endDate strings and builds the
// interval. Each bound is validated individually so the error names the
// offending field.
func Parse(startDate, endDate string) (Range, error) {
	var r Range
	if s := strings.TrimSpace(startDate); s != "" {
		from, err := parseDate(s)
		if err != nil {
			return Range{}, &FieldError{Field: "startDate"}
		}
		r.From = &from
	}
	if s := strings.TrimSpace(endDate); s != "" {
		to, err := parseDate(s)
		if err != nil {
			return Range{}, &FieldError{Field: "endDate"}
		}
		r.To = &to
	}
	return r, nil
}

func parseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Label echoes the requested bounds back to the caller, substituting the
// all-time defaults for unset ones.
type Label struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewLabel builds the timeRange echo from the raw query values.
func NewLabel(startDate, endDate string) Label {
	label := Label{From: "all time", To: "present"}
	if s := strings.TrimSpace(startDate); s != "" {
		label.From = s
	}
	if s := strings.TrimSpace(endDate); s != "" {
		label.To = s
	}
	return label
}
