package models

import (
	"fmt"
	"strings"
	"time"
)

// ISO-8601 layouts used by every external representation.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Dates outside these years have no four-digit form.
const (
	MinYear = 1
	MaxYear = 9999
)

// DateInRange reports whether t's year can be written as YYYY.
func DateInRange(t time.Time) bool {
	return t.Year() >= MinYear && t.Year() <= MaxYear
}

// NewDate returns the calendar date y-m-d at midnight UTC.
func NewDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewTimeOfDay returns h:m:s on the zero date in UTC.
func NewTimeOfDay(h, m, s int) time.Time {
	return time.Date(0, time.January, 1, h, m, s, 0, time.UTC)
}

// NormalizeDate drops the clock part of t, keeping its calendar day.
func NormalizeDate(t time.Time) time.Time {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// NormalizeTimeOfDay drops the date and sub-second part of t.
func NormalizeTimeOfDay(t time.Time) time.Time {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	if !DateInRange(t) {
		return time.Time{}, fmt.Errorf("invalid date %q: year out of range", s)
	}
	return NormalizeDate(t), nil
}

// ParseTimeOfDay parses HH:MM:SS, HH:MM or HH:MM:SS.ffffff. Fractional
// seconds are truncated.
func ParseTimeOfDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range []string{TimeLayout, "15:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return NormalizeTimeOfDay(t), nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("invalid time %q: %w", s, lastErr)
}

// FormatDate renders a date as YYYY-MM-DD, or "" when absent.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatTimeOfDay renders a time as HH:MM:SS, or "" when absent.
func FormatTimeOfDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(TimeLayout)
}

// ParseFieldValue converts raw input for a known field. Empty input clears a
// date or time field; malformed input is an error, never a default.
func ParseFieldValue(f Field, raw string) (Value, error) {
	if !f.Valid() {
		return Value{}, fmt.Errorf("unknown field %q", f)
	}
	switch f.Kind() {
	case KindDate:
		if strings.TrimSpace(raw) == "" {
			return NoDate(), nil
		}
		d, err := ParseDate(raw)
		if err != nil {
			return Value{}, err
		}
		return Date(d), nil
	case KindTime:
		if strings.TrimSpace(raw) == "" {
			return NoTime(), nil
		}
		t, err := ParseTimeOfDay(raw)
		if err != nil {
			return Value{}, err
		}
		return Time(t), nil
	}
	return Text(raw), nil
}

// SniffValue guesses the kind of an untyped string:
//
//	contains ":" and at most 8 characters -> time-of-day
//	contains "-"                          -> calendar date
//	anything else                         -> text, unchanged
//
// A time or date candidate that does not parse is returned as text.
// Only use this where the caller cannot say which field it means.
func SniffValue(raw string) Value {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, ":") && len(s) <= 8 {
		if t, err := ParseTimeOfDay(s); err == nil {
			return Time(t)
		}
		return Text(raw)
	}
	if strings.Contains(s, "-") {
		if d, err := ParseDate(s); err == nil {
			return Date(d)
		}
	}
	return Text(raw)
}

// StageFields returns the note, date and time fields of a stage. Applied
// only has a note; its date and time fields are empty.
func StageFields(stage Status) (note, date, tod Field) {
	switch stage {
	case StatusPPT:
		return FieldPPTNote, FieldPPTDate, FieldPPTTime
	case StatusTest:
		return FieldTestNote, FieldTestDate, FieldTestTime
	}
	return FieldAppliedNote, "", ""
}

// ResolveStageInput maps an untyped value entered for a stage onto one of
// that stage's fields using SniffValue.
func ResolveStageInput(stage Status, raw string) (Field, Value, error) {
	if !stage.Valid() {
		return "", Value{}, fmt.Errorf("unknown application status %q", stage)
	}
	note, date, tod := StageFields(stage)
	if stage == StatusApplied {
		return note, Text(raw), nil
	}
	v := SniffValue(raw)
	switch v.Kind() {
	case KindDate:
		return date, v, nil
	case KindTime:
		return tod, v, nil
	}
	return note, v, nil
}
