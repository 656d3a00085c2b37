package models

import (
	"fmt"
	"time"
)

// Field names a mutable record field.
type Field string

const (
	FieldAppliedNote Field = "applied_note"
	FieldPPTNote     Field = "ppt_note"
	FieldPPTDate     Field = "ppt_date"
	FieldPPTTime     Field = "ppt_time"
	FieldTestNote    Field = "test_note"
	FieldTestDate    Field = "test_date"
	FieldTestTime    Field = "test_time"
)

// Fields returns every mutable field in column order.
func Fields() []Field {
	return []Field{
		FieldAppliedNote,
		FieldPPTNote, FieldPPTDate, FieldPPTTime,
		FieldTestNote, FieldTestDate, FieldTestTime,
	}
}

// ParseField converts a raw field name to a Field.
func ParseField(s string) (Field, error) {
	f := Field(s)
	if !f.Valid() {
		return "", fmt.Errorf("unknown field %q", s)
	}
	return f, nil
}

// Valid reports whether f is one of the mutable fields.
func (f Field) Valid() bool {
	switch f {
	case FieldAppliedNote, FieldPPTNote, FieldPPTDate, FieldPPTTime,
		FieldTestNote, FieldTestDate, FieldTestTime:
		return true
	}
	return false
}

// Kind returns the value kind stored in f.
func (f Field) Kind() Kind {
	switch f {
	case FieldPPTDate, FieldTestDate:
		return KindDate
	case FieldPPTTime, FieldTestTime:
		return KindTime
	}
	return KindText
}

// Kind is the type tag of a Value.
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	}
	return "text"
}

// Value is a typed field value. The zero Value is empty text.
type Value struct {
	kind Kind
	text string
	at   *time.Time
}

// Text returns a text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Date returns a calendar date value; the clock part of t is dropped.
func Date(t time.Time) Value {
	d := NormalizeDate(t)
	return Value{kind: KindDate, at: &d}
}

// Time returns a time-of-day value; the date part and sub-second part of t
// are dropped.
func Time(t time.Time) Value {
	tod := NormalizeTimeOfDay(t)
	return Value{kind: KindTime, at: &tod}
}

// NoDate returns an absent date.
func NoDate() Value { return Value{kind: KindDate} }

// NoTime returns an absent time-of-day.
func NoTime() Value { return Value{kind: KindTime} }

func (v Value) Kind() Kind { return v.kind }

// Absent reports whether a date or time value carries nothing.
func (v Value) Absent() bool {
	return v.kind != KindText && v.at == nil
}

// Text returns the string for text values.
func (v Value) Text() string { return v.text }

// At returns the date or time-of-day, or nil when absent or text.
func (v Value) At() *time.Time { return cloneTime(v.at) }

// String renders the value the way the document format does.
func (v Value) String() string {
	switch v.kind {
	case KindDate:
		return FormatDate(v.at)
	case KindTime:
		return FormatTimeOfDay(v.at)
	}
	return v.text
}
