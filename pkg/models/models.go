package models

import (
	"fmt"
	"strings"
	"time"
)

// Status is the kanban stage of an application.
type Status string

const (
	StatusApplied Status = "Applied"
	StatusPPT     Status = "PPT"
	StatusTest    Status = "Test"
)

// Statuses returns the stages in board order.
func Statuses() []Status {
	return []Status{StatusApplied, StatusPPT, StatusTest}
}

// ParseStatus converts a raw string to a Status. Matching ignores case so
// "ppt" and "PPT" are the same stage.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses() {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// Valid reports whether s is one of the three stages.
func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusPPT, StatusTest:
		return true
	}
	return false
}

// Next returns the stage after s. Test is the last stage.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusApplied:
		return StatusPPT, true
	case StatusPPT:
		return StatusTest, true
	}
	return "", false
}

// Record represents one tracked job application
type Record struct {
	ID          string     `json:"id"`
	Company     string     `json:"company"`
	Role        string     `json:"role"`
	Status      Status     `json:"status"`
	AppliedNote string     `json:"applied_note"`
	PPTNote     string     `json:"ppt_note"`
	PPTDate     *time.Time `json:"ppt_date"` // nil when not scheduled
	PPTTime     *time.Time `json:"ppt_time"`
	TestNote    string     `json:"test_note"`
	TestDate    *time.Time `json:"test_date"`
	TestTime    *time.Time `json:"test_time"`
}

// Clone returns a deep copy so callers never share date/time pointers with
// the store.
func (r Record) Clone() Record {
	out := r
	out.PPTDate = cloneTime(r.PPTDate)
	out.PPTTime = cloneTime(r.PPTTime)
	out.TestDate = cloneTime(r.TestDate)
	out.TestTime = cloneTime(r.TestTime)
	return out
}

// Equal compares every field, including date/time values.
func (r Record) Equal(o Record) bool {
	return r.ID == o.ID &&
		r.Company == o.Company &&
		r.Role == o.Role &&
		r.Status == o.Status &&
		r.AppliedNote == o.AppliedNote &&
		r.PPTNote == o.PPTNote &&
		r.TestNote == o.TestNote &&
		equalTime(r.PPTDate, o.PPTDate) &&
		equalTime(r.PPTTime, o.PPTTime) &&
		equalTime(r.TestDate, o.TestDate) &&
		equalTime(r.TestTime, o.TestTime)
}

// Get returns the current value of a mutable field.
func (r Record) Get(f Field) (Value, error) {
	switch f {
	case FieldAppliedNote:
		return Text(r.AppliedNote), nil
	case FieldPPTNote:
		return Text(r.PPTNote), nil
	case FieldTestNote:
		return Text(r.TestNote), nil
	case FieldPPTDate:
		return dateOrAbsent(r.PPTDate), nil
	case FieldTestDate:
		return dateOrAbsent(r.TestDate), nil
	case FieldPPTTime:
		return timeOrAbsent(r.PPTTime), nil
	case FieldTestTime:
		return timeOrAbsent(r.TestTime), nil
	}
	return Value{}, fmt.Errorf("unknown field %q", f)
}

// Set overwrites a mutable field. The value kind must match the field kind.
func (r *Record) Set(f Field, v Value) error {
	if !f.Valid() {
		return fmt.Errorf("unknown field %q", f)
	}
	if v.Kind() != f.Kind() {
		return fmt.Errorf("field %s expects a %s value, got %s", f, f.Kind(), v.Kind())
	}
	switch f {
	case FieldAppliedNote:
		r.AppliedNote = v.text
	case FieldPPTNote:
		r.PPTNote = v.text
	case FieldTestNote:
		r.TestNote = v.text
	case FieldPPTDate:
		r.PPTDate = cloneTime(v.at)
	case FieldTestDate:
		r.TestDate = cloneTime(v.at)
	case FieldPPTTime:
		r.PPTTime = cloneTime(v.at)
	case FieldTestTime:
		r.TestTime = cloneTime(v.at)
	}
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func dateOrAbsent(t *time.Time) Value {
	if t == nil {
		return NoDate()
	}
	return Date(*t)
}

func timeOrAbsent(t *time.Time) Value {
	if t == nil {
		return NoTime()
	}
	return Time(*t)
}
