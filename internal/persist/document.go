// Package persist converts tracker records to and from their external
// shapes: a JSON document and spreadsheet rows.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/khrees2412/placement/pkg/models"
)

// documentRecord is the on-disk JSON shape. Date and time fields are ISO
// strings, null when absent.
type documentRecord struct {
	ID          string  `json:"id"`
	Company     string  `json:"company"`
	Role        string  `json:"role"`
	Status      string  `json:"status"`
	AppliedNote string  `json:"applied_note"`
	PPTNote     string  `json:"ppt_note"`
	PPTDate     *string `json:"ppt_date"`
	PPTTime     *string `json:"ppt_time"`
	TestNote    string  `json:"test_note"`
	TestDate    *string `json:"test_date"`
	TestTime    *string `json:"test_time"`
}

// EncodeDocument writes records as an indented JSON array.
func EncodeDocument(w io.Writer, records []models.Record) error {
	docs := make([]documentRecord, 0, len(records))
	for _, rec := range records {
		docs = append(docs, documentRecord{
			ID:          rec.ID,
			Company:     rec.Company,
			Role:        rec.Role,
			Status:      string(rec.Status),
			AppliedNote: rec.AppliedNote,
			PPTNote:     rec.PPTNote,
			PPTDate:     isoOrNull(models.FormatDate(rec.PPTDate)),
			PPTTime:     isoOrNull(models.FormatTimeOfDay(rec.PPTTime)),
			TestNote:    rec.TestNote,
			TestDate:    isoOrNull(models.FormatDate(rec.TestDate)),
			TestTime:    isoOrNull(models.FormatTimeOfDay(rec.TestTime)),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// DecodeDocument reads a JSON array written by EncodeDocument. Every error
// wraps ErrDeserialization.
func DecodeDocument(r io.Reader) ([]models.Record, error) {
	dec := json.NewDecoder(r)

	var docs []documentRecord
	if err := dec.Decode(&docs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrDeserialization)
		}
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after the record list", ErrDeserialization)
	}

	records := make([]models.Record, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))
	for i, doc := range docs {
		rec, err := doc.record()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrDeserialization, i, err)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("%w: record %d: duplicate id %s", ErrDeserialization, i, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		records = append(records, rec)
	}
	return records, nil
}

func (d documentRecord) record() (models.Record, error) {
	if strings.TrimSpace(d.ID) == "" {
		return models.Record{}, fmt.Errorf("missing id")
	}
	if strings.TrimSpace(d.Company) == "" || strings.TrimSpace(d.Role) == "" {
		return models.Record{}, fmt.Errorf("missing company or role")
	}
	status, err := models.ParseStatus(d.Status)
	if err != nil {
		return models.Record{}, err
	}

	rec := models.Record{
		ID:          d.ID,
		Company:     d.Company,
		Role:        d.Role,
		Status:      status,
		AppliedNote: d.AppliedNote,
		PPTNote:     d.PPTNote,
		TestNote:    d.TestNote,
	}
	if rec.PPTDate, err = strictDate("ppt_date", d.PPTDate); err != nil {
		return models.Record{}, err
	}
	if rec.PPTTime, err = strictTime("ppt_time", d.PPTTime); err != nil {
		return models.Record{}, err
	}
	if rec.TestDate, err = strictDate("test_date", d.TestDate); err != nil {
		return models.Record{}, err
	}
	if rec.TestTime, err = strictTime("test_time", d.TestTime); err != nil {
		return models.Record{}, err
	}
	return rec, nil
}

// strictDate treats null and "" as absent and rejects anything else that is
// not YYYY-MM-DD.
func strictDate(name string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(*raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &d, nil
}

func strictTime(name string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := models.ParseTimeOfDay(*raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &t, nil
}

func isoOrNull(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
