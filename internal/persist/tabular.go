package persist

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khrees2412/placement/pkg/models"
)

// Columns is the fixed sheet layout. Every saved row has exactly these
// cells in this order.
var Columns = []string{
	"id",
	"company",
	"role",
	"status",
	"applied_note",
	"ppt_note",
	"ppt_date",
	"ppt_time",
	"test_note",
	"test_date",
	"test_time",
}

// Header returns a copy of Columns for use as the sheet header row.
func Header() []string {
	return append([]string(nil), Columns...)
}

// EncodeRows projects records onto Columns. Absent values become empty cells.
func EncodeRows(records []models.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.ID,
			rec.Company,
			rec.Role,
			string(rec.Status),
			rec.AppliedNote,
			rec.PPTNote,
			models.FormatDate(rec.PPTDate),
			models.FormatTimeOfDay(rec.PPTTime),
			rec.TestNote,
			models.FormatDate(rec.TestDate),
			models.FormatTimeOfDay(rec.TestTime),
		})
	}
	return rows
}

// DecodeRows reads rows back using the header to locate columns, so a sheet
// whose columns were reordered by hand still loads. Missing columns read as
// empty cells and blank rows are skipped.
//
// Date and time cells are forgiving: blank cells, spreadsheet sentinels
// such as "NaT" or "None", and cells that do not parse all become absent.
func DecodeRows(header []string, rows [][]string) ([]models.Record, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := pos[key]; !dup {
			pos[key] = i
		}
	}
	cell := func(row []string, col string) string {
		i, ok := pos[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]models.Record, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for n, row := range rows {
		if blankRow(row) {
			continue
		}
		// sheet row numbers count the header as row 1
		line := n + 2

		id := strings.TrimSpace(cell(row, "id"))
		if id == "" {
			id = uuid.NewString()
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: row %d: duplicate id %s", ErrDeserialization, line, id)
		}
		seen[id] = struct{}{}

		company := strings.TrimSpace(cell(row, "company"))
		role := strings.TrimSpace(cell(row, "role"))
		if company == "" || role == "" {
			return nil, fmt.Errorf("%w: row %d: missing company or role", ErrDeserialization, line)
		}

		status := models.StatusApplied
		if raw := strings.TrimSpace(cell(row, "status")); raw != "" {
			st, err := models.ParseStatus(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrDeserialization, line, err)
			}
			status = st
		}

		records = append(records, models.Record{
			ID:          id,
			Company:     company,
			Role:        role,
			Status:      status,
			AppliedNote: cell(row, "applied_note"),
			PPTNote:     cell(row, "ppt_note"),
			PPTDate:     lenientDate(cell(row, "ppt_date")),
			PPTTime:     lenientTime(cell(row, "ppt_time")),
			TestNote:    cell(row, "test_note"),
			TestDate:    lenientDate(cell(row, "test_date")),
			TestTime:    lenientTime(cell(row, "test_time")),
		})
	}
	return records, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func missingCell(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nat", "none", "nan", "null":
		return true
	}
	return false
}

func lenientDate(s string) *time.Time {
	if missingCell(s) {
		return nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

func lenientTime(s string) *time.Time {
	if missingCell(s) {
		return nil
	}
	t, err := models.ParseTimeOfDay(s)
	if err != nil {
		return nil
	}
	return &t
}
