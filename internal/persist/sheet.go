package persist

import (
	"context"
	"fmt"

	"github.com/khrees2412/placement/pkg/models"
)

// Sheet is a remote tabular store: one named tab holding a header row
// followed by data rows of string cells.
type Sheet interface {
	// Name identifies the sheet in messages.
	Name() string
	// ReadRows returns the header row and the data rows. An empty sheet
	// returns a nil header.
	ReadRows(ctx context.Context) (header []string, rows [][]string, err error)
	// ReplaceRows clears the tab and writes header and rows.
	ReplaceRows(ctx context.Context, header []string, rows [][]string) error
}

// SaveSheet clears the sheet and rewrites every record. There is no diffing:
// edits made directly on the sheet since the last load are lost.
func SaveSheet(ctx context.Context, sh Sheet, records []models.Record) error {
	if sh == nil {
		return fmt.Errorf("%w: no sheet configured", ErrPersistenceUnavailable)
	}
	if err := sh.ReplaceRows(ctx, Header(), EncodeRows(records)); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrPersistenceUnavailable, sh.Name(), err)
	}
	return nil
}

// LoadSheet reads and decodes every row of the sheet.
func LoadSheet(ctx context.Context, sh Sheet) ([]models.Record, error) {
	if sh == nil {
		return nil, fmt.Errorf("%w: no sheet configured", ErrPersistenceUnavailable)
	}
	header, rows, err := sh.ReadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrPersistenceUnavailable, sh.Name(), err)
	}
	if len(header) == 0 {
		return []models.Record{}, nil
	}
	return DecodeRows(header, rows)
}
