package persist

import (
	"context"
	"errors"
	"testing"

	"github.com/khrees2412/placement/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSheet struct {
	header   []string
	rows     [][]string
	readErr  error
	writeErr error
	writes   int
}

func (m *memSheet) Name() string { return "memory" }

func (m *memSheet) ReadRows(context.Context) ([]string, [][]string, error) {
	if m.readErr != nil {
		return nil, nil, m.readErr
	}
	return m.header, m.rows, nil
}

func (m *memSheet) ReplaceRows(_ context.Context, header []string, rows [][]string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.header = header
	m.rows = rows
	return nil
}

func TestSheet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	sh := &memSheet{}

	records := sampleRecords()
	require.NoError(t, SaveSheet(ctx, sh, records))
	assert.Equal(t, Columns, sh.header)
	assert.Len(t, sh.rows, len(records))

	got, err := LoadSheet(ctx, sh)
	require.NoError(t, err)
	requireSameRecords(t, records, got)
}

func TestSheet_SaveEmptyClears(t *testing.T) {
	ctx := context.Background()
	sh := &memSheet{header: Header(), rows: EncodeRows(sampleRecords())}

	require.NoError(t, SaveSheet(ctx, sh, nil))
	assert.Equal(t, Columns, sh.header)
	assert.Empty(t, sh.rows)

	got, err := LoadSheet(ctx, sh)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSheet_LoadBlank(t *testing.T) {
	got, err := LoadSheet(context.Background(), &memSheet{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSheet_BackendFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("quota exceeded")

	err := SaveSheet(ctx, &memSheet{writeErr: boom}, sampleRecords())
	require.ErrorIs(t, err, ErrPersistenceUnavailable)
	assert.ErrorIs(t, err, boom)

	_, err = LoadSheet(ctx, &memSheet{readErr: boom})
	require.ErrorIs(t, err, ErrPersistenceUnavailable)
	assert.ErrorIs(t, err, boom)

	require.ErrorIs(t, SaveSheet(ctx, nil, nil), ErrPersistenceUnavailable)
	_, err = LoadSheet(ctx, nil)
	require.ErrorIs(t, err, ErrPersistenceUnavailable)
}

func TestSheet_LoadBadRows(t *testing.T) {
	sh := &memSheet{header: Header(), rows: [][]string{{"1", "Acme", "SWE", "Hired"}}}
	_, err := LoadSheet(context.Background(), sh)
	require.ErrorIs(t, err, ErrDeserialization)
	assert.NotErrorIs(t, err, ErrPersistenceUnavailable)
}

func TestSheet_HandEditedCells(t *testing.T) {
	sh := &memSheet{
		header: Header(),
		rows: [][]string{
			{"a", "Acme", "SWE", "PPT", "", "talk", "NaT", "nan", "", "None", ""},
		},
	}
	got, err := LoadSheet(context.Background(), sh)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.Record{ID: "a", Company: "Acme", Role: "SWE", Status: models.StatusPPT, PPTNote: "talk"}, got[0])
}
