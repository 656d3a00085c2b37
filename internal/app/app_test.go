package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/khrees2412/placement/internal/config"
	"github.com/khrees2412/placement/internal/events"
	"github.com/khrees2412/placement/internal/persist"
	"github.com/khrees2412/placement/internal/tracker"
	"github.com/khrees2412/placement/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, ev events.Event) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	var out []string
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type memSheet struct {
	header []string
	rows   [][]string
	err    error
}

func (m *memSheet) Name() string { return "memory" }

func (m *memSheet) ReadRows(context.Context) ([]string, [][]string, error) {
	return m.header, m.rows, m.err
}

func (m *memSheet) ReplaceRows(_ context.Context, header []string, rows [][]string) error {
	if m.err != nil {
		return m.err
	}
	m.header, m.rows = header, rows
	return nil
}

func newTestApp(t *testing.T, opts ...Option) (*App, *recorder) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DataFile:     filepath.Join(dir, "board.json"),
		ExportFile:   filepath.Join(dir, "placement_data.json"),
		SheetBackend: config.BackendSQLite,
		SheetPath:    filepath.Join(dir, "workbook.db"),
		SheetTab:     "Applications",
	}
	rec := &recorder{}
	opts = append([]Option{WithPublisher(rec), WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	a, err := New(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a, rec
}

func TestBoardOperations_PublishEvents(t *testing.T) {
	ctx := context.Background()
	a, rec := newTestApp(t)

	created, err := a.Create(ctx, "Acme", "SWE", "referral")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, created.Status)

	moved, err := a.Advance(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPPT, moved.Status)

	field, updated, err := a.SetStageValue(ctx, created.ID, models.StatusPPT, "10:30")
	require.NoError(t, err)
	assert.Equal(t, models.FieldPPTTime, field)
	assert.Equal(t, "10:30:00", models.FormatTimeOfDay(updated.PPTTime))

	_, err = a.Move(ctx, created.ID, models.StatusApplied)
	require.NoError(t, err)

	_, err = a.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Store.Len())

	assert.Equal(t, []string{
		events.CardCreated,
		events.CardMoved,
		events.CardUpdated,
		events.CardMoved,
		events.CardDeleted,
	}, rec.types())
	assert.Equal(t, "Applied", rec.events[1].From)
	assert.Equal(t, "PPT", rec.events[1].To)
	assert.Equal(t, "ppt_time", rec.events[2].Field)
}

func TestBoardOperations_PublishFailureIsNotFatal(t *testing.T) {
	a, _ := newTestApp(t, WithPublisher(&recorder{err: errors.New("redis down")}))

	_, err := a.Create(context.Background(), "Acme", "SWE", "")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Store.Len())
}

func TestResolveID(t *testing.T) {
	ids := []string{"abc-1", "abd-2", "xyz-3", "xyz"}
	i := 0
	a, _ := newTestApp(t)
	a.Store = tracker.NewStore(tracker.WithIDGenerator(func() string {
		id := ids[i]
		i++
		return id
	}))
	for range ids {
		_, err := a.Store.Create("Acme", "SWE", "")
		require.NoError(t, err)
	}

	tests := []struct {
		prefix string
		want   string
		err    error
	}{
		{prefix: "abc", want: "abc-1"},
		{prefix: "abd-2", want: "abd-2"},
		{prefix: "xyz", want: "xyz"},
		{prefix: "ab", err: ErrAmbiguousID},
		{prefix: "q", err: tracker.ErrNotFound},
		{prefix: " ", err: tracker.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := a.ResolveID(tt.prefix)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetField(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t)
	rec, err := a.Create(ctx, "Acme", "SWE", "")
	require.NoError(t, err)

	got, err := a.SetField(ctx, rec.ID, models.FieldTestDate, "2024-07-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", models.FormatDate(got.TestDate))

	got, err = a.SetField(ctx, rec.ID, models.FieldTestDate, "")
	require.NoError(t, err)
	assert.Nil(t, got.TestDate)

	_, err = a.SetField(ctx, rec.ID, models.FieldTestTime, "25:99:99")
	require.ErrorIs(t, err, tracker.ErrValidation)

	_, err = a.SetField(ctx, rec.ID, models.Field("company"), "Beta")
	require.ErrorIs(t, err, tracker.ErrInvalidField)

	_, err = a.SetField(ctx, "missing", models.FieldPPTNote, "x")
	require.ErrorIs(t, err, tracker.ErrNotFound)
}

func TestWorkingDocument(t *testing.T) {
	ctx := context.Background()
	a, rec := newTestApp(t)

	// no file yet
	require.NoError(t, a.LoadWorking())
	assert.Equal(t, 0, a.Store.Len())
	assert.False(t, a.Dirty())

	_, err := a.Create(ctx, "Acme", "SWE", "")
	require.NoError(t, err)
	assert.True(t, a.Dirty())

	require.NoError(t, a.SaveWorking(ctx))
	assert.False(t, a.Dirty())
	assert.Contains(t, rec.types(), events.BoardSaved)

	b, _ := newTestApp(t)
	b.Config.DataFile = a.Config.DataFile
	require.NoError(t, b.LoadWorking())
	assert.Equal(t, 1, b.Store.Len())
	assert.False(t, b.Dirty())
}

func TestLoadDocument_FailureEmptiesBoard(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t)
	_, err := a.Create(ctx, "Acme", "SWE", "")
	require.NoError(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"id":"1","company":"A","role":"R","status":"PPT","ppt_time":"25:99:99"}]`), 0644))

	err = a.LoadDocument(bad)
	require.ErrorIs(t, err, persist.ErrDeserialization)
	assert.Equal(t, 0, a.Store.Len())

	_, err = a.Create(ctx, "Acme", "SWE", "")
	require.NoError(t, err)
	err = a.LoadDocument(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 0, a.Store.Len())
}

func TestSaveDocument_FailureKeepsBoard(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t)
	_, err := a.Create(ctx, "Acme", "SWE", "")
	require.NoError(t, err)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err = a.SaveDocument(ctx, filepath.Join(blocker, "out.json"))
	require.ErrorIs(t, err, persist.ErrPersistenceUnavailable)
	assert.Equal(t, 1, a.Store.Len())
}

func TestPushPull(t *testing.T) {
	ctx := context.Background()
	sh := &memSheet{}
	a, _ := newTestApp(t, WithSheet(sh))

	for i := 0; i < 3; i++ {
		_, err := a.Create(ctx, fmt.Sprintf("Company %d", i), "SWE", "")
		require.NoError(t, err)
	}
	want := a.Store.List()
	require.NoError(t, a.Push(ctx))
	assert.Len(t, sh.rows, 3)

	b, _ := newTestApp(t, WithSheet(sh))
	require.NoError(t, b.Pull(ctx))
	got := b.Store.List()
	require.Len(t, got, 3)
	for i := range want {
		assert.True(t, want[i].Equal(got[i]))
	}
}

func TestPull_FailureEmptiesBoard(t *testing.T) {
	ctx := context.Background()
	sh := &memSheet{}
	a, _ := newTestApp(t, WithSheet(sh))
	_, err := a.Create(ctx, "Acme", "SWE", "")
	require.NoError(t, err)

	sh.err = errors.New("offline")
	err = a.Pull(ctx)
	require.ErrorIs(t, err, persist.ErrPersistenceUnavailable)
	assert.Equal(t, 0, a.Store.Len())

	sh.err = nil
	sh.header = persist.Header()
	sh.rows = [][]string{{"1", "Acme", "SWE", "Offer"}}
	_, err = a.Create(ctx, "Acme", "SWE", "")
	require.NoError(t, err)
	err = a.Pull(ctx)
	require.ErrorIs(t, err, persist.ErrDeserialization)
	assert.Equal(t, 0, a.Store.Len())
}

func TestPush_FailureKeepsBoard(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, WithSheet(&memSheet{err: errors.New("quota")}))
	_, err := a.Create(ctx, "Acme", "SWE", "")
	require.NoError(t, err)

	require.ErrorIs(t, a.Push(ctx), persist.ErrPersistenceUnavailable)
	assert.Equal(t, 1, a.Store.Len())
}

func TestSheet_ConfiguredBackends(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t)

	sh, err := a.Sheet()
	require.NoError(t, err)
	assert.Contains(t, sh.Name(), "workbook.db")

	_, err = a.Create(ctx, "Acme", "SWE", "")
	require.NoError(t, err)
	require.NoError(t, a.Push(ctx))
	require.NoError(t, a.Pull(ctx))
	assert.Equal(t, 1, a.Store.Len())

	b, _ := newTestApp(t)
	b.Config.SheetBackend = config.BackendNotion
	_, err = b.Sheet()
	require.ErrorIs(t, err, persist.ErrPersistenceUnavailable)

	c, _ := newTestApp(t)
	c.Config.SheetBackend = "excel"
	_, err = c.Sheet()
	require.ErrorIs(t, err, persist.ErrPersistenceUnavailable)
}

func TestLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: fmt.Errorf("x: %w", tracker.ErrValidation), want: "validation error"},
		{err: fmt.Errorf("x: %w", tracker.ErrNotFound), want: "not found"},
		{err: tracker.ErrInvalidField, want: "invalid field"},
		{err: ErrAmbiguousID, want: "ambiguous id"},
		{err: fmt.Errorf("%w: bad", persist.ErrDeserialization), want: "deserialization error"},
		{err: fmt.Errorf("%w: gone", persist.ErrPersistenceUnavailable), want: "persistence unavailable"},
		{err: errors.New("other"), want: "error"},
		{err: nil, want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.err))
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("info"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel(""))
}

func TestContext(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := SetAppInContext(context.Background(), a)
	assert.Same(t, a, GetAppFromContext(ctx))
	assert.Nil(t, GetAppFromContext(context.Background()))
}
