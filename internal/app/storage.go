package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/khrees2412/placement/internal/events"
	"github.com/khrees2412/placement/internal/persist"
)

// LoadWorking loads the working document. A missing file starts an empty
// board.
func (a *App) LoadWorking() error {
	err := a.LoadDocument(a.Config.DataFile)
	if errors.Is(err, os.ErrNotExist) {
		a.Logger.Debug("no working document yet", "path", a.Config.DataFile)
		err = nil
	}
	a.savedRev = a.Store.Revision()
	return err
}

// Dirty reports whether the board changed since the working document was
// loaded or saved.
func (a *App) Dirty() bool {
	return a.Store.Revision() != a.savedRev
}

// SaveWorking rewrites the working document.
func (a *App) SaveWorking(ctx context.Context) error {
	if err := a.SaveDocument(ctx, a.Config.DataFile); err != nil {
		return err
	}
	a.savedRev = a.Store.Revision()
	return nil
}

// LoadDocument replaces the board with the document at path. On any failure
// the board is left empty.
func (a *App) LoadDocument(path string) error {
	records, err := persist.ReadDocumentFile(path)
	if err != nil {
		a.Store.Reset()
		return err
	}
	if err := a.Store.Replace(records); err != nil {
		a.Store.Reset()
		return fmt.Errorf("%w: %w", persist.ErrDeserialization, err)
	}
	a.Logger.Info("document loaded", "path", path, "count", len(records))
	return nil
}

// SaveDocument writes the board to path. The board is unchanged either way.
func (a *App) SaveDocument(ctx context.Context, path string) error {
	records := a.Store.List()
	if err := persist.WriteDocumentFile(path, records); err != nil {
		return err
	}
	a.Logger.Info("document saved", "path", path, "count", len(records))
	a.notify(ctx, events.Event{Type: events.BoardSaved, Target: path, Count: len(records)})
	return nil
}

// Push clears the configured sheet and writes the whole board to it.
func (a *App) Push(ctx context.Context) error {
	sh, err := a.Sheet()
	if err != nil {
		return err
	}
	records := a.Store.List()
	if err := persist.SaveSheet(ctx, sh, records); err != nil {
		return err
	}
	a.Logger.Info("sheet saved", "sheet", sh.Name(), "count", len(records))
	a.notify(ctx, events.Event{Type: events.BoardSaved, Target: sh.Name(), Count: len(records)})
	return nil
}

// Pull replaces the board with the contents of the configured sheet. On any
// failure the board is left empty.
func (a *App) Pull(ctx context.Context) error {
	sh, err := a.Sheet()
	if err != nil {
		a.Store.Reset()
		return err
	}
	records, err := persist.LoadSheet(ctx, sh)
	if err != nil {
		a.Store.Reset()
		return err
	}
	if err := a.Store.Replace(records); err != nil {
		a.Store.Reset()
		return fmt.Errorf("%w: %w", persist.ErrDeserialization, err)
	}
	a.Logger.Info("sheet loaded", "sheet", sh.Name(), "count", len(records))
	return nil
}
