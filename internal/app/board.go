package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/khrees2412/placement/internal/events"
	"github.com/khrees2412/placement/internal/tracker"
	"github.com/khrees2412/placement/pkg/models"
)

// ResolveID expands an id prefix to the full id of exactly one application.
// An exact match always wins.
func (a *App) ResolveID(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", tracker.ErrNotFound)
	}

	var matches []string
	for _, rec := range a.Store.List() {
		if rec.ID == prefix {
			return rec.ID, nil
		}
		if strings.HasPrefix(rec.ID, prefix) {
			matches = append(matches, rec.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", tracker.ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d applications", ErrAmbiguousID, prefix, len(matches))
	}
}

// Create adds an application in the Applied stage.
func (a *App) Create(ctx context.Context, company, role, note string) (models.Record, error) {
	id, err := a.Store.Create(company, role, note)
	if err != nil {
		return models.Record{}, err
	}
	rec, err := a.Store.Get(id)
	if err != nil {
		return models.Record{}, err
	}

	a.notify(ctx, events.Event{
		Type:          events.CardCreated,
		ApplicationID: id,
		Company:       rec.Company,
		Role:          rec.Role,
		To:            string(rec.Status),
	})
	return rec, nil
}

// Move puts an application in the given stage.
func (a *App) Move(ctx context.Context, idPrefix string, status models.Status) (models.Record, error) {
	id, err := a.ResolveID(idPrefix)
	if err != nil {
		return models.Record{}, err
	}
	before, err := a.Store.Get(id)
	if err != nil {
		return models.Record{}, err
	}
	if err := a.Store.Move(id, status); err != nil {
		return models.Record{}, err
	}
	return a.moved(ctx, before)
}

// Advance moves an application to its next stage.
func (a *App) Advance(ctx context.Context, idPrefix string) (models.Record, error) {
	id, err := a.ResolveID(idPrefix)
	if err != nil {
		return models.Record{}, err
	}
	before, err := a.Store.Get(id)
	if err != nil {
		return models.Record{}, err
	}
	if _, err := a.Store.Advance(id); err != nil {
		return models.Record{}, err
	}
	return a.moved(ctx, before)
}

func (a *App) moved(ctx context.Context, before models.Record) (models.Record, error) {
	after, err := a.Store.Get(before.ID)
	if err != nil {
		return models.Record{}, err
	}
	a.notify(ctx, events.Event{
		Type:          events.CardMoved,
		ApplicationID: after.ID,
		Company:       after.Company,
		Role:          after.Role,
		From:          string(before.Status),
		To:            string(after.Status),
	})
	return after, nil
}

// UpdateField overwrites one field with an already typed value.
func (a *App) UpdateField(ctx context.Context, idPrefix string, field models.Field, value models.Value) (models.Record, error) {
	id, err := a.ResolveID(idPrefix)
	if err != nil {
		return models.Record{}, err
	}
	if err := a.Store.UpdateField(id, field, value); err != nil {
		return models.Record{}, err
	}
	rec, err := a.Store.Get(id)
	if err != nil {
		return models.Record{}, err
	}

	a.notify(ctx, events.Event{
		Type:          events.CardUpdated,
		ApplicationID: id,
		Company:       rec.Company,
		Role:          rec.Role,
		Field:         string(field),
	})
	return rec, nil
}

// SetField parses raw for field and stores it. Empty input clears a date or
// time field.
func (a *App) SetField(ctx context.Context, idPrefix string, field models.Field, raw string) (models.Record, error) {
	if !field.Valid() {
		return models.Record{}, fmt.Errorf("%w: %q", tracker.ErrInvalidField, field)
	}
	value, err := models.ParseFieldValue(field, raw)
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: %v", tracker.ErrValidation, err)
	}
	return a.UpdateField(ctx, idPrefix, field, value)
}

// SetStageValue stores raw against one of the stage's fields, guessing from
// its shape whether it is a time, a date or a note.
func (a *App) SetStageValue(ctx context.Context, idPrefix string, stage models.Status, raw string) (models.Field, models.Record, error) {
	field, value, err := models.ResolveStageInput(stage, raw)
	if err != nil {
		return "", models.Record{}, fmt.Errorf("%w: %v", tracker.ErrValidation, err)
	}
	rec, err := a.UpdateField(ctx, idPrefix, field, value)
	if err != nil {
		return "", models.Record{}, err
	}
	return field, rec, nil
}

// Delete removes an application for good.
func (a *App) Delete(ctx context.Context, idPrefix string) (models.Record, error) {
	id, err := a.ResolveID(idPrefix)
	if err != nil {
		return models.Record{}, err
	}
	rec, err := a.Store.Get(id)
	if err != nil {
		return models.Record{}, err
	}
	if err := a.Store.Delete(id); err != nil {
		return models.Record{}, err
	}

	a.notify(ctx, events.Event{
		Type:          events.CardDeleted,
		ApplicationID: id,
		Company:       rec.Company,
		Role:          rec.Role,
		From:          string(rec.Status),
	})
	return rec, nil
}

// notify publishes ev. Failures are logged, never returned.
func (a *App) notify(ctx context.Context, ev events.Event) {
	if err := a.Events.Publish(ctx, ev); err != nil {
		a.Logger.Warn("publish event failed", "type", ev.Type, "err", err)
	}
}
