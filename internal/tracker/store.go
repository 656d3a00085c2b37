// Package tracker holds the in-memory application board for one session.
package tracker

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khrees2412/placement/pkg/models"
)

// maxIDAttempts bounds the retries when the generator returns an id this
// store has already issued.
const maxIDAttempts = 8

// Store owns the ordered list of application records. It is not safe for
// concurrent use; a session has exactly one owner.
type Store struct {
	records  []models.Record
	seen     map[string]struct{}
	revision uint64
	newID    func() string
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		seen:  make(map[string]struct{}),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Create appends a new application in the Applied stage and returns its id.
func (s *Store) Create(company, role, note string) (string, error) {
	company = strings.TrimSpace(company)
	role = strings.TrimSpace(role)
	if company == "" {
		return "", fmt.Errorf("%w: company is required", ErrValidation)
	}
	if role == "" {
		return "", fmt.Errorf("%w: role is required", ErrValidation)
	}

	id, err := s.freshID()
	if err != nil {
		return "", err
	}

	s.records = append(s.records, models.Record{
		ID:          id,
		Company:     company,
		Role:        role,
		Status:      models.StatusApplied,
		AppliedNote: note,
	})
	s.seen[id] = struct{}{}
	s.touch()

	s.logger.Debug("application created", "id", id, "company", company, "role", role)
	return id, nil
}

// Move sets the stage of an application. Any stage can be reached from any
// other stage.
func (s *Store) Move(id string, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	i, err := s.index(id)
	if err != nil {
		return err
	}

	from := s.records[i].Status
	s.records[i].Status = status
	s.touch()

	s.logger.Debug("application moved", "id", id, "from", from, "to", status)
	return nil
}

// Advance moves an application to the stage after its current one.
func (s *Store) Advance(id string) (models.Status, error) {
	i, err := s.index(id)
	if err != nil {
		return "", err
	}
	next, ok := s.records[i].Status.Next()
	if !ok {
		return "", fmt.Errorf("%w: %s is the last stage", ErrValidation, s.records[i].Status)
	}
	if err := s.Move(id, next); err != nil {
		return "", err
	}
	return next, nil
}

// UpdateField overwrites one mutable field of an application.
func (s *Store) UpdateField(id string, field models.Field, value models.Value) error {
	i, err := s.index(id)
	if err != nil {
		return err
	}
	if !field.Valid() {
		return fmt.Errorf("%w: %q is not an editable field", ErrInvalidField, field)
	}
	if at := value.At(); value.Kind() == models.KindDate && at != nil && !models.DateInRange(*at) {
		return fmt.Errorf("%w: date %s is outside years %d-%d", ErrValidation, at.Format(models.DateLayout), models.MinYear, models.MaxYear)
	}

	rec := s.records[i]
	if err := rec.Set(field, value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	s.records[i] = rec
	s.touch()

	s.logger.Debug("application updated", "id", id, "field", field)
	return nil
}

// Delete removes an application. There is no way to restore it.
func (s *Store) Delete(id string) error {
	i, err := s.index(id)
	if err != nil {
		return err
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	s.touch()

	s.logger.Debug("application deleted", "id", id)
	return nil
}

// Get returns a copy of the application with the given id.
func (s *Store) Get(id string) (models.Record, error) {
	i, err := s.index(id)
	if err != nil {
		return models.Record{}, err
	}
	return s.records[i].Clone(), nil
}

// List returns copies of all applications in insertion order.
func (s *Store) List() []models.Record {
	out := make([]models.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	return out
}

// Len returns the number of applications.
func (s *Store) Len() int { return len(s.records) }

// ListRoles returns the distinct roles, sorted.
func (s *Store) ListRoles() []string {
	set := make(map[string]struct{}, len(s.records))
	for _, rec := range s.records {
		set[rec.Role] = struct{}{}
	}
	roles := make([]string, 0, len(set))
	for role := range set {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// FilterByRoles returns the applications whose role is selected, in
// insertion order. An empty selection returns nothing.
func (s *Store) FilterByRoles(roles []string) []models.Record {
	out := []models.Record{}
	if len(roles) == 0 {
		return out
	}
	selected := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		selected[r] = struct{}{}
	}
	for _, rec := range s.records {
		if _, ok := selected[rec.Role]; ok {
			out = append(out, rec.Clone())
		}
	}
	return out
}

// Replace swaps the whole board for records loaded from outside. The input
// is validated first; on error the store is left as it was.
func (s *Store) Replace(records []models.Record) error {
	ids := make(map[string]struct{}, len(records))
	next := make([]models.Record, 0, len(records))
	for i, rec := range records {
		switch {
		case rec.ID == "":
			return fmt.Errorf("%w: record %d has no id", ErrValidation, i)
		case strings.TrimSpace(rec.Company) == "" || strings.TrimSpace(rec.Role) == "":
			return fmt.Errorf("%w: record %s needs company and role", ErrValidation, rec.ID)
		case !rec.Status.Valid():
			return fmt.Errorf("%w: record %s has unknown status %q", ErrValidation, rec.ID, rec.Status)
		case !datesInRange(rec):
			return fmt.Errorf("%w: record %s has a date outside years %d-%d", ErrValidation, rec.ID, models.MinYear, models.MaxYear)
		}
		if _, dup := ids[rec.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrValidation, rec.ID)
		}
		ids[rec.ID] = struct{}{}
		next = append(next, rec.Clone())
	}

	s.records = next
	for id := range ids {
		s.seen[id] = struct{}{}
	}
	s.touch()

	s.logger.Debug("board replaced", "count", len(next))
	return nil
}

// Reset empties the board.
func (s *Store) Reset() {
	s.records = nil
	s.touch()
}

// Revision increases on every mutation. Callers compare revisions to know
// whether the board changed.
func (s *Store) Revision() uint64 { return s.revision }

// Column returns the records in the given stage, keeping their order.
func Column(records []models.Record, status models.Status) []models.Record {
	out := []models.Record{}
	for _, rec := range records {
		if rec.Status == status {
			out = append(out, rec)
		}
	}
	return out
}

func (s *Store) index(id string) (int, error) {
	for i, rec := range s.records {
		if rec.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *Store) freshID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, used := s.seen[id]; !used {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique application id")
}

func (s *Store) touch() { s.revision++ }

func datesInRange(rec models.Record) bool {
	for _, d := range []*time.Time{rec.PPTDate, rec.TestDate} {
		if d != nil && !models.DateInRange(*d) {
			return false
		}
	}
	return true
}
