package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	"glicosmart/internal/domain"

	"go.uber.org/zap"
)

// NewReading is the validated input of AddReading. A nil Timestamp means now.
type NewReading struct {
	Value     int
	Period    domain.Period
	Notes     string
	Timestamp *time.Time
}

// ReadingPatch lists the fields UpdateReading changes; nil fields are kept.
type ReadingPatch struct {
	Value     *int
	Period    *domain.Period
	Timestamp *time.Time
	Notes     *string
}

// Change reports the outcome of a reading update or delete.
type Change int

const (
	// ChangeNoSession means there was no active account and nothing was done.
	ChangeNoSession Change = iota
	ChangeNotFound
	ChangeApplied
)

// AddReading stores a new reading for the active account. Without an active
// account it does nothing and returns the zero Reading.
func (s *Store) AddReading(ctx context.Context, in NewReading) (domain.Reading, error) {
	period := in.Period
	if period == "" {
		period = domain.PeriodRandom
	}
	if !period.Valid() {
		return domain.Reading{}, fmt.Errorf("%w: unknown period %q", domain.ErrInvalidReading, in.Period)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.activeAccount()
	if !ok {
		s.log.Debug("add reading ignored", zap.Error(domain.ErrNoActiveAccount))
		return domain.Reading{}, nil
	}

	ts := s.now()
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}
	r := domain.Reading{
		ID:        uniqueID(takenIDs(acc.Readings), s.newID),
		Value:     in.Value,
		Period:    period,
		Timestamp: ts.UTC(),
		Notes:     in.Notes,
	}

	readings := make([]domain.Reading, 0, len(acc.Readings)+1)
	readings = append(readings, r)
	readings = append(readings, acc.Readings...)
	sortReadings(readings)
	acc.Readings = readings
	s.root[s.active] = acc

	s.log.Debug("reading added", zap.String("id", r.ID), zap.Int("value", r.Value))
	_ = s.save(ctx)
	return r, nil
}

// UpdateReading merges patch into the reading with the given id.
func (s *Store) UpdateReading(ctx context.Context, id string, patch ReadingPatch) (Change, error) {
	if patch.Period != nil && !patch.Period.Valid() {
		return ChangeNotFound, fmt.Errorf("%w: unknown period %q", domain.ErrInvalidReading, *patch.Period)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.activeAccount()
	if !ok {
		s.log.Debug("update reading ignored", zap.Error(domain.ErrNoActiveAccount))
		return ChangeNoSession, nil
	}
	i := slices.IndexFunc(acc.Readings, func(r domain.Reading) bool { return r.ID == id })
	if i < 0 {
		return ChangeNotFound, nil
	}

	readings := slices.Clone(acc.Readings)
	r := &readings[i]
	if patch.Value != nil {
		r.Value = *patch.Value
	}
	if patch.Period != nil {
		r.Period = *patch.Period
	}
	if patch.Timestamp != nil {
		r.Timestamp = patch.Timestamp.UTC()
	}
	if patch.Notes != nil {
		r.Notes = *patch.Notes
	}
	sortReadings(readings)
	acc.Readings = readings
	s.root[s.active] = acc

	_ = s.save(ctx)
	return ChangeApplied, nil
}

// DeleteReading removes the reading with the given id.
func (s *Store) DeleteReading(ctx context.Context, id string) Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.activeAccount()
	if !ok {
		s.log.Debug("delete reading ignored", zap.Error(domain.ErrNoActiveAccount))
		return ChangeNoSession
	}
	i := slices.IndexFunc(acc.Readings, func(r domain.Reading) bool { return r.ID == id })
	if i < 0 {
		return ChangeNotFound
	}
	acc.Readings = slices.Delete(slices.Clone(acc.Readings), i, i+1)
	s.root[s.active] = acc

	_ = s.save(ctx)
	return ChangeApplied
}

// RepairIDs gives a fresh id to every reading whose id is empty or already
// used by an earlier reading. Fresh ids never collide with any id in the
// collection. The input slice is not modified.
func RepairIDs(readings []domain.Reading, newID func() string) ([]domain.Reading, bool) {
	taken := takenIDs(readings)
	seen := make(map[string]bool, len(readings))
	out := slices.Clone(readings)
	changed := false
	for i := range out {
		if out[i].ID == "" || seen[out[i].ID] {
			out[i].ID = uniqueID(taken, newID)
			changed = true
		}
		seen[out[i].ID] = true
	}
	return out, changed
}

func takenIDs(readings []domain.Reading) map[string]bool {
	taken := make(map[string]bool, len(readings)+1)
	for _, r := range readings {
		if r.ID != "" {
			taken[r.ID] = true
		}
	}
	return taken
}

// uniqueID draws from newID until it gets an unused id and marks it taken.
// A generator that keeps repeating itself gets a numeric suffix.
func uniqueID(taken map[string]bool, newID func() string) string {
	base := newID()
	id := base
	for n := 1; id == "" || taken[id]; n++ {
		if n <= 3 {
			id = newID()
			continue
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
	taken[id] = true
	return id
}

func newestFirst(a, b domain.Reading) int {
	return b.Timestamp.Compare(a.Timestamp)
}

// sortReadings orders readings newest first, keeping insertion order on ties.
func sortReadings(readings []domain.Reading) {
	slices.SortStableFunc(readings, newestFirst)
}
