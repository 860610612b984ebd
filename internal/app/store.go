// Package app holds the application services: the account and reading store,
// its persistence, and the read-only projections built on top of it.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"glicosmart/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store owns the Store Root, the active session pointer and the durable slot
// the root is saved to. All methods are safe for concurrent use; mutations
// and saves are serialised.
type Store struct {
	mu      sync.Mutex
	slot    domain.Slot
	log     *zap.Logger
	now     func() time.Time
	loc     *time.Location
	newID   func() string
	root    domain.StoreRoot
	active  string
	unsaved bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the clock used for default reading timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the zone for stored timestamps that carry none. A nil
// location is ignored.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithIDFunc sets the reading id generator. A nil func is ignored.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Snapshot is a read-only copy of the active session for presentation.
type Snapshot struct {
	ActiveAccountID string           `json:"activeAccountId"`
	Profile         *domain.Profile  `json:"profile"`
	Readings        []domain.Reading `json:"readings"`
	Unsaved         bool             `json:"unsaved"`
}

// LoggedIn reports whether the snapshot has an active account.
func (s Snapshot) LoggedIn() bool {
	return s.ActiveAccountID != ""
}

// Latest returns the most recent reading, or nil.
func (s Snapshot) Latest() *domain.Reading {
	if len(s.Readings) == 0 {
		return nil
	}
	r := s.Readings[0]
	return &r
}

// Open loads the Store Root from slot, repairs it and derives the initial
// session. Corrupt slot content is logged and treated as an empty root; only
// a failing read is returned as an error.
func Open(ctx context.Context, slot domain.Slot, opts ...Option) (*Store, error) {
	s := &Store{
		slot:  slot,
		log:   zap.NewNop(),
		now:   time.Now,
		loc:   time.Local,
		newID: newReadingID,
		root:  domain.StoreRoot{},
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := slot.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read storage slot: %w", err)
	}

	dec, err := decodeRoot(data, s.newID, s.loc)
	if err != nil {
		s.log.Warn("stored data could not be decoded, starting empty",
			zap.Error(fmt.Errorf("%w: %w", domain.ErrStorageReadCorrupt, err)),
			zap.Int("bytes", len(data)))
		dec = decoded{root: domain.StoreRoot{}}
	}
	s.root = dec.root

	if ids := s.root.IDs(); len(ids) > 0 {
		s.active = ids[0]
	}

	switch {
	case dec.skipped > 0:
		// Nothing is written back while the slot still holds entries this
		// build cannot read; the next mutation saves without them.
		s.log.Warn("stored entries could not be decoded, skipping",
			zap.Error(domain.ErrStorageReadCorrupt),
			zap.Int("skipped", dec.skipped),
			zap.Bool("repaired", dec.repaired))
	case dec.repaired:
		s.log.Info("stored data repaired", zap.Int("accounts", len(s.root)))
		_ = s.save(ctx)
	}
	return s, nil
}

// Snapshot returns a deep copy of the active session.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{ActiveAccountID: s.active, Readings: []domain.Reading{}, Unsaved: s.unsaved}
	acc, ok := s.activeAccount()
	if !ok {
		snap.ActiveAccountID = ""
		return snap
	}
	c := acc.Clone()
	snap.Profile = &c.Profile
	snap.Readings = c.Readings
	return snap
}

// Readings returns a copy of the active account's readings, newest first.
func (s *Store) Readings() []domain.Reading {
	return s.Snapshot().Readings
}

// Root returns a deep copy of the whole Store Root.
func (s *Store) Root() domain.StoreRoot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root.Clone()
}

// Flush retries a save when the last one failed.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unsaved {
		return nil
	}
	return s.save(ctx)
}

// NotifyExternalWrite records that another instance wrote the slot. There is
// no merge: the next save from this instance overwrites it.
func (s *Store) NotifyExternalWrite() {
	s.log.Warn("storage slot modified by another instance; last writer wins")
}

func (s *Store) activeAccount() (domain.Account, bool) {
	if s.active == "" {
		return domain.Account{}, false
	}
	acc, ok := s.root[s.active]
	return acc, ok
}

// save serialises the whole root into the slot. Callers hold s.mu.
func (s *Store) save(ctx context.Context) error {
	data, err := json.Marshal(s.root)
	if err == nil {
		err = s.slot.Write(ctx, data)
	}
	if err != nil {
		s.unsaved = true
		err = fmt.Errorf("%w: %w", domain.ErrStorageWriteFailed, err)
		s.log.Warn("save failed, changes kept in memory", zap.Error(err))
		return err
	}
	s.unsaved = false
	s.log.Debug("store saved", zap.Int("bytes", len(data)))
	return nil
}

func newReadingID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
