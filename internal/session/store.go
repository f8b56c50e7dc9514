package session

import (
	"context"
	"sync"
	"time"

	"conversor/domain/datalogger"
	"conversor/internal/errors"
	"conversor/internal/logger"
	"conversor/ports"

	"github.com/google/uuid"
)

// MemoryStore keeps conversions in process memory. Entries expire after the
// configured TTL; expired entries are invisible to Get and are removed by
// Purge or the background purger.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[uuid.UUID]*datalogger.Conversion
	ttl     time.Duration
	now     func() time.Time
}

var _ ports.ResultStore = (*MemoryStore)(nil)

// NewMemoryStore creates a store whose entries live for ttl. A ttl of zero
// keeps entries until they are deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		results: make(map[uuid.UUID]*datalogger.Conversion),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Save stores conv, assigning an ID and timestamps when missing.
func (s *MemoryStore) Save(ctx context.Context, conv *datalogger.Conversion) (uuid.UUID, error) {
	if conv == nil {
		return uuid.Nil, errors.InvalidInput("nil conversion")
	}
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	stored := *conv
	if err := Stamp(&stored, s.now(), s.ttl); err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	s.results[stored.ID] = &stored
	s.mu.Unlock()

	logger.Debugf("[ResultStore] Saved %s (%s, %d rows)", stored.ID, stored.Layout, stored.Table.Len())
	return stored.ID, nil
}

// Get returns a copy of the conversion stored under id.
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*datalogger.Conversion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	conv, ok := s.results[id]
	s.mu.RUnlock()

	if !ok || conv.Expired(s.now()) {
		return nil, ports.ErrResultNotFound
	}
	out := *conv
	return &out, nil
}

// Delete removes id. Unknown IDs are not an error.
func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	delete(s.results, id)
	s.mu.Unlock()
	return nil
}

// Purge removes every entry expired at now.
func (s *MemoryStore) Purge(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, conv := range s.results {
		if conv.Expired(now) {
			delete(s.results, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of entries held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// Stamp fills in the ID, creation and expiry times a store assigns on Save.
func Stamp(conv *datalogger.Conversion, now time.Time, ttl time.Duration) error {
	if conv.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate session id")
		}
		conv.ID = id
	}
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	if conv.ExpiresAt.IsZero() && ttl > 0 {
		conv.ExpiresAt = conv.CreatedAt.Add(ttl)
	}
	if conv.Table == nil {
		conv.Table = datalogger.NewResultTable(nil)
	}
	return nil
}
