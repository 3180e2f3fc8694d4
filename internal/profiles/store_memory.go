package profiles

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store for local development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	rows []Profile
}

// NewMemoryStore constructs a MemoryStore seeded with rows.
func NewMemoryStore(rows ...Profile) *MemoryStore {
	return &MemoryStore{rows: append([]Profile(nil), rows...)}
}

// Put appends a profile row. Duplicate ids are kept, as in the real table.
func (s *MemoryStore) Put(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, p)
}

// Find returns every row whose id matches.
func (s *MemoryStore) Find(ctx context.Context, f Filter) Result {
	if err := ctx.Err(); err != nil {
		return Result{Err: err}
	}
	id := strings.TrimSpace(f.ID)
	if id == "" {
		return Result{Err: ErrEmptyFilter}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Profile
	for _, p := range s.rows {
		if p.ID == id {
			out = append(out, p)
		}
	}
	return Result{Rows: out}
}

var _ Store = (*MemoryStore)(nil)
