package documents

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo keeps records in process, for local development and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Record // orgID -> records
	now  func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Record),
		now:  time.Now,
	}
}

// Insert stores the record and stamps created_at.
func (r *MemoryRepo) Insert(ctx context.Context, rec Record) InsertResult {
	if err := ctx.Err(); err != nil {
		return InsertResult{Attempts: 1, Err: err}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.CreatedAt = r.now().UTC()
	r.data[rec.OrgID] = append(r.data[rec.OrgID], rec)
	return InsertResult{Rows: []map[string]any{rec.Row()}, Attempts: 1}
}

// ListByOrg returns the records of one organization in insertion order.
func (r *MemoryRepo) ListByOrg(orgID string) []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, len(r.data[orgID]))
	copy(out, r.data[orgID])
	return out
}

var _ Writer = (*MemoryRepo)(nil)
