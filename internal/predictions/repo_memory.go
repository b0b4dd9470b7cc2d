package predictions

import (
	"context"
	"sync"
)

// MemoryRepo keeps predictions in process memory, newest last.
type MemoryRepo struct {
	mu      sync.RWMutex
	records []Record
	byID    map[string]int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]int)}
}

func (r *MemoryRepo) Create(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rec.ID] = len(r.records)
	r.records = append(r.records, cloneRecord(rec))
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return cloneRecord(r.records[i]), nil
}

func (r *MemoryRepo) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []Record{}, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, 0, min(limit, len(r.records)))
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, cloneRecord(r.records[i]))
	}
	return out, nil
}

func cloneRecord(rec Record) Record {
	rec.SuggestedActions = append([]string(nil), rec.SuggestedActions...)
	if rec.Metadata != nil {
		meta := make(map[string]any, len(rec.Metadata))
		for k, v := range rec.Metadata {
			meta[k] = v
		}
		rec.Metadata = meta
	}
	return rec
}
