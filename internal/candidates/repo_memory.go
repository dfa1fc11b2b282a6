package candidates

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo implements Repo in process memory. Used in dev mode and tests.
type MemoryRepo struct {
	mu         sync.RWMutex
	candidates map[int64]Candidate
	timeline   map[int64][]TimelineEntry
	nextID     int64
	nextTLID   int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		candidates: make(map[int64]Candidate),
		timeline:   make(map[int64][]TimelineEntry),
		nextID:     1,
		nextTLID:   1,
	}
}

func (r *MemoryRepo) List(ctx context.Context, filter Filter) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Candidate, 0, len(r.candidates))
	for _, c := range r.candidates {
		if filter.JobID != 0 && c.JobID != filter.JobID {
			continue
		}
		if filter.Search != "" && !matchesSearch(c, filter.Search) {
			continue
		}
		out = append(out, c)
	}
	// Newest first, matching the original list ordering.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func matchesSearch(c Candidate, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Email), q) ||
		strings.Contains(strings.ToLower(c.Title), q) ||
		strings.Contains(strings.ToLower(c.Location), q) {
		return true
	}
	for _, skill := range c.Skills {
		if strings.Contains(strings.ToLower(skill), q) {
			return true
		}
	}
	return false
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.candidates[id]
	if !ok {
		return Candidate{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) Create(ctx context.Context, candidate Candidate) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	candidate.ID = r.nextID
	r.nextID++
	r.candidates[candidate.ID] = candidate
	return candidate, nil
}

func (r *MemoryRepo) Update(ctx context.Context, candidate Candidate) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.candidates[candidate.ID]; !ok {
		return Candidate{}, ErrNotFound
	}
	r.candidates[candidate.ID] = candidate
	return candidate, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.candidates[id]; !ok {
		return ErrNotFound
	}
	delete(r.candidates, id)
	return nil
}

func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.candidates), nil
}

func (r *MemoryRepo) AppendTimeline(ctx context.Context, entry TimelineEntry) (TimelineEntry, error) {
	if err := ctx.Err(); err != nil {
		return TimelineEntry{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = r.nextTLID
	r.nextTLID++
	r.timeline[entry.CandidateID] = append(r.timeline[entry.CandidateID], entry)
	return entry, nil
}

func (r *MemoryRepo) TimelineFor(ctx context.Context, candidateID int64) ([]TimelineEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.timeline[candidateID]
	out := make([]TimelineEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (r *MemoryRepo) DeleteTimelineFor(ctx context.Context, candidateID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.timeline, candidateID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
