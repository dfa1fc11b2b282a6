package assessments

import (
	"context"
	"sync"
)

// MemoryRepo implements Repo in process memory. Used in dev mode and tests.
type MemoryRepo struct {
	mu         sync.RWMutex
	byJobID    map[int64]Assessment
	responses  map[int64][]Response
	nextID     int64
	nextRespID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byJobID:    make(map[int64]Assessment),
		responses:  make(map[int64][]Response),
		nextID:     1,
		nextRespID: 1,
	}
}

func (r *MemoryRepo) GetByJobID(ctx context.Context, jobID int64) (Assessment, error) {
	if err := ctx.Err(); err != nil {
		return Assessment{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byJobID[jobID]
	if !ok {
		return Assessment{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, assessment Assessment) (Assessment, error) {
	if err := ctx.Err(); err != nil {
		return Assessment{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byJobID[assessment.JobID]; ok {
		assessment.ID = existing.ID
		assessment.CreatedAt = existing.CreatedAt
	} else {
		assessment.ID = r.nextID
		r.nextID++
	}
	r.byJobID[assessment.JobID] = assessment
	return assessment, nil
}

func (r *MemoryRepo) CreateResponse(ctx context.Context, response Response) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	response.ID = r.nextRespID
	r.nextRespID++
	r.responses[response.JobID] = append(r.responses[response.JobID], response)
	return response, nil
}

func (r *MemoryRepo) ResponsesForJob(ctx context.Context, jobID int64) ([]Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.responses[jobID]
	out := make([]Response, len(entries))
	copy(out, entries)
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
