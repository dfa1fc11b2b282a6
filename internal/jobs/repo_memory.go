package jobs

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo implements Repo in process memory. Used in dev mode and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	jobs   map[int64]Job
	nextID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		jobs:   make(map[int64]Job),
		nextID: 1,
	}
}

func (r *MemoryRepo) List(ctx context.Context, q ListQuery) ([]Job, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if q.Status != "" && j.Status != q.Status {
			continue
		}
		if q.Search != "" && !matchesSearch(j, q.Search) {
			continue
		}
		matched = append(matched, j)
	}
	sortJobs(matched, q.Sort)

	total := len(matched)
	start := (q.Page - 1) * q.PageSize
	if start >= total {
		return []Job{}, total, nil
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func matchesSearch(j Job, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(j.Title), q) ||
		strings.Contains(strings.ToLower(j.Slug), q) {
		return true
	}
	for _, tag := range j.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func sortJobs(jobs []Job, key string) {
	switch key {
	case "title":
		sort.Slice(jobs, func(i, k int) bool { return jobs[i].Title < jobs[k].Title })
	case "createdAt":
		sort.Slice(jobs, func(i, k int) bool {
			if jobs[i].CreatedAt.Equal(jobs[k].CreatedAt) {
				return jobs[i].ID > jobs[k].ID
			}
			return jobs[i].CreatedAt.After(jobs[k].CreatedAt)
		})
	default:
		sort.Slice(jobs, func(i, k int) bool { return jobs[i].Order < jobs[k].Order })
	}
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return j, nil
}

func (r *MemoryRepo) GetBySlug(ctx context.Context, slug string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, j := range r.jobs {
		if j.Slug == slug {
			return j, nil
		}
	}
	return Job{}, ErrNotFound
}

func (r *MemoryRepo) Create(ctx context.Context, job Job) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job.ID = r.nextID
	r.nextID++
	r.jobs[job.ID] = job
	return job, nil
}

func (r *MemoryRepo) Update(ctx context.Context, job Job) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return Job{}, ErrNotFound
	}
	r.jobs[job.ID] = job
	return job, nil
}

func (r *MemoryRepo) MaxOrder(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	max := 0
	for _, j := range r.jobs {
		if j.Order > max {
			max = j.Order
		}
	}
	return max, nil
}

func (r *MemoryRepo) Reorder(ctx context.Context, id int64, fromOrder, toOrder int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	moved, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	for jid, j := range r.jobs {
		if jid == id {
			continue
		}
		switch {
		case fromOrder < toOrder && j.Order > fromOrder && j.Order <= toOrder:
			j.Order--
		case fromOrder > toOrder && j.Order >= toOrder && j.Order < fromOrder:
			j.Order++
		default:
			continue
		}
		r.jobs[jid] = j
	}
	moved.Order = toOrder
	r.jobs[id] = moved
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
