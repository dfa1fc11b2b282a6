package jobs

import "context"

// ListQuery narrows and pages a job listing. Sort is one of "order",
// "title" or "createdAt"; anything else falls back to "order".
type ListQuery struct {
	Search   string
	Status   string
	Sort     string
	Page     int
	PageSize int
}

// Repo is the persistence boundary for jobs. List returns the page plus the
// total count matching the query before paging.
type Repo interface {
	List(ctx context.Context, q ListQuery) ([]Job, int, error)
	GetByID(ctx context.Context, id int64) (Job, error)
	GetBySlug(ctx context.Context, slug string) (Job, error)
	Create(ctx context.Context, job Job) (Job, error)
	Update(ctx context.Context, job Job) (Job, error)
	MaxOrder(ctx context.Context) (int, error)
	// Reorder moves the job at fromOrder to toOrder and shifts every job in
	// between by one, atomically.
	Reorder(ctx context.Context, id int64, fromOrder, toOrder int) error
}
