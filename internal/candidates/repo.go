package candidates

import "context"

// Filter narrows List results. Stage bucketing is NOT done here: the service
// applies canonical-stage filtering so every caller shares one normalization.
type Filter struct {
	Search string
	JobID  int64
}

// Repo defines persistence operations for candidates and their timeline.
type Repo interface {
	List(ctx context.Context, filter Filter) ([]Candidate, error)
	GetByID(ctx context.Context, id int64) (Candidate, error)
	Create(ctx context.Context, candidate Candidate) (Candidate, error)
	Update(ctx context.Context, candidate Candidate) (Candidate, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)

	AppendTimeline(ctx context.Context, entry TimelineEntry) (TimelineEntry, error)
	TimelineFor(ctx context.Context, candidateID int64) ([]TimelineEntry, error)
	DeleteTimelineFor(ctx context.Context, candidateID int64) error
}
