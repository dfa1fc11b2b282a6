package assessments

import "context"

// Repo is the persistence boundary for assessments and their responses.
// Upsert replaces the assessment stored for the job, creating it on first
// save.
type Repo interface {
	GetByJobID(ctx context.Context, jobID int64) (Assessment, error)
	Upsert(ctx context.Context, assessment Assessment) (Assessment, error)
	CreateResponse(ctx context.Context, response Response) (Response, error)
	ResponsesForJob(ctx context.Context, jobID int64) ([]Response, error)
}
