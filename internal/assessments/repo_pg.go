package assessments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo on Postgres. Sections and answers are stored as
// JSONB documents; the job_id unique constraint backs the upsert.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) GetByJobID(ctx context.Context, jobID int64) (Assessment, error) {
	const query = `
SELECT id, job_id, title, description, status, sections, launched_at, created_at, updated_at
FROM assessments
WHERE job_id = $1`
	var a Assessment
	var sections []byte
	var launchedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, jobID).
		Scan(&a.ID, &a.JobID, &a.Title, &a.Description, &a.Status, &sections, &launchedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assessment{}, ErrNotFound
		}
		return Assessment{}, err
	}
	if err := json.Unmarshal(sections, &a.Sections); err != nil {
		return Assessment{}, fmt.Errorf("decode sections for job %d: %w", jobID, err)
	}
	if launchedAt.Valid {
		t := launchedAt.Time
		a.LaunchedAt = &t
	}
	return a, nil
}

func (r *PGRepo) Upsert(ctx context.Context, assessment Assessment) (Assessment, error) {
	sections, err := json.Marshal(assessment.Sections)
	if err != nil {
		return Assessment{}, err
	}
	var launchedAt sql.NullTime
	if assessment.LaunchedAt != nil {
		launchedAt = sql.NullTime{Time: *assessment.LaunchedAt, Valid: true}
	}
	const query = `
INSERT INTO assessments (job_id, title, description, status, sections, launched_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (job_id) DO UPDATE
SET title = EXCLUDED.title, description = EXCLUDED.description,
    status = EXCLUDED.status, sections = EXCLUDED.sections,
    launched_at = EXCLUDED.launched_at, updated_at = EXCLUDED.updated_at
RETURNING id, created_at`
	err = r.DB.QueryRowContext(
		ctx, query,
		assessment.JobID, assessment.Title, assessment.Description, assessment.Status,
		sections, launchedAt, assessment.CreatedAt, assessment.UpdatedAt,
	).Scan(&assessment.ID, &assessment.CreatedAt)
	if err != nil {
		return Assessment{}, err
	}
	return assessment, nil
}

func (r *PGRepo) CreateResponse(ctx context.Context, response Response) (Response, error) {
	answers, err := json.Marshal(response.Answers)
	if err != nil {
		return Response{}, err
	}
	const query = `
INSERT INTO assessment_responses (job_id, candidate_id, answers, submitted_at)
VALUES ($1, $2, $3, $4)
RETURNING id`
	err = r.DB.QueryRowContext(
		ctx, query,
		response.JobID, response.CandidateID, answers, response.SubmittedAt,
	).Scan(&response.ID)
	if err != nil {
		return Response{}, err
	}
	return response, nil
}

func (r *PGRepo) ResponsesForJob(ctx context.Context, jobID int64) ([]Response, error) {
	const query = `
SELECT id, job_id, candidate_id, answers, submitted_at
FROM assessment_responses
WHERE job_id = $1
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []Response{}
	for rows.Next() {
		var resp Response
		var answers []byte
		if err := rows.Scan(&resp.ID, &resp.JobID, &resp.CandidateID, &answers, &resp.SubmittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answers, &resp.Answers); err != nil {
			return nil, fmt.Errorf("decode answers for response %d: %w", resp.ID, err)
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
