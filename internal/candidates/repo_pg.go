package candidates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const candidateColumns = `id, name, email, phone, location, title, job_id, stage, status, skills, experience, education, created_at, updated_at`

// List returns candidates newest-first, optionally narrowed by search text
// and job. The search matches name, email, title, location and skills.
func (r *PGRepo) List(ctx context.Context, filter Filter) ([]Candidate, error) {
	query := `
SELECT ` + candidateColumns + `
FROM candidates
WHERE 1=1`
	args := []any{}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d OR title ILIKE $%d OR location ILIKE $%d OR skills::text ILIKE $%d)`, n, n, n, n, n)
	}
	if filter.JobID != 0 {
		args = append(args, filter.JobID)
		query += fmt.Sprintf(` AND job_id = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (Candidate, error) {
	const query = `
SELECT ` + candidateColumns + `
FROM candidates
WHERE id = $1`
	c, err := scanCandidate(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Candidate{}, ErrNotFound
		}
		return Candidate{}, err
	}
	return c, nil
}

func (r *PGRepo) Create(ctx context.Context, candidate Candidate) (Candidate, error) {
	const query = `
INSERT INTO candidates (name, email, phone, location, title, job_id, stage, status, skills, experience, education, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id`
	skills, experience, education, err := marshalCollections(candidate)
	if err != nil {
		return Candidate{}, err
	}
	err = r.DB.QueryRowContext(
		ctx,
		query,
		candidate.Name,
		candidate.Email,
		candidate.Phone,
		candidate.Location,
		candidate.Title,
		candidate.JobID,
		candidate.Stage,
		candidate.Status,
		skills,
		experience,
		education,
		candidate.CreatedAt,
		candidate.UpdatedAt,
	).Scan(&candidate.ID)
	if err != nil {
		return Candidate{}, err
	}
	return candidate, nil
}

func (r *PGRepo) Update(ctx context.Context, candidate Candidate) (Candidate, error) {
	const query = `
UPDATE candidates
SET name = $1, email = $2, phone = $3, location = $4, title = $5, job_id = $6,
    stage = $7, status = $8, skills = $9, experience = $10, education = $11, updated_at = $12
WHERE id = $13`
	skills, experience, education, err := marshalCollections(candidate)
	if err != nil {
		return Candidate{}, err
	}
	res, err := r.DB.ExecContext(
		ctx,
		query,
		candidate.Name,
		candidate.Email,
		candidate.Phone,
		candidate.Location,
		candidate.Title,
		candidate.JobID,
		candidate.Stage,
		candidate.Status,
		skills,
		experience,
		education,
		candidate.UpdatedAt,
		candidate.ID,
	)
	if err != nil {
		return Candidate{}, err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return Candidate{}, ErrNotFound
	}
	return candidate, nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&count)
	return count, err
}

func (r *PGRepo) AppendTimeline(ctx context.Context, entry TimelineEntry) (TimelineEntry, error) {
	const query = `
INSERT INTO candidate_timeline (candidate_id, from_stage, to_stage, ts, notes)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	var fromStage sql.NullString
	if entry.FromStage != nil {
		fromStage = sql.NullString{String: *entry.FromStage, Valid: true}
	}
	err := r.DB.QueryRowContext(
		ctx,
		query,
		entry.CandidateID,
		fromStage,
		entry.ToStage,
		entry.Timestamp,
		entry.Notes,
	).Scan(&entry.ID)
	if err != nil {
		return TimelineEntry{}, err
	}
	return entry, nil
}

// TimelineFor returns entries in append order; id order preserves it even
// when two entries share a timestamp.
func (r *PGRepo) TimelineFor(ctx context.Context, candidateID int64) ([]TimelineEntry, error) {
	const query = `
SELECT id, candidate_id, from_stage, to_stage, ts, notes
FROM candidate_timeline
WHERE candidate_id = $1
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TimelineEntry
	for rows.Next() {
		var entry TimelineEntry
		var fromStage sql.NullString
		if err := rows.Scan(&entry.ID, &entry.CandidateID, &fromStage, &entry.ToStage, &entry.Timestamp, &entry.Notes); err != nil {
			return nil, err
		}
		if fromStage.Valid {
			entry.FromStage = &fromStage.String
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (r *PGRepo) DeleteTimelineFor(ctx context.Context, candidateID int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM candidate_timeline WHERE candidate_id = $1`, candidateID)
	return err
}

func marshalCollections(c Candidate) ([]byte, []byte, []byte, error) {
	skills, err := json.Marshal(orEmptySkills(c.Skills))
	if err != nil {
		return nil, nil, nil, err
	}
	experience, err := json.Marshal(orEmptyExperience(c.Experience))
	if err != nil {
		return nil, nil, nil, err
	}
	education, err := json.Marshal(orEmptyEducation(c.Education))
	if err != nil {
		return nil, nil, nil, err
	}
	return skills, experience, education, nil
}

func orEmptySkills(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyExperience(e []Experience) []Experience {
	if e == nil {
		return []Experience{}
	}
	return e
}

func orEmptyEducation(e []Education) []Education {
	if e == nil {
		return []Education{}
	}
	return e
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (Candidate, error) {
	var c Candidate
	var skills, experience, education []byte
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Location,
		&c.Title,
		&c.JobID,
		&c.Stage,
		&c.Status,
		&skills,
		&experience,
		&education,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return Candidate{}, err
	}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &c.Skills); err != nil {
			return Candidate{}, fmt.Errorf("decode skills: %w", err)
		}
	}
	if len(experience) > 0 {
		if err := json.Unmarshal(experience, &c.Experience); err != nil {
			return Candidate{}, fmt.Errorf("decode experience: %w", err)
		}
	}
	if len(education) > 0 {
		if err := json.Unmarshal(education, &c.Education); err != nil {
			return Candidate{}, fmt.Errorf("decode education: %w", err)
		}
	}
	return c, nil
}

var _ Repo = (*PGRepo)(nil)
