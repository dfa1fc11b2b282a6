package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo on Postgres.
type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, title, slug, status, tags, sort_order, created_at, updated_at`

func (r *PGRepo) List(ctx context.Context, q ListQuery) ([]Job, int, error) {
	where := ` FROM jobs WHERE 1=1`
	args := []any{}
	if q.Status != "" {
		args = append(args, q.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (title ILIKE $%d OR slug ILIKE $%d OR tags::text ILIKE $%d)`, n, n, n)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	var orderBy string
	switch q.Sort {
	case "title":
		orderBy = ` ORDER BY title ASC, id ASC`
	case "createdAt":
		orderBy = ` ORDER BY created_at DESC, id DESC`
	default:
		orderBy = ` ORDER BY sort_order ASC`
	}
	args = append(args, q.PageSize, (q.Page-1)*q.PageSize)
	query := `SELECT ` + jobColumns + where + orderBy +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, j)
	}
	return jobs, total, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (Job, error) {
	j, err := scanJob(r.DB.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return j, nil
}

func (r *PGRepo) GetBySlug(ctx context.Context, slug string) (Job, error) {
	j, err := scanJob(r.DB.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return j, nil
}

func (r *PGRepo) Create(ctx context.Context, job Job) (Job, error) {
	tags, err := json.Marshal(orEmptyTags(job.Tags))
	if err != nil {
		return Job{}, err
	}
	const query = `
INSERT INTO jobs (title, slug, status, tags, sort_order, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	err = r.DB.QueryRowContext(
		ctx, query,
		job.Title, job.Slug, job.Status, tags, job.Order, job.CreatedAt, job.UpdatedAt,
	).Scan(&job.ID)
	if err != nil {
		return Job{}, err
	}
	return job, nil
}

func (r *PGRepo) Update(ctx context.Context, job Job) (Job, error) {
	tags, err := json.Marshal(orEmptyTags(job.Tags))
	if err != nil {
		return Job{}, err
	}
	const query = `
UPDATE jobs
SET title = $1, slug = $2, status = $3, tags = $4, sort_order = $5, updated_at = $6
WHERE id = $7`
	res, err := r.DB.ExecContext(ctx, query, job.Title, job.Slug, job.Status, tags, job.Order, job.UpdatedAt, job.ID)
	if err != nil {
		return Job{}, err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return Job{}, ErrNotFound
	}
	return job, nil
}

func (r *PGRepo) MaxOrder(ctx context.Context) (int, error) {
	var max int
	err := r.DB.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order), 0) FROM jobs`).Scan(&max)
	return max, err
}

func (r *PGRepo) Reorder(ctx context.Context, id int64, fromOrder, toOrder int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if fromOrder < toOrder {
		_, err = tx.ExecContext(ctx, `
UPDATE jobs SET sort_order = sort_order - 1
WHERE sort_order > $1 AND sort_order <= $2 AND id <> $3`, fromOrder, toOrder, id)
	} else {
		_, err = tx.ExecContext(ctx, `
UPDATE jobs SET sort_order = sort_order + 1
WHERE sort_order >= $1 AND sort_order < $2 AND id <> $3`, toOrder, fromOrder, id)
	}
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `UPDATE jobs SET sort_order = $1 WHERE id = $2`, toOrder, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var j Job
	var tags []byte
	err := row.Scan(&j.ID, &j.Title, &j.Slug, &j.Status, &tags, &j.Order, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return Job{}, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &j.Tags); err != nil {
			return Job{}, fmt.Errorf("decode tags for job %d: %w", j.ID, err)
		}
	}
	return j, nil
}

func orEmptyTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

var _ Repo = (*PGRepo)(nil)
