package jobs

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"talentflow-backend/internal/mutate"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// reorderKey serializes board reorders; concurrent shifts on the dense
	// order sequence would otherwise corrupt it.
	reorderKey = "jobs:reorder"
)

// MutationKey is the mutation-runner key for a single job.
func MutationKey(id int64) string {
	return fmt.Sprintf("job:%d", id)
}

// Service implements job board operations on top of a Repo.
type Service struct {
	Repo   Repo
	Runner *mutate.Runner
	Now    func() time.Time
}

func NewService(repo Repo, runner *mutate.Runner) *Service {
	return &Service{
		Repo:   repo,
		Runner: runner,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateInput carries the fields accepted on job creation.
type CreateInput struct {
	Title  string   `json:"title"`
	Status string   `json:"status"`
	Tags   []string `json:"tags"`
}

// Create validates the title, derives a unique slug from it and appends the
// job at the end of the board order.
func (s *Service) Create(ctx context.Context, input CreateInput) (Job, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Job{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	status := input.Status
	if status == "" {
		status = StatusActive
	}
	if !validStatus(status) {
		return Job{}, fmt.Errorf("%w: status must be active, draft or archived", ErrInvalidInput)
	}

	slug, err := s.uniqueSlug(ctx, title)
	if err != nil {
		return Job{}, err
	}
	maxOrder, err := s.Repo.MaxOrder(ctx)
	if err != nil {
		return Job{}, err
	}

	now := s.Now()
	return s.Repo.Create(ctx, Job{
		Title:     title,
		Slug:      slug,
		Status:    status,
		Tags:      input.Tags,
		Order:     maxOrder + 1,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// UpdateInput carries a partial job update. Nil pointers mean "leave
// unchanged".
type UpdateInput struct {
	Title  *string   `json:"title"`
	Status *string   `json:"status"`
	Tags   *[]string `json:"tags"`
}

// Update applies a partial update, serialized per job id. The slug is stable
// across title edits.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (Job, error) {
	var updated Job
	err := s.Runner.Do(ctx, MutationKey(id), func(ctx context.Context) error {
		current, err := s.Repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
			}
			current.Title = title
		}
		if input.Status != nil {
			if !validStatus(*input.Status) {
				return fmt.Errorf("%w: status must be active, draft or archived", ErrInvalidInput)
			}
			current.Status = *input.Status
		}
		if input.Tags != nil {
			current.Tags = *input.Tags
		}
		current.UpdatedAt = s.Now()
		updated, err = s.Repo.Update(ctx, current)
		return err
	})
	if err != nil {
		return Job{}, err
	}
	return updated, nil
}

// Reorder moves a job from one board position to another. The caller's
// fromOrder must match the stored position; a mismatch means the caller acted
// on a stale board and the move is rejected.
func (s *Service) Reorder(ctx context.Context, id int64, fromOrder, toOrder int) (Job, error) {
	if fromOrder < 1 || toOrder < 1 {
		return Job{}, fmt.Errorf("%w: order positions start at 1", ErrInvalidInput)
	}
	var moved Job
	err := s.Runner.Do(ctx, reorderKey, func(ctx context.Context) error {
		current, err := s.Repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Order != fromOrder {
			return fmt.Errorf("%w: job %d is at position %d, not %d", ErrInvalidInput, id, current.Order, fromOrder)
		}
		if fromOrder == toOrder {
			moved = current
			return nil
		}
		if err := s.Repo.Reorder(ctx, id, fromOrder, toOrder); err != nil {
			return err
		}
		moved, err = s.Repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return Job{}, err
	}
	return moved, nil
}

// Get returns a single job.
func (s *Service) Get(ctx context.Context, id int64) (Job, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns one page of jobs. Page and page size are clamped to sane
// values; an unknown sort key falls back to board order.
func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	if q.Status != "" && !validStatus(q.Status) {
		return Page{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, q.Status)
	}
	switch q.Sort {
	case "", "order", "title", "createdAt":
	default:
		q.Sort = "order"
	}

	jobs, total, err := s.Repo.List(ctx, q)
	if err != nil {
		return Page{}, err
	}
	return Page{Jobs: jobs, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

func validStatus(status string) bool {
	return status == StatusActive || status == StatusDraft || status == StatusArchived
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title and collapses non-alphanumeric runs into
// single hyphens.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *Service) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		return "", fmt.Errorf("%w: title must contain letters or digits", ErrInvalidInput)
	}
	slug := base
	for i := 2; ; i++ {
		_, err := s.Repo.GetBySlug(ctx, slug)
		if errors.Is(err, ErrNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
