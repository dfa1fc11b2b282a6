package candidates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"talentflow-backend/internal/events"
	"talentflow-backend/internal/mutate"
	"talentflow-backend/internal/shared/cache"
	"talentflow-backend/internal/shared/telemetry"
	"talentflow-backend/internal/stage"
)

const (
	// DefaultStage is assigned to candidates created without a stage.
	DefaultStage = "applied"

	statsCacheKey = "candidates:stats"
	statsCacheTTL = 30 * time.Second

	recentWindow = 7 * 24 * time.Hour
)

// MutationKey is the mutate.Runner key serializing writes for one candidate.
func MutationKey(id int64) string {
	return fmt.Sprintf("candidate:%d", id)
}

// Service owns candidate business logic: CRUD, stage transitions and the
// timeline audit log that must stay consistent with them.
type Service struct {
	Repo   Repo
	Runner *mutate.Runner
	Events events.Publisher
	Cache  cache.Cache
	Now    func() time.Time
}

func NewService(repo Repo, runner *mutate.Runner, publisher events.Publisher, c cache.Cache) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		Repo:   repo,
		Runner: runner,
		Events: publisher,
		Cache:  c,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateInput carries the fields accepted on candidate creation.
type CreateInput struct {
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Location   string       `json:"location"`
	Title      string       `json:"title"`
	JobID      int64        `json:"jobId"`
	Stage      string       `json:"stage"`
	Status     string       `json:"status"`
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
}

// Create validates input, persists the candidate and writes the initial
// timeline entry (fromStage is always nil there).
func (s *Service) Create(ctx context.Context, input CreateInput) (Candidate, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Candidate{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Email) == "" {
		return Candidate{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.JobID <= 0 {
		return Candidate{}, fmt.Errorf("%w: jobId is required", ErrInvalidInput)
	}

	now := s.Now()
	candidate := Candidate{
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.TrimSpace(input.Email),
		Phone:      strings.TrimSpace(input.Phone),
		Location:   strings.TrimSpace(input.Location),
		Title:      strings.TrimSpace(input.Title),
		JobID:      input.JobID,
		Stage:      input.Stage,
		Status:     input.Status,
		Skills:     input.Skills,
		Experience: input.Experience,
		Education:  input.Education,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if candidate.Stage == "" {
		candidate.Stage = DefaultStage
	}
	if candidate.Status == "" {
		candidate.Status = StatusActive
	}

	created, err := s.Repo.Create(ctx, candidate)
	if err != nil {
		return Candidate{}, err
	}

	if _, err := s.Repo.AppendTimeline(ctx, TimelineEntry{
		CandidateID: created.ID,
		FromStage:   nil,
		ToStage:     created.Stage,
		Timestamp:   now,
		Notes:       "Candidate application received",
	}); err != nil {
		return Candidate{}, fmt.Errorf("append initial timeline entry: %w", err)
	}

	s.invalidateStats(ctx)
	return created, nil
}

// UpdateInput carries a partial candidate update. Nil pointers mean "leave
// unchanged". StageChangeNotes is consumed by the timeline entry and never
// persisted on the candidate itself.
type UpdateInput struct {
	Name             *string       `json:"name"`
	Email            *string       `json:"email"`
	Phone            *string       `json:"phone"`
	Location         *string       `json:"location"`
	Title            *string       `json:"title"`
	JobID            *int64        `json:"jobId"`
	Stage            *string       `json:"stage"`
	Status           *string       `json:"status"`
	Skills           *[]string     `json:"skills"`
	Experience       *[]Experience `json:"experience"`
	Education        *[]Education  `json:"education"`
	StageChangeNotes string        `json:"stageChangeNotes"`
}

// Update applies a partial update, serialized per candidate id. A stage value
// whose canonical bucket differs from the stored one appends exactly one
// timeline entry and publishes a stage-change event; a raw-only change (for
// example "Applied" to "applied") appends nothing.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (Candidate, error) {
	var updated Candidate
	err := s.Runner.Do(ctx, MutationKey(id), func(ctx context.Context) error {
		var err error
		updated, err = s.applyUpdate(ctx, id, input)
		return err
	})
	return updated, err
}

func (s *Service) applyUpdate(ctx context.Context, id int64, input UpdateInput) (Candidate, error) {
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Candidate{}, err
	}

	now := s.Now()
	next := current
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return Candidate{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		next.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		if strings.TrimSpace(*input.Email) == "" {
			return Candidate{}, fmt.Errorf("%w: email cannot be empty", ErrInvalidInput)
		}
		next.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		next.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Location != nil {
		next.Location = strings.TrimSpace(*input.Location)
	}
	if input.Title != nil {
		next.Title = strings.TrimSpace(*input.Title)
	}
	if input.JobID != nil {
		next.JobID = *input.JobID
	}
	if input.Status != nil {
		next.Status = *input.Status
	}
	if input.Skills != nil {
		next.Skills = *input.Skills
	}
	if input.Experience != nil {
		next.Experience = *input.Experience
	}
	if input.Education != nil {
		next.Education = *input.Education
	}

	var transition *TimelineEntry
	if input.Stage != nil && *input.Stage != "" {
		next.Stage = *input.Stage
		if stage.Normalize(*input.Stage) != stage.Normalize(current.Stage) {
			notes := input.StageChangeNotes
			if notes == "" {
				notes = fmt.Sprintf("Stage changed from %s to %s", current.Stage, *input.Stage)
			}
			from := current.Stage
			transition = &TimelineEntry{
				CandidateID: id,
				FromStage:   &from,
				ToStage:     *input.Stage,
				Timestamp:   now,
				Notes:       notes,
			}
		}
	}

	next.UpdatedAt = now

	updated, err := s.Repo.Update(ctx, next)
	if err != nil {
		return Candidate{}, err
	}

	// Appended only after the row write lands, so a failed update cannot
	// leave a transition entry for a move that never happened.
	if transition != nil {
		if _, err := s.Repo.AppendTimeline(ctx, *transition); err != nil {
			return Candidate{}, fmt.Errorf("append timeline entry: %w", err)
		}
	}

	if transition != nil {
		s.Events.PublishStageChanged(ctx, events.StageChanged{
			CandidateID: id,
			FromStage:   *transition.FromStage,
			ToStage:     transition.ToStage,
			Notes:       transition.Notes,
			OccurredAt:  now,
		})
		telemetry.Info("candidate.stage_changed", map[string]any{
			"candidate_id": id,
			"from":         *transition.FromStage,
			"to":           transition.ToStage,
		})
	}

	s.invalidateStats(ctx)
	return updated, nil
}

// Delete removes a candidate and all of its timeline entries. Deleting an
// unknown id returns ErrNotFound.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.Runner.Do(ctx, MutationKey(id), func(ctx context.Context) error {
		if _, err := s.Repo.GetByID(ctx, id); err != nil {
			return err
		}
		if err := s.Repo.DeleteTimelineFor(ctx, id); err != nil {
			return fmt.Errorf("delete timeline entries: %w", err)
		}
		if err := s.Repo.Delete(ctx, id); err != nil {
			return err
		}
		s.invalidateStats(ctx)
		return nil
	})
}

// BulkResult is the per-candidate outcome of a bulk update.
type BulkResult struct {
	ID      int64      `json:"id"`
	Success bool       `json:"success"`
	Data    *Candidate `json:"data,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// BulkUpdate applies the same update to every id, collecting per-id outcomes.
// A failure on one candidate never aborts the rest of the batch.
func (s *Service) BulkUpdate(ctx context.Context, ids []int64, input UpdateInput) []BulkResult {
	results := make([]BulkResult, 0, len(ids))
	for _, id := range ids {
		updated, err := s.Update(ctx, id, input)
		if err != nil {
			results = append(results, BulkResult{ID: id, Success: false, Error: err.Error()})
			continue
		}
		c := updated
		results = append(results, BulkResult{ID: id, Success: true, Data: &c})
	}
	return results
}

// MoveToNextStage advances a candidate along the recruiting sequence. It
// fails with stage.ErrFinalStage when currentStage is the last stage and
// stage.ErrUnknownStage when currentStage is not part of the sequence.
func (s *Service) MoveToNextStage(ctx context.Context, id int64, currentStage, notes string) (Candidate, error) {
	next, err := stage.Next(currentStage)
	if err != nil {
		return Candidate{}, err
	}
	if notes == "" {
		notes = fmt.Sprintf("Moved from %s to %s", currentStage, next)
	}
	return s.Update(ctx, id, UpdateInput{Stage: &next, StageChangeNotes: notes})
}

// Get returns a single candidate.
func (s *Service) Get(ctx context.Context, id int64) (Candidate, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns candidates matching the filter. The stage filter buckets by
// canonical stage so "tech" matches "Technical", "Interview" and "Final".
func (s *Service) List(ctx context.Context, filter Filter, stageFilter string) ([]Candidate, error) {
	all, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if stageFilter == "" {
		return all, nil
	}
	want := stage.Normalize(stageFilter)
	out := make([]Candidate, 0, len(all))
	for _, c := range all {
		if stage.Normalize(c.Stage) == want {
			out = append(out, c)
		}
	}
	return out, nil
}

// Timeline returns the audit log for a candidate in append order.
func (s *Service) Timeline(ctx context.Context, id int64) ([]TimelineEntry, error) {
	if _, err := s.Repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.Repo.TimelineFor(ctx, id)
}

// Stats aggregates candidate counts, cached briefly and invalidated by every
// candidate mutation.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if s.Cache != nil {
		var cached Stats
		if err := s.Cache.GetJSON(ctx, statsCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			telemetry.Warn("candidates.stats_cache_read", map[string]any{"error": err.Error()})
		}
	}

	all, err := s.Repo.List(ctx, Filter{})
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Total:    len(all),
		ByStage:  make(map[string]int),
		ByJobID:  make(map[int64]int),
		ByStatus: make(map[string]int),
	}
	cutoff := s.Now().Add(-recentWindow)
	for _, c := range all {
		stats.ByStage[string(stage.Normalize(c.Stage))]++
		stats.ByJobID[c.JobID]++
		stats.ByStatus[c.Status]++
		if c.CreatedAt.After(cutoff) {
			stats.RecentApplications++
		}
	}

	if s.Cache != nil {
		if err := s.Cache.SetJSON(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
			telemetry.Warn("candidates.stats_cache_write", map[string]any{"error": err.Error()})
		}
	}
	return stats, nil
}

func (s *Service) invalidateStats(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, statsCacheKey); err != nil {
		telemetry.Warn("candidates.stats_cache_invalidate", map[string]any{"error": err.Error()})
	}
}
