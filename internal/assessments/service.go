package assessments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"talentflow-backend/internal/mutate"
)

// MutationKey is the mutation-runner key for a job's assessment.
func MutationKey(jobID int64) string {
	return fmt.Sprintf("assessment:%d", jobID)
}

// Service implements assessment builder and submission operations.
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

// Get returns the assessment stored for a job.
func (s *Service) Get(ctx context.Context, jobID int64) (Assessment, error) {
	return s.Repo.GetByJobID(ctx, jobID)
}

// SaveInput is the full form sent by the builder. Saving replaces the stored
// assessment wholesale.
type SaveInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Sections    []Section `json:"sections"`
}

// Save validates and upserts the job's assessment. A launched assessment
// keeps its launch timestamp across saves.
func (s *Service) Save(ctx context.Context, jobID int64, input SaveInput) (Assessment, error) {
	if jobID <= 0 {
		return Assessment{}, fmt.Errorf("%w: jobId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Title) == "" {
		return Assessment{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if err := validateSections(input.Sections); err != nil {
		return Assessment{}, err
	}

	var saved Assessment
	err := s.Runner.Do(ctx, MutationKey(jobID), func(ctx context.Context) error {
		now := s.Now()
		next := Assessment{
			JobID:       jobID,
			Title:       strings.TrimSpace(input.Title),
			Description: strings.TrimSpace(input.Description),
			Status:      StatusDraft,
			Sections:    input.Sections,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if existing, err := s.Repo.GetByJobID(ctx, jobID); err == nil {
			next.Status = existing.Status
			next.LaunchedAt = existing.LaunchedAt
		}
		var err error
		saved, err = s.Repo.Upsert(ctx, next)
		return err
	})
	if err != nil {
		return Assessment{}, err
	}
	return saved, nil
}

// Launch opens the assessment to candidates. Launching twice is a no-op that
// keeps the original timestamp.
func (s *Service) Launch(ctx context.Context, jobID int64) (Assessment, error) {
	var launched Assessment
	err := s.Runner.Do(ctx, MutationKey(jobID), func(ctx context.Context) error {
		current, err := s.Repo.GetByJobID(ctx, jobID)
		if err != nil {
			return err
		}
		if current.LaunchedAt != nil {
			launched = current
			return nil
		}
		now := s.Now()
		current.Status = StatusActive
		current.LaunchedAt = &now
		current.UpdatedAt = now
		launched, err = s.Repo.Upsert(ctx, current)
		return err
	})
	if err != nil {
		return Assessment{}, err
	}
	return launched, nil
}

// SubmitInput is one candidate's answer set, keyed by question id.
type SubmitInput struct {
	CandidateID int64          `json:"candidateId"`
	Answers     map[string]any `json:"answers"`
}

// Submit validates the answers against the stored form and records the
// response.
func (s *Service) Submit(ctx context.Context, jobID int64, input SubmitInput) (Response, error) {
	if input.CandidateID <= 0 {
		return Response{}, fmt.Errorf("%w: candidateId is required", ErrInvalidInput)
	}
	assessment, err := s.Repo.GetByJobID(ctx, jobID)
	if err != nil {
		return Response{}, err
	}
	if err := validateAnswers(assessment, input.Answers); err != nil {
		return Response{}, err
	}
	answers := input.Answers
	if answers == nil {
		answers = map[string]any{}
	}
	return s.Repo.CreateResponse(ctx, Response{
		JobID:       jobID,
		CandidateID: input.CandidateID,
		Answers:     answers,
		SubmittedAt: s.Now(),
	})
}

// Responses returns every submission recorded for a job.
func (s *Service) Responses(ctx context.Context, jobID int64) ([]Response, error) {
	if _, err := s.Repo.GetByJobID(ctx, jobID); err != nil {
		return nil, err
	}
	return s.Repo.ResponsesForJob(ctx, jobID)
}

func validateSections(sections []Section) error {
	seen := map[string]bool{}
	for si, section := range sections {
		if strings.TrimSpace(section.Title) == "" {
			return fmt.Errorf("%w: section %d has no title", ErrInvalidInput, si)
		}
		for qi, q := range section.Questions {
			if strings.TrimSpace(q.ID) == "" {
				return fmt.Errorf("%w: question %d in section %q has no id", ErrInvalidInput, qi, section.Title)
			}
			if seen[q.ID] {
				return fmt.Errorf("%w: duplicate question id %q", ErrInvalidInput, q.ID)
			}
			seen[q.ID] = true
			if strings.TrimSpace(q.Prompt) == "" {
				return fmt.Errorf("%w: question %q has no prompt", ErrInvalidInput, q.ID)
			}
			switch q.Type {
			case TypeSingleChoice, TypeMultipleChoice:
				if len(q.Options) < 2 {
					return fmt.Errorf("%w: question %q needs at least two options", ErrInvalidInput, q.ID)
				}
			case TypeShortText, TypeLongText, TypeYesNo:
			case TypeNumeric:
				if q.Min != nil && q.Max != nil && *q.Min > *q.Max {
					return fmt.Errorf("%w: question %q has min above max", ErrInvalidInput, q.ID)
				}
			default:
				return fmt.Errorf("%w: question %q has unknown type %q", ErrInvalidInput, q.ID, q.Type)
			}
		}
	}
	return nil
}

func validateAnswers(assessment Assessment, answers map[string]any) error {
	for _, section := range assessment.Sections {
		for _, q := range section.Questions {
			answer, ok := answers[q.ID]
			if !ok || isEmptyAnswer(answer) {
				if q.Required {
					return fmt.Errorf("%w: question %q requires an answer", ErrInvalidInput, q.ID)
				}
				continue
			}
			if err := validateAnswer(q, answer); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateAnswer(q Question, answer any) error {
	switch q.Type {
	case TypeSingleChoice:
		choice, ok := answer.(string)
		if !ok || !containsOption(q.Options, choice) {
			return fmt.Errorf("%w: question %q answer is not one of its options", ErrInvalidInput, q.ID)
		}
	case TypeMultipleChoice:
		choices, ok := answer.([]any)
		if !ok {
			return fmt.Errorf("%w: question %q expects a list of options", ErrInvalidInput, q.ID)
		}
		for _, raw := range choices {
			choice, ok := raw.(string)
			if !ok || !containsOption(q.Options, choice) {
				return fmt.Errorf("%w: question %q answer contains an unknown option", ErrInvalidInput, q.ID)
			}
		}
	case TypeNumeric:
		value, ok := answer.(float64)
		if !ok {
			return fmt.Errorf("%w: question %q expects a number", ErrInvalidInput, q.ID)
		}
		if q.Min != nil && value < *q.Min {
			return fmt.Errorf("%w: question %q answer is below %v", ErrInvalidInput, q.ID, *q.Min)
		}
		if q.Max != nil && value > *q.Max {
			return fmt.Errorf("%w: question %q answer is above %v", ErrInvalidInput, q.ID, *q.Max)
		}
	case TypeShortText, TypeLongText:
		text, ok := answer.(string)
		if !ok {
			return fmt.Errorf("%w: question %q expects text", ErrInvalidInput, q.ID)
		}
		if q.MaxLength > 0 && len(text) > q.MaxLength {
			return fmt.Errorf("%w: question %q answer exceeds %d characters", ErrInvalidInput, q.ID, q.MaxLength)
		}
	case TypeYesNo:
		switch v := answer.(type) {
		case bool:
		case string:
			if v != "yes" && v != "no" {
				return fmt.Errorf("%w: question %q expects yes or no", ErrInvalidInput, q.ID)
			}
		default:
			return fmt.Errorf("%w: question %q expects yes or no", ErrInvalidInput, q.ID)
		}
	}
	return nil
}

func isEmptyAnswer(answer any) bool {
	switch v := answer.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	default:
		return false
	}
}

func containsOption(options []string, choice string) bool {
	for _, opt := range options {
		if opt == choice {
			return true
		}
	}
	return false
}
