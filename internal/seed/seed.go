// Package seed populates an empty database with demo data so the app is
// usable straight after first boot. Seeding runs through the services, so
// candidates get their initial timeline entries the same way real ones do.
package seed

import (
	"context"
	"fmt"

	"talentflow-backend/internal/assessments"
	"talentflow-backend/internal/candidates"
	"talentflow-backend/internal/jobs"
	"talentflow-backend/internal/shared/telemetry"
)

// Seeder writes demo data through the domain services.
type Seeder struct {
	Jobs        *jobs.Service
	Candidates  *candidates.Service
	Assessments *assessments.Service
}

// Run seeds demo jobs, candidates and an assessment, but only when every
// collection is empty. Partially seeded databases are left alone.
func (s *Seeder) Run(ctx context.Context) error {
	empty, err := s.isEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		telemetry.Info("seed.skipped", map[string]any{"reason": "data present"})
		return nil
	}

	jobIDs, err := s.seedJobs(ctx)
	if err != nil {
		return err
	}
	if err := s.seedCandidates(ctx, jobIDs); err != nil {
		return err
	}
	if err := s.seedAssessment(ctx, jobIDs[0]); err != nil {
		return err
	}

	telemetry.Info("seed.complete", map[string]any{"jobs": len(jobIDs)})
	return nil
}

func (s *Seeder) isEmpty(ctx context.Context) (bool, error) {
	page, err := s.Jobs.List(ctx, jobs.ListQuery{PageSize: 1})
	if err != nil {
		return false, fmt.Errorf("seed: count jobs: %w", err)
	}
	if page.Total > 0 {
		return false, nil
	}
	count, err := s.Candidates.Repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: count candidates: %w", err)
	}
	return count == 0, nil
}

func (s *Seeder) seedJobs(ctx context.Context) ([]int64, error) {
	inputs := []jobs.CreateInput{
		{Title: "Senior Backend Engineer", Tags: []string{"go", "postgres", "remote"}},
		{Title: "Frontend Engineer", Tags: []string{"react", "typescript"}},
		{Title: "Product Designer", Status: jobs.StatusDraft, Tags: []string{"figma"}},
		{Title: "Engineering Manager", Tags: []string{"leadership", "remote"}},
	}
	ids := make([]int64, 0, len(inputs))
	for _, input := range inputs {
		job, err := s.Jobs.Create(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("seed: create job %q: %w", input.Title, err)
		}
		ids = append(ids, job.ID)
	}
	return ids, nil
}

func (s *Seeder) seedCandidates(ctx context.Context, jobIDs []int64) error {
	// Stage spellings are deliberately mixed: some legacy display names,
	// some canonical. The pipeline view must bucket them identically.
	inputs := []candidates.CreateInput{
		{Name: "Amara Okafor", Email: "amara.okafor@example.com", Title: "Backend Engineer", Location: "Lagos", Stage: "Applied", Skills: []string{"Go", "PostgreSQL"}},
		{Name: "Jonas Weber", Email: "jonas.weber@example.com", Title: "Backend Engineer", Location: "Berlin", Stage: "screen", Skills: []string{"Go", "Kubernetes"}},
		{Name: "Priya Sharma", Email: "priya.sharma@example.com", Title: "Staff Engineer", Location: "Bangalore", Stage: "Technical", Skills: []string{"Go", "Redis", "gRPC"}},
		{Name: "Lucia Fernandez", Email: "lucia.fernandez@example.com", Title: "Frontend Engineer", Location: "Madrid", Stage: "Interview", Skills: []string{"React", "TypeScript"}},
		{Name: "Tom Becker", Email: "tom.becker@example.com", Title: "Frontend Engineer", Location: "Hamburg", Stage: "offer", Skills: []string{"React", "CSS"}},
		{Name: "Mei Lin", Email: "mei.lin@example.com", Title: "Product Designer", Location: "Singapore", Stage: "hired", Skills: []string{"Figma", "Research"}},
		{Name: "Sam Carter", Email: "sam.carter@example.com", Title: "Engineering Manager", Location: "Austin", Stage: "applied", Skills: []string{"Leadership"}},
	}
	for i, input := range inputs {
		input.JobID = jobIDs[i%len(jobIDs)]
		if _, err := s.Candidates.Create(ctx, input); err != nil {
			return fmt.Errorf("seed: create candidate %q: %w", input.Name, err)
		}
	}
	return nil
}

func (s *Seeder) seedAssessment(ctx context.Context, jobID int64) error {
	min, max := 0.0, 40.0
	form := assessments.SaveInput{
		Title:       "Backend Screening",
		Description: "Initial screen sent to every backend applicant.",
		Sections: []assessments.Section{
			{
				ID:    "background",
				Title: "Background",
				Questions: []assessments.Question{
					{ID: "lang", Type: assessments.TypeSingleChoice, Prompt: "Primary programming language?", Options: []string{"Go", "Python", "Java", "Other"}, Required: true},
					{ID: "years", Type: assessments.TypeNumeric, Prompt: "Years of backend experience?", Min: &min, Max: &max, Required: true},
					{ID: "dbs", Type: assessments.TypeMultipleChoice, Prompt: "Databases used in production?", Options: []string{"PostgreSQL", "MySQL", "Redis", "MongoDB"}},
				},
			},
			{
				ID:    "logistics",
				Title: "Logistics",
				Questions: []assessments.Question{
					{ID: "remote", Type: assessments.TypeYesNo, Prompt: "Comfortable working remotely?"},
					{ID: "notice", Type: assessments.TypeShortText, Prompt: "Notice period?", MaxLength: 100},
				},
			},
		},
	}
	if _, err := s.Assessments.Save(ctx, jobID, form); err != nil {
		return fmt.Errorf("seed: save assessment: %w", err)
	}
	return nil
}
