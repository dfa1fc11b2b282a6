package assessments_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"talentflow-backend/internal/assessments"
	"talentflow-backend/internal/mutate"
)

func newTestService() *assessments.Service {
	return assessments.NewService(assessments.NewMemoryRepo(), mutate.NewRunner())
}

func floatPtr(f float64) *float64 { return &f }

func sampleForm() assessments.SaveInput {
	return assessments.SaveInput{
		Title: "Backend Screen",
		Sections: []assessments.Section{
			{
				ID:    "s1",
				Title: "Experience",
				Questions: []assessments.Question{
					{ID: "q1", Type: assessments.TypeSingleChoice, Prompt: "Primary language?", Options: []string{"Go", "Python", "Java"}, Required: true},
					{ID: "q2", Type: assessments.TypeNumeric, Prompt: "Years of experience?", Min: floatPtr(0), Max: floatPtr(40), Required: true},
					{ID: "q3", Type: assessments.TypeShortText, Prompt: "Current company?", MaxLength: 50},
					{ID: "q4", Type: assessments.TypeMultipleChoice, Prompt: "Databases used?", Options: []string{"Postgres", "MySQL", "Redis"}},
					{ID: "q5", Type: assessments.TypeYesNo, Prompt: "Open to relocation?"},
				},
			},
		},
	}
}

func validAnswers() map[string]any {
	return map[string]any{
		"q1": "Go",
		"q2": float64(5),
	}
}

func TestSaveUpsertsByJob(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Save(ctx, 1, sampleForm())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	form := sampleForm()
	form.Title = "Backend Screen v2"
	second, err := svc.Save(ctx, 1, form)
	if err != nil {
		t.Fatalf("Save again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second save created a new assessment: %d != %d", second.ID, first.ID)
	}
	if second.Title != "Backend Screen v2" {
		t.Fatalf("title = %q", second.Title)
	}

	got, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Backend Screen v2" {
		t.Fatalf("stored title = %q", got.Title)
	}
}

func TestSaveValidatesForm(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	cases := []struct {
		name  string
		mutFn func(*assessments.SaveInput)
	}{
		{"empty title", func(in *assessments.SaveInput) { in.Title = "  " }},
		{"question without id", func(in *assessments.SaveInput) { in.Sections[0].Questions[0].ID = "" }},
		{"duplicate question ids", func(in *assessments.SaveInput) { in.Sections[0].Questions[1].ID = "q1" }},
		{"choice without options", func(in *assessments.SaveInput) { in.Sections[0].Questions[0].Options = nil }},
		{"unknown question type", func(in *assessments.SaveInput) { in.Sections[0].Questions[0].Type = "slider" }},
		{"numeric min above max", func(in *assessments.SaveInput) {
			in.Sections[0].Questions[1].Min = floatPtr(10)
			in.Sections[0].Questions[1].Max = floatPtr(1)
		}},
	}
	for _, tc := range cases {
		form := sampleForm()
		tc.mutFn(&form)
		if _, err := svc.Save(ctx, 1, form); !errors.Is(err, assessments.ErrInvalidInput) {
			t.Errorf("%s: error = %v, want ErrInvalidInput", tc.name, err)
		}
	}
}

func TestSaveStartsAsDraftAndLaunchActivates(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	form := sampleForm()
	form.Description = "Screening form for backend applicants"
	saved, err := svc.Save(ctx, 1, form)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Status != assessments.StatusDraft {
		t.Fatalf("status = %q, want %q", saved.Status, assessments.StatusDraft)
	}
	if saved.Description != "Screening form for backend applicants" {
		t.Fatalf("description = %q", saved.Description)
	}

	launched, err := svc.Launch(ctx, 1)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if launched.Status != assessments.StatusActive {
		t.Fatalf("status after launch = %q, want %q", launched.Status, assessments.StatusActive)
	}

	// Editing an active form keeps it active.
	resaved, err := svc.Save(ctx, 1, form)
	if err != nil {
		t.Fatalf("Save after launch: %v", err)
	}
	if resaved.Status != assessments.StatusActive {
		t.Fatalf("status after resave = %q, want %q", resaved.Status, assessments.StatusActive)
	}
}

func TestLaunchSetsTimestampOnce(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	base := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return base }

	if _, err := svc.Save(ctx, 1, sampleForm()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	launched, err := svc.Launch(ctx, 1)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if launched.LaunchedAt == nil || !launched.LaunchedAt.Equal(base) {
		t.Fatalf("launchedAt = %v", launched.LaunchedAt)
	}

	svc.Now = func() time.Time { return base.Add(time.Hour) }
	again, err := svc.Launch(ctx, 1)
	if err != nil {
		t.Fatalf("Launch again: %v", err)
	}
	if !again.LaunchedAt.Equal(base) {
		t.Fatalf("second launch moved the timestamp: %v", again.LaunchedAt)
	}

	// Saving after launch keeps the launch timestamp.
	saved, err := svc.Save(ctx, 1, sampleForm())
	if err != nil {
		t.Fatalf("Save after launch: %v", err)
	}
	if saved.LaunchedAt == nil || !saved.LaunchedAt.Equal(base) {
		t.Fatalf("save dropped launchedAt: %v", saved.LaunchedAt)
	}
}

func TestSubmitRecordsResponse(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Save(ctx, 1, sampleForm()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	response, err := svc.Submit(ctx, 1, assessments.SubmitInput{CandidateID: 7, Answers: validAnswers()})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if response.ID == 0 || response.CandidateID != 7 {
		t.Fatalf("response = %+v", response)
	}

	responses, err := svc.Responses(ctx, 1)
	if err != nil {
		t.Fatalf("Responses: %v", err)
	}
	if len(responses) != 1 {
		t.Fatalf("responses = %d, want 1", len(responses))
	}
}

func TestSubmitValidatesAnswers(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Save(ctx, 1, sampleForm()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cases := []struct {
		name    string
		answers map[string]any
	}{
		{"missing required", map[string]any{"q1": "Go"}},
		{"empty required", map[string]any{"q1": "  ", "q2": float64(5)}},
		{"unknown option", map[string]any{"q1": "Rust", "q2": float64(5)}},
		{"numeric below min", map[string]any{"q1": "Go", "q2": float64(-1)}},
		{"numeric above max", map[string]any{"q1": "Go", "q2": float64(41)}},
		{"numeric wrong type", map[string]any{"q1": "Go", "q2": "five"}},
		{"text too long", map[string]any{"q1": "Go", "q2": float64(5), "q3": string(make([]byte, 51))}},
		{"multi unknown option", map[string]any{"q1": "Go", "q2": float64(5), "q4": []any{"Postgres", "Mongo"}}},
		{"yes-no wrong value", map[string]any{"q1": "Go", "q2": float64(5), "q5": "maybe"}},
	}
	for _, tc := range cases {
		if _, err := svc.Submit(ctx, 1, assessments.SubmitInput{CandidateID: 7, Answers: tc.answers}); !errors.Is(err, assessments.ErrInvalidInput) {
			t.Errorf("%s: error = %v, want ErrInvalidInput", tc.name, err)
		}
	}

	// Optional questions may be omitted or answered in any valid form.
	answers := validAnswers()
	answers["q4"] = []any{"Postgres", "Redis"}
	answers["q5"] = true
	if _, err := svc.Submit(ctx, 1, assessments.SubmitInput{CandidateID: 7, Answers: answers}); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}
}

func TestSubmitUnknownJobFails(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Submit(context.Background(), 99, assessments.SubmitInput{CandidateID: 1, Answers: validAnswers()}); !errors.Is(err, assessments.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}
