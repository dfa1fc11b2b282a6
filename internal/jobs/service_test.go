package jobs_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"talentflow-backend/internal/jobs"
	"talentflow-backend/internal/mutate"
)

func newTestService() *jobs.Service {
	return jobs.NewService(jobs.NewMemoryRepo(), mutate.NewRunner())
}

func mustCreate(t *testing.T, svc *jobs.Service, title string) jobs.Job {
	t.Helper()
	job, err := svc.Create(context.Background(), jobs.CreateInput{Title: title})
	if err != nil {
		t.Fatalf("Create(%q): %v", title, err)
	}
	return job
}

func TestCreateAssignsSlugAndOrder(t *testing.T) {
	svc := newTestService()

	first := mustCreate(t, svc, "Senior Backend Engineer")
	if first.Slug != "senior-backend-engineer" {
		t.Fatalf("slug = %q", first.Slug)
	}
	if first.Order != 1 {
		t.Fatalf("order = %d, want 1", first.Order)
	}
	if first.Status != jobs.StatusActive {
		t.Fatalf("status = %q, want active", first.Status)
	}

	second := mustCreate(t, svc, "Product Designer")
	if second.Order != 2 {
		t.Fatalf("second order = %d, want 2", second.Order)
	}
}

func TestCreateDeduplicatesSlug(t *testing.T) {
	svc := newTestService()

	mustCreate(t, svc, "Backend Engineer")
	dup := mustCreate(t, svc, "Backend Engineer")
	if dup.Slug != "backend-engineer-2" {
		t.Fatalf("slug = %q, want backend-engineer-2", dup.Slug)
	}
	third := mustCreate(t, svc, "Backend  Engineer!")
	if third.Slug != "backend-engineer-3" {
		t.Fatalf("slug = %q, want backend-engineer-3", third.Slug)
	}
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Create(context.Background(), jobs.CreateInput{Title: "   "}); !errors.Is(err, jobs.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Create(context.Background(), jobs.CreateInput{Title: "X", Status: "open"}); !errors.Is(err, jobs.ErrInvalidInput) {
		t.Fatalf("unknown status accepted")
	}
}

func TestUpdateKeepsSlugStable(t *testing.T) {
	svc := newTestService()
	job := mustCreate(t, svc, "Backend Engineer")

	title := "Staff Backend Engineer"
	updated, err := svc.Update(context.Background(), job.ID, jobs.UpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("title = %q", updated.Title)
	}
	if updated.Slug != job.Slug {
		t.Fatalf("slug changed on title edit: %q", updated.Slug)
	}
}

func TestUpdateArchives(t *testing.T) {
	svc := newTestService()
	job := mustCreate(t, svc, "Backend Engineer")

	status := jobs.StatusArchived
	updated, err := svc.Update(context.Background(), job.ID, jobs.UpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != jobs.StatusArchived {
		t.Fatalf("status = %q", updated.Status)
	}
}

func TestUpdateUnknownIDFails(t *testing.T) {
	svc := newTestService()
	title := "X"
	if _, err := svc.Update(context.Background(), 99, jobs.UpdateInput{Title: &title}); !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestReorderShiftsDenseSequence(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	var created []jobs.Job
	for i := 1; i <= 5; i++ {
		created = append(created, mustCreate(t, svc, fmt.Sprintf("Job %d", i)))
	}

	// Move the first job to position 4: jobs 2..4 shift down by one.
	moved, err := svc.Reorder(ctx, created[0].ID, 1, 4)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if moved.Order != 4 {
		t.Fatalf("moved order = %d, want 4", moved.Order)
	}

	page, err := svc.List(ctx, jobs.ListQuery{Sort: "order"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	wantTitles := []string{"Job 2", "Job 3", "Job 4", "Job 1", "Job 5"}
	for i, want := range wantTitles {
		if page.Jobs[i].Title != want {
			t.Fatalf("position %d = %q, want %q", i+1, page.Jobs[i].Title, want)
		}
		if page.Jobs[i].Order != i+1 {
			t.Fatalf("order at position %d = %d, sequence no longer dense", i, page.Jobs[i].Order)
		}
	}

	// And back up: jobs between shift the other way.
	if _, err := svc.Reorder(ctx, created[0].ID, 4, 2); err != nil {
		t.Fatalf("Reorder back: %v", err)
	}
	page, _ = svc.List(ctx, jobs.ListQuery{Sort: "order"})
	wantTitles = []string{"Job 2", "Job 1", "Job 3", "Job 4", "Job 5"}
	for i, want := range wantTitles {
		if page.Jobs[i].Title != want {
			t.Fatalf("after return, position %d = %q, want %q", i+1, page.Jobs[i].Title, want)
		}
	}
}

func TestReorderRejectsStaleFromOrder(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	job := mustCreate(t, svc, "Job 1")
	mustCreate(t, svc, "Job 2")

	if _, err := svc.Reorder(ctx, job.ID, 2, 1); !errors.Is(err, jobs.ErrInvalidInput) {
		t.Fatalf("stale fromOrder accepted: %v", err)
	}
	if _, err := svc.Reorder(ctx, job.ID, 0, 1); !errors.Is(err, jobs.ErrInvalidInput) {
		t.Fatalf("zero order accepted: %v", err)
	}
}

func TestReorderNoOpWhenSamePosition(t *testing.T) {
	svc := newTestService()
	job := mustCreate(t, svc, "Job 1")

	moved, err := svc.Reorder(context.Background(), job.ID, 1, 1)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if moved.Order != 1 {
		t.Fatalf("order = %d", moved.Order)
	}
}

func TestListFiltersAndPages(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		mustCreate(t, svc, fmt.Sprintf("Engineer %02d", i))
	}
	archived := jobs.StatusArchived
	page1, _ := svc.List(ctx, jobs.ListQuery{})
	if _, err := svc.Update(ctx, page1.Jobs[0].ID, jobs.UpdateInput{Status: &archived}); err != nil {
		t.Fatalf("archive: %v", err)
	}

	active, err := svc.List(ctx, jobs.ListQuery{Status: jobs.StatusActive})
	if err != nil {
		t.Fatalf("List active: %v", err)
	}
	if active.Total != 11 {
		t.Fatalf("active total = %d, want 11", active.Total)
	}
	if len(active.Jobs) != 10 {
		t.Fatalf("default page size = %d, want 10", len(active.Jobs))
	}

	second, err := svc.List(ctx, jobs.ListQuery{Status: jobs.StatusActive, Page: 2})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(second.Jobs) != 1 {
		t.Fatalf("page 2 size = %d, want 1", len(second.Jobs))
	}
	if second.Page != 2 || second.PageSize != 10 {
		t.Fatalf("page metadata = %d/%d", second.Page, second.PageSize)
	}

	search, err := svc.List(ctx, jobs.ListQuery{Search: "engineer 03"})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if search.Total != 1 {
		t.Fatalf("search total = %d, want 1", search.Total)
	}
}

func TestListUnknownSortFallsBackToOrder(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	mustCreate(t, svc, "B Job")
	mustCreate(t, svc, "A Job")

	page, err := svc.List(ctx, jobs.ListQuery{Sort: "salary"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Jobs[0].Title != "B Job" {
		t.Fatalf("unknown sort did not fall back to board order: %q first", page.Jobs[0].Title)
	}

	byTitle, _ := svc.List(ctx, jobs.ListQuery{Sort: "title"})
	if byTitle.Jobs[0].Title != "A Job" {
		t.Fatalf("title sort broken: %q first", byTitle.Jobs[0].Title)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Senior Backend Engineer": "senior-backend-engineer",
		"  C++ / Go Developer  ":  "c-go-developer",
		"Data  Scientist!!":       "data-scientist",
	}
	for in, want := range cases {
		if got := jobs.Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
