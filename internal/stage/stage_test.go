package stage_test

import (
	"errors"
	"testing"

	"talentflow-backend/internal/stage"
)

func TestNormalizeLegacyValues(t *testing.T) {
	cases := map[string]stage.Canonical{
		"Applied":   stage.Applied,
		"applied":   stage.Applied,
		"Screening": stage.Screen,
		"screen":    stage.Screen,
		"Technical": stage.Tech,
		"tech":      stage.Tech,
		"Interview": stage.Tech,
		"Final":     stage.Tech,
		"Offer":     stage.Offer,
		"offer":     stage.Offer,
		"Hired":     stage.Hired,
		"hired":     stage.Hired,
		"Rejected":  stage.Applied,
		"Withdrawn": stage.Applied,
	}
	for raw, want := range cases {
		if got := stage.Normalize(raw); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeMappedValuesAreCanonical(t *testing.T) {
	for _, raw := range []string{"Applied", "Screening", "Technical", "Interview", "Final", "Offer", "Hired", "Rejected", "Withdrawn"} {
		if !stage.IsCanonical(stage.Normalize(raw)) {
			t.Errorf("Normalize(%q) = %q is not canonical", raw, stage.Normalize(raw))
		}
	}
}

func TestNormalizeUnmappedFallsBackToLower(t *testing.T) {
	if got := stage.Normalize("Onboarding"); got != stage.Canonical("onboarding") {
		t.Errorf("Normalize(Onboarding) = %q, want onboarding", got)
	}
}

func TestNextWalksTheSequence(t *testing.T) {
	cases := []struct{ from, to string }{
		{"Applied", "Screening"},
		{"Screening", "Technical"},
		{"Technical", "Interview"},
		{"Interview", "Final"},
		{"Final", "Offer"},
		{"Offer", "Hired"},
	}
	for _, c := range cases {
		got, err := stage.Next(c.from)
		if err != nil {
			t.Fatalf("Next(%q): %v", c.from, err)
		}
		if got != c.to {
			t.Errorf("Next(%q) = %q, want %q", c.from, got, c.to)
		}
	}
}

func TestNextFromHiredFails(t *testing.T) {
	_, err := stage.Next("Hired")
	if !errors.Is(err, stage.ErrFinalStage) {
		t.Fatalf("Next(Hired) error = %v, want ErrFinalStage", err)
	}
}

func TestNextUnknownStageFails(t *testing.T) {
	_, err := stage.Next("screen")
	if !errors.Is(err, stage.ErrUnknownStage) {
		t.Fatalf("Next(screen) error = %v, want ErrUnknownStage", err)
	}
}

func TestDefinitionsMatchCanonicalSet(t *testing.T) {
	defs := stage.Definitions()
	if len(defs) != 5 {
		t.Fatalf("expected 5 board columns, got %d", len(defs))
	}
	want := []stage.Canonical{stage.Applied, stage.Screen, stage.Tech, stage.Offer, stage.Hired}
	for i, def := range defs {
		if def.Name != want[i] {
			t.Errorf("column %d = %q, want %q", i, def.Name, want[i])
		}
	}
}
