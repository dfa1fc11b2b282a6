// Package stage defines the candidate pipeline stages.
//
// Candidates carry a raw stage string that may be a canonical value or one of
// several legacy spellings accumulated over time ("Applied", "Screening",
// "Technical", ...). Every place that buckets candidates by stage must go
// through Normalize so the whole application agrees on the five board columns:
//
//	applied ──► screen ──► tech ──► offer ──► hired
//
// The full recruiting sequence used by MoveToNextStage is longer
// (Applied → Screening → Technical → Interview → Final → Offer → Hired);
// Interview and Final collapse into the tech column for display.
package stage

import (
	"fmt"
	"strings"
)

// Canonical is one of the five normalized pipeline buckets.
type Canonical string

const (
	Applied Canonical = "applied"
	Screen  Canonical = "screen"
	Tech    Canonical = "tech"
	Offer   Canonical = "offer"
	Hired   Canonical = "hired"
)

// ErrFinalStage is returned when a candidate already sits in the last stage.
var ErrFinalStage = fmt.Errorf("candidate is already at the final stage")

// ErrUnknownStage is returned when a raw stage value is not part of Sequence.
var ErrUnknownStage = fmt.Errorf("unknown stage")

// normalizeMap folds every raw stage value stored by earlier versions of the
// app onto a canonical bucket. Rejected and Withdrawn deliberately land in
// applied: the board has no terminal columns.
var normalizeMap = map[string]Canonical{
	"Applied":   Applied,
	"applied":   Applied,
	"Screening": Screen,
	"screen":    Screen,
	"Technical": Tech,
	"tech":      Tech,
	"Interview": Tech,
	"Final":     Tech,
	"Offer":     Offer,
	"offer":     Offer,
	"Hired":     Hired,
	"hired":     Hired,
	"Rejected":  Applied,
	"Withdrawn": Applied,
}

// Normalize maps a raw stage value onto its canonical bucket. Unmapped input
// falls back to its lowercase form so a future stage degrades to its own
// column rather than disappearing.
func Normalize(raw string) Canonical {
	if c, ok := normalizeMap[raw]; ok {
		return c
	}
	return Canonical(strings.ToLower(raw))
}

// IsCanonical reports whether c is one of the five board buckets.
func IsCanonical(c Canonical) bool {
	switch c {
	case Applied, Screen, Tech, Offer, Hired:
		return true
	}
	return false
}

// Sequence is the ordered recruiting pipeline used for advancing candidates.
var Sequence = []string{"Applied", "Screening", "Technical", "Interview", "Final", "Offer", "Hired"}

// Next returns the stage following current in Sequence. It returns
// ErrFinalStage when current is the last entry and ErrUnknownStage when
// current does not appear in Sequence at all.
func Next(current string) (string, error) {
	for i, s := range Sequence {
		if s != current {
			continue
		}
		if i == len(Sequence)-1 {
			return "", ErrFinalStage
		}
		return Sequence[i+1], nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownStage, current)
}

// Definition describes one kanban column.
type Definition struct {
	Name        Canonical `json:"name"`
	DisplayName string    `json:"displayName"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
}

// Definitions returns the board columns in display order.
func Definitions() []Definition {
	return []Definition{
		{Name: Applied, DisplayName: "Applied", Color: "indigo", Description: "New applications"},
		{Name: Screen, DisplayName: "Screening", Color: "amber", Description: "Initial review"},
		{Name: Tech, DisplayName: "Technical", Color: "violet", Description: "Technical assessment"},
		{Name: Offer, DisplayName: "Offer", Color: "orange", Description: "Offer extended"},
		{Name: Hired, DisplayName: "Hired", Color: "emerald", Description: "Successfully hired"},
	}
}
