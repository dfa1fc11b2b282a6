// Package events publishes domain events for other systems to consume.
// Publishing is best effort: a failed publish is logged, never surfaced to
// the caller, and never rolls back the mutation that produced it.
package events

import (
	"context"
	"time"
)

// StageChanged describes a candidate moving between pipeline stages.
type StageChanged struct {
	CandidateID int64     `json:"candidateId"`
	FromStage   string    `json:"fromStage"`
	ToStage     string    `json:"toStage"`
	Notes       string    `json:"notes,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Publisher emits domain events.
type Publisher interface {
	PublishStageChanged(ctx context.Context, event StageChanged)
}

// Noop drops all events. Used when Redis is not configured.
type Noop struct{}

func (Noop) PublishStageChanged(ctx context.Context, event StageChanged) {}

var _ Publisher = Noop{}
