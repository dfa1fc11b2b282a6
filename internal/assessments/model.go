package assessments

import "time"

// Assessment lifecycle states. A form starts as a draft and becomes active
// when launched.
const (
	StatusDraft  = "draft"
	StatusActive = "active"
)

// Question types accepted by the builder.
const (
	TypeSingleChoice   = "single-choice"
	TypeMultipleChoice = "multiple-choice"
	TypeShortText      = "short-text"
	TypeLongText       = "long-text"
	TypeNumeric        = "numeric"
	TypeYesNo          = "yes-no"
)

// Question is one item in an assessment section. Min and Max bound numeric
// answers; MaxLength bounds text answers. Options apply to choice questions.
type Question struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Prompt    string   `json:"prompt"`
	Options   []string `json:"options,omitempty"`
	Required  bool     `json:"required"`
	Points    int      `json:"points,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MaxLength int      `json:"maxLength,omitempty"`
}

// Section groups questions under a heading.
type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Assessment is the per-job questionnaire. There is at most one per job;
// saving again replaces the stored form. LaunchedAt is nil until the form is
// opened to candidates.
type Assessment struct {
	ID          int64      `json:"id"`
	JobID       int64      `json:"jobId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Sections    []Section  `json:"sections"`
	LaunchedAt  *time.Time `json:"launchedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Response is one candidate's submitted answer set, keyed by question id.
type Response struct {
	ID          int64          `json:"id"`
	JobID       int64          `json:"jobId"`
	CandidateID int64          `json:"candidateId"`
	Answers     map[string]any `json:"answers"`
	SubmittedAt time.Time      `json:"submittedAt"`
}
