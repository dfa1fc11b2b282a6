package candidates

import "time"

// Candidate statuses. Stage values live in the stage package; the Stage field
// here stores the raw value, which may be legacy-cased.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Candidate represents an applicant attached to a job.
type Candidate struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone,omitempty"`
	Location   string       `json:"location,omitempty"`
	Title      string       `json:"title,omitempty"`
	JobID      int64        `json:"jobId"`
	Stage      string       `json:"stage"`
	Status     string       `json:"status"`
	Skills     []string     `json:"skills,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	Education  []Education  `json:"education,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// Experience is one free-form work history entry.
type Experience struct {
	Company string `json:"company"`
	Role    string `json:"role"`
	Years   string `json:"years,omitempty"`
}

// Education is one free-form education entry.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year,omitempty"`
}

// TimelineEntry is an immutable audit record of a stage transition. FromStage
// is nil only for the entry written at candidate creation.
type TimelineEntry struct {
	ID          int64     `json:"id"`
	CandidateID int64     `json:"candidateId"`
	FromStage   *string   `json:"fromStage"`
	ToStage     string    `json:"toStage"`
	Timestamp   time.Time `json:"timestamp"`
	Notes       string    `json:"notes,omitempty"`
}

// Stats aggregates candidate counts for the dashboard.
type Stats struct {
	Total              int            `json:"total"`
	ByStage            map[string]int `json:"byStage"`
	ByJobID            map[int64]int  `json:"byJobId"`
	ByStatus           map[string]int `json:"byStatus"`
	RecentApplications int            `json:"recentApplications"`
}
