package model

import "time"

type JobState string

const (
	JobStateQueued    JobState = "queued"
	JobStateRunning   JobState = "running"
	JobStateCompleted JobState = "completed"
	JobStateFailed    JobState = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s JobState) Terminal() bool {
	return s == JobStateCompleted || s == JobStateFailed
}

type ContentKind string

const (
	ContentKindMarkdown     ContentKind = "markdown"
	ContentKindOpenAPIJSON  ContentKind = "openapi-json"
	ContentKindOpenAPIYAML  ContentKind = "openapi-yaml"
	ContentKindArchitecture ContentKind = "architecture"
)

func (k ContentKind) Valid() bool {
	switch k {
	case ContentKindMarkdown, ContentKindOpenAPIJSON, ContentKindOpenAPIYAML, ContentKindArchitecture:
		return true
	}
	return false
}

// Job is one tracked execution of the analysis pipeline. The record lives in
// the job store under a hard TTL; after expiry it reads as not found, which
// callers cannot distinguish from a job that never existed.
type Job struct {
	ID          string            `json:"job_id"`
	State       JobState          `json:"status"`
	Progress    string            `json:"progress_hints,omitempty"`
	Fingerprint string            `json:"content_hash"`
	ContentKind ContentKind       `json:"content_kind"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Result      *AnalysisReport   `json:"result,omitempty"`
	Markdown    string            `json:"markdown,omitempty"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// JobSummary is the lightweight listing projection of a job record.
type JobSummary struct {
	ID        string    `json:"job_id"`
	State     JobState  `json:"status"`
	Progress  string    `json:"progress_hints,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Feedback is a caller's verdict on a delivered report.
type Feedback struct {
	JobID     string    `json:"job_id"`
	IsUseful  bool      `json:"is_useful"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
