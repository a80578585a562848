package store

import (
	"context"

	"github.com/localhostd3veloper/faultline.ai/internal/model"
)

// TransitionOpts carries the optional fields merged into a job record on a
// state transition. Nil fields leave the stored value untouched; previously
// set fields are never removed, only overwritten.
type TransitionOpts struct {
	Progress *string
	Result   *model.AnalysisReport
	Markdown *string
	Error    *string
}

// JobStore is the durable record of job identity, lifecycle state, progress
// and final result, bounded by a hard TTL from creation. The orchestrator is
// the sole writer; any number of readers may poll concurrently and always
// observe a complete record.
type JobStore interface {
	// Create persists a new job record and starts its TTL. Fails with
	// ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, job *model.Job) error

	// Transition merges state and opts into the existing record without
	// resetting its TTL. Returns ErrNotFound if the record is gone and
	// ErrTerminalState if it already completed or failed.
	Transition(ctx context.Context, id string, state model.JobState, opts TransitionOpts) (*model.Job, error)

	// Get returns the record, or ErrNotFound after expiry; callers must
	// treat that as ambiguous between "never existed" and "expired".
	Get(ctx context.Context, id string) (*model.Job, error)

	// List returns summaries of all live jobs, newest first. Entries past
	// their TTL are silently absent.
	List(ctx context.Context) ([]model.JobSummary, error)
}

// ResultCache maps a content fingerprint to a previously computed report.
// Entries are written once after a fully successful run and are read-only
// until TTL expiry; there is no update or delete.
type ResultCache interface {
	Get(ctx context.Context, fp string) (*model.CacheEntry, error)
	Put(ctx context.Context, fp string, entry *model.CacheEntry) error
}

// FeedbackStore keeps caller feedback per job, expiring with the job window.
type FeedbackStore interface {
	Append(ctx context.Context, fb *model.Feedback) error
	ListForJob(ctx context.Context, jobID string) ([]model.Feedback, error)
}
