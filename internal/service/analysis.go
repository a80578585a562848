package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/localhostd3veloper/faultline.ai/common/logger"
	"github.com/localhostd3veloper/faultline.ai/internal/fingerprint"
	"github.com/localhostd3veloper/faultline.ai/internal/heuristics"
	"github.com/localhostd3veloper/faultline.ai/internal/metrics"
	"github.com/localhostd3veloper/faultline.ai/internal/model"
	"github.com/localhostd3veloper/faultline.ai/internal/normalize"
	"github.com/localhostd3veloper/faultline.ai/internal/store"
	"github.com/localhostd3veloper/faultline.ai/internal/synthesis"
)

// Progress annotations written at each pipeline transition.
const (
	progressQueued       = "Job queued"
	progressNormalizing  = "normalizing"
	progressEvaluating   = "evaluating heuristics"
	progressSynthesizing = "synthesizing"
	progressComplete     = "Analysis complete"
	progressCached       = "Result served from cache"
)

// transitionAttempts bounds retries when a transition cannot be persisted.
// After the last attempt the job stays in its last written state; the
// failure is logged, never swallowed.
const (
	transitionAttempts = 3
	transitionBackoff  = 200 * time.Millisecond
)

// AnalysisService orchestrates analysis jobs: it owns submission,
// cache-aware scheduling, pipeline execution and all job queries.
type AnalysisService interface {
	// Submit validates and fingerprints content, then either serves a
	// cached result as an immediately completed job or schedules the
	// pipeline and returns the queued job without waiting for it.
	Submit(ctx context.Context, content string, kind model.ContentKind, metadata map[string]string) (*model.Job, error)

	// Status returns the current record, or store.ErrNotFound for unknown
	// or expired ids (indistinguishable by design).
	Status(ctx context.Context, id string) (*model.Job, error)

	// Result returns the job once terminal. For queued/running jobs it
	// returns the job together with ErrResultNotReady. Failed jobs are
	// returned normally, carrying their error text.
	Result(ctx context.Context, id string) (*model.Job, error)

	// List returns live job summaries, newest first. Entries past the TTL
	// window are silently absent.
	List(ctx context.Context) ([]model.JobSummary, error)
}

type analysisService struct {
	jobs            store.JobStore
	cache           store.ResultCache
	synth           synthesis.Synthesizer
	caps            normalize.Caps
	maxContentBytes int

	// slots caps concurrently running pipelines. Submissions beyond the
	// cap stay queued until a slot frees; the caller's handle is returned
	// immediately either way.
	slots chan struct{}
}

func NewAnalysisService(jobs store.JobStore, cache store.ResultCache, synth synthesis.Synthesizer, caps normalize.Caps, maxContentBytes, maxConcurrent int) AnalysisService {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &analysisService{
		jobs:            jobs,
		cache:           cache,
		synth:           synth,
		caps:            caps,
		maxContentBytes: maxContentBytes,
		slots:           make(chan struct{}, maxConcurrent),
	}
}

func (s *analysisService) Submit(ctx context.Context, content string, kind model.ContentKind, metadata map[string]string) (*model.Job, error) {
	if !kind.Valid() {
		return nil, ErrInvalidContentKind
	}
	if len(content) > s.maxContentBytes {
		// Request-time rejection: no job record, no background work.
		return nil, ErrContentTooLarge
	}

	fp := fingerprint.Compute([]byte(content))
	metrics.JobsSubmitted.Inc()

	if entry, err := s.cache.Get(ctx, fp); err == nil {
		return s.completeFromCache(ctx, fp, kind, metadata, entry)
	} else if !errors.Is(err, store.ErrNotFound) {
		// A degraded cache must not block submissions; treat as a miss.
		slog.WarnContext(ctx, "cache lookup failed, proceeding without cache", "error", err)
	}

	job := &model.Job{
		ID:          uuid.NewString(),
		State:       model.JobStateQueued,
		Progress:    progressQueued,
		Fingerprint: fp,
		ContentKind: kind,
		Metadata:    metadata,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	slog.InfoContext(ctx, "job queued", "job_id", job.ID, "content_kind", kind, "fingerprint", fp)

	// The pipeline outlives the request: detach from the caller's context,
	// carrying the request's trace id by value so the pipeline span can
	// link back to it.
	traceID := ""
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}
	bgCtx := logger.WithLogFields(context.Background(), logger.LogFields{
		JobID:       logger.Ptr(job.ID),
		Fingerprint: logger.Ptr(fp),
		ContentKind: logger.Ptr(string(kind)),
		Component:   "faultline.service.analysis",
	})
	go s.run(bgCtx, traceID, job.ID, content, kind, fp, metadata)

	return job, nil
}

// completeFromCache synthesizes an already-completed job record from a cache
// entry. The expensive pipeline never runs.
func (s *analysisService) completeFromCache(ctx context.Context, fp string, kind model.ContentKind, metadata map[string]string, entry *model.CacheEntry) (*model.Job, error) {
	metrics.CacheHits.Inc()

	job := &model.Job{
		ID:          uuid.NewString(),
		State:       model.JobStateCompleted,
		Progress:    progressCached,
		Fingerprint: fp,
		ContentKind: kind,
		Metadata:    metadata,
		Result:      entry.Result,
		Markdown:    entry.Markdown,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create cached job: %w", err)
	}

	slog.InfoContext(ctx, "job completed from cache", "job_id", job.ID, "fingerprint", fp)
	return job, nil
}

// run executes the pipeline for one job. It is the sole writer of that job's
// record, so its transitions are strictly ordered. Panics become stage
// failures rather than taking down the process.
func (s *analysisService) run(ctx context.Context, traceID, jobID, content string, kind model.ContentKind, fp string, metadata map[string]string) {
	s.slots <- struct{}{}
	defer func() { <-s.slots }()

	sc := logger.StartSpanFromTraceID(ctx, traceID, "pipeline.run")
	defer sc.End()
	ctx = sc.Context()

	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in pipeline", "panic", r)
			s.fail(ctx, jobID, fmt.Errorf("panic: %v", r))
		}
	}()

	if !s.transition(ctx, jobID, model.JobStateRunning, store.TransitionOpts{Progress: ptr(progressNormalizing)}) {
		return
	}
	normStart := time.Now()
	artifact := normalize.Normalize(content, kind, s.caps)
	metrics.StageDuration.WithLabelValues("normalize").Observe(time.Since(normStart).Seconds())

	if !s.transition(ctx, jobID, model.JobStateRunning, store.TransitionOpts{Progress: ptr(progressEvaluating)}) {
		return
	}
	evalStart := time.Now()
	findings := heuristics.Evaluate(artifact)
	metrics.StageDuration.WithLabelValues("heuristics").Observe(time.Since(evalStart).Seconds())

	slog.InfoContext(ctx, "heuristics evaluated", "findings", len(findings))

	if !s.transition(ctx, jobID, model.JobStateRunning, store.TransitionOpts{Progress: ptr(progressSynthesizing)}) {
		return
	}
	synthStart := time.Now()
	report, markdown, err := s.synth.Synthesize(ctx, artifact, findings, metadata)
	metrics.StageDuration.WithLabelValues("synthesis").Observe(time.Since(synthStart).Seconds())
	if err != nil {
		sc.RecordError(err)
		s.fail(ctx, jobID, err)
		return
	}

	if !s.transition(ctx, jobID, model.JobStateCompleted, store.TransitionOpts{
		Progress: ptr(progressComplete),
		Result:   report,
		Markdown: &markdown,
	}) {
		return
	}
	metrics.JobsCompleted.Inc()

	// Cache write comes after the terminal transition; a failure here
	// degrades future reuse but the job itself already completed.
	entry := &model.CacheEntry{Result: report, Markdown: markdown}
	if err := s.cache.Put(ctx, fp, entry); err != nil {
		slog.WarnContext(ctx, "result cache write failed", "error", err)
	}

	slog.InfoContext(ctx, "job completed", "score", report.ProductionReadinessScore, "findings", len(report.Findings))
}

// fail records a stage failure on the job. Failed runs never write the cache.
func (s *analysisService) fail(ctx context.Context, jobID string, cause error) {
	metrics.JobsFailed.Inc()
	slog.ErrorContext(ctx, "job failed", "error", logger.Truncate(cause.Error(), 500))
	s.transition(ctx, jobID, model.JobStateFailed, store.TransitionOpts{
		Progress: ptr("Analysis failed"),
		Error:    ptr(cause.Error()),
	})
}

// transition persists a state change with bounded retries. Returning false
// aborts the pipeline: if the store cannot record progress it will not be
// able to record a result either, and the job stays queryable in its last
// successfully written state.
func (s *analysisService) transition(ctx context.Context, jobID string, state model.JobState, opts store.TransitionOpts) bool {
	var lastErr error
	for attempt := 1; attempt <= transitionAttempts; attempt++ {
		_, err := s.jobs.Transition(ctx, jobID, state, opts)
		if err == nil {
			return true
		}
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrTerminalState) {
			// Expired mid-run, or already terminal; nothing to retry.
			slog.WarnContext(ctx, "job transition skipped", "state", state, "error", err)
			return false
		}
		lastErr = err
		time.Sleep(transitionBackoff * time.Duration(attempt))
	}

	slog.ErrorContext(ctx, "job transition could not be persisted, job may be stuck",
		"state", state, "error", lastErr)
	return false
}

func (s *analysisService) Status(ctx context.Context, id string) (*model.Job, error) {
	return s.jobs.Get(ctx, id)
}

func (s *analysisService) Result(ctx context.Context, id string) (*model.Job, error) {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.State.Terminal() {
		return job, ErrResultNotReady
	}
	return job, nil
}

func (s *analysisService) List(ctx context.Context) ([]model.JobSummary, error) {
	return s.jobs.List(ctx)
}

func ptr[T any](v T) *T {
	return &v
}
