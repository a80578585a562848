package service_test

import (
	"context"
	"sync"

	"github.com/localhostd3veloper/faultline.ai/internal/model"
	"github.com/localhostd3veloper/faultline.ai/internal/store"
)

type mockJobStore struct {
	createFn     func(ctx context.Context, job *model.Job) error
	transitionFn func(ctx context.Context, id string, state model.JobState, opts store.TransitionOpts) (*model.Job, error)
	getFn        func(ctx context.Context, id string) (*model.Job, error)
	listFn       func(ctx context.Context) ([]model.JobSummary, error)

	mu          sync.Mutex
	created     []*model.Job
	transitions []recordedTransition
}

type recordedTransition struct {
	id    string
	state model.JobState
	opts  store.TransitionOpts
}

func (m *mockJobStore) Create(ctx context.Context, job *model.Job) error {
	m.mu.Lock()
	m.created = append(m.created, job)
	m.mu.Unlock()
	if m.createFn != nil {
		return m.createFn(ctx, job)
	}
	return nil
}

func (m *mockJobStore) Transition(ctx context.Context, id string, state model.JobState, opts store.TransitionOpts) (*model.Job, error) {
	m.mu.Lock()
	m.transitions = append(m.transitions, recordedTransition{id: id, state: state, opts: opts})
	m.mu.Unlock()
	if m.transitionFn != nil {
		return m.transitionFn(ctx, id, state, opts)
	}
	return &model.Job{ID: id, State: state}, nil
}

func (m *mockJobStore) Get(ctx context.Context, id string) (*model.Job, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockJobStore) List(ctx context.Context) ([]model.JobSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.JobSummary{}, nil
}

func (m *mockJobStore) createdJobs() []*model.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Job, len(m.created))
	copy(out, m.created)
	return out
}

func (m *mockJobStore) recordedTransitions() []recordedTransition {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]recordedTransition, len(m.transitions))
	copy(out, m.transitions)
	return out
}

type mockResultCache struct {
	getFn func(ctx context.Context, fp string) (*model.CacheEntry, error)
	putFn func(ctx context.Context, fp string, entry *model.CacheEntry) error

	mu   sync.Mutex
	puts []string
}

func (m *mockResultCache) Get(ctx context.Context, fp string) (*model.CacheEntry, error) {
	if m.getFn != nil {
		return m.getFn(ctx, fp)
	}
	return nil, store.ErrNotFound
}

func (m *mockResultCache) Put(ctx context.Context, fp string, entry *model.CacheEntry) error {
	m.mu.Lock()
	m.puts = append(m.puts, fp)
	m.mu.Unlock()
	if m.putFn != nil {
		return m.putFn(ctx, fp, entry)
	}
	return nil
}

func (m *mockResultCache) putFingerprints() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.puts))
	copy(out, m.puts)
	return out
}

type mockFeedbackStore struct {
	appendFn     func(ctx context.Context, fb *model.Feedback) error
	listForJobFn func(ctx context.Context, jobID string) ([]model.Feedback, error)
}

func (m *mockFeedbackStore) Append(ctx context.Context, fb *model.Feedback) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, fb)
	}
	return nil
}

func (m *mockFeedbackStore) ListForJob(ctx context.Context, jobID string) ([]model.Feedback, error) {
	if m.listForJobFn != nil {
		return m.listForJobFn(ctx, jobID)
	}
	return []model.Feedback{}, nil
}

type mockSynthesizer struct {
	synthesizeFn func(ctx context.Context, artifact model.NormalizedArtifact, findings []model.Finding, metadata map[string]string) (*model.AnalysisReport, string, error)

	mu    sync.Mutex
	calls int
}

func (m *mockSynthesizer) Synthesize(ctx context.Context, artifact model.NormalizedArtifact, findings []model.Finding, metadata map[string]string) (*model.AnalysisReport, string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.synthesizeFn != nil {
		return m.synthesizeFn(ctx, artifact, findings, metadata)
	}
	return &model.AnalysisReport{ProductionReadinessScore: 75, Summary: "ok"}, "# Report", nil
}

func (m *mockSynthesizer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
