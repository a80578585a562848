package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/localhostd3veloper/faultline.ai/internal/model"
)

// casAttempts bounds the optimistic-lock retry loop. In the base design only
// one goroutine ever writes a given job, so contention means interference
// from outside the process; a few retries cover transient WATCH conflicts.
const casAttempts = 3

type redisJobStore struct {
	client *redis.Client
	ttl    time.Duration
}

func jobKey(id string) string {
	return jobKeyPrefix + id
}

func (s *redisJobStore) Create(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	ok, err := s.client.SetNX(ctx, jobKey(job.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("create job %s: %w", job.ID, err)
	}
	if !ok {
		return ErrAlreadyExists
	}
	return nil
}

// Transition performs an atomic read-merge-write under WATCH. Even with a
// single writer per job, the write never assumes no interleaving: a WATCH
// conflict aborts the pipeline and the merge is retried on a fresh read.
func (s *redisJobStore) Transition(ctx context.Context, id string, state model.JobState, opts TransitionOpts) (*model.Job, error) {
	key := jobKey(id)
	var updated *model.Job

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("read job %s: %w", id, err)
		}

		var job model.Job
		if err := json.Unmarshal(data, &job); err != nil {
			return fmt.Errorf("unmarshal job %s: %w", id, err)
		}

		merged, err := mergeTransition(job, state, opts)
		if err != nil {
			return err
		}

		out, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("marshal job %s: %w", id, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			// KEEPTTL: transitions must not extend the hard lifetime
			// that started at creation.
			pipe.Set(ctx, key, out, redis.KeepTTL)
			return nil
		})
		if err != nil {
			return err
		}

		updated = merged
		return nil
	}

	for attempt := 1; attempt <= casAttempts; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			slog.WarnContext(ctx, "job transition cas conflict, retrying",
				"job_id", id, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("transition job %s: %w", id, redis.TxFailedErr)
}

// mergeTransition applies the state machine and field-merge rules: terminal
// states admit no further transitions, running may re-enter with new
// progress, and optional fields only overwrite when provided.
func mergeTransition(job model.Job, state model.JobState, opts TransitionOpts) (*model.Job, error) {
	if job.State.Terminal() {
		return nil, ErrTerminalState
	}

	job.State = state
	if opts.Progress != nil {
		job.Progress = *opts.Progress
	}
	if opts.Result != nil {
		job.Result = opts.Result
	}
	if opts.Markdown != nil {
		job.Markdown = *opts.Markdown
	}
	if opts.Error != nil {
		job.Error = *opts.Error
	}
	return &job, nil
}

func (s *redisJobStore) Get(ctx context.Context, id string) (*model.Job, error) {
	data, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read job %s: %w", id, err)
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job %s: %w", id, err)
	}
	return &job, nil
}

func (s *redisJobStore) List(ctx context.Context) ([]model.JobSummary, error) {
	var summaries []model.JobSummary

	iter := s.client.Scan(ctx, 0, jobKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		data, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			// Expired between scan and read.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}

		var job model.Job
		if err := json.Unmarshal(data, &job); err != nil {
			slog.WarnContext(ctx, "skipping undecodable job record", "key", key, "error", err)
			continue
		}

		created := job.CreatedAt
		if created.IsZero() {
			// Legacy records lack an explicit creation time; estimate it
			// from the remaining TTL.
			created = s.estimateCreation(ctx, key)
		}

		summaries = append(summaries, model.JobSummary{
			ID:        job.ID,
			State:     job.State,
			Progress:  job.Progress,
			CreatedAt: created,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan jobs: %w", err)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (s *redisJobStore) estimateCreation(ctx context.Context, key string) time.Time {
	remaining, err := s.client.TTL(ctx, key).Result()
	if err != nil || remaining < 0 {
		return time.Time{}
	}
	return time.Now().Add(remaining - s.ttl)
}
