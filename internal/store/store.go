// Package store persists jobs, cached results and feedback in Redis, the
// single shared coordination medium. All cross-goroutine coordination happens
// through atomic per-key operations here; the rest of the process holds no
// shared mutable state.
package store

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotFound is returned for keys that never existed or whose TTL has
	// elapsed. The two cases are indistinguishable by design.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when creating a job whose id is taken.
	// With fresh UUID generation this indicates a bug upstream.
	ErrAlreadyExists = errors.New("already exists")

	// ErrTerminalState is returned for transitions out of completed/failed.
	ErrTerminalState = errors.New("job is in a terminal state")
)

const (
	jobKeyPrefix      = "job:"
	cacheKeyPrefix    = "analysis:"
	feedbackKeyPrefix = "feedback:"
)

// Stores bundles the Redis-backed stores behind one shared client. The
// client is process-scoped, opened at startup and closed at shutdown;
// every component receives it through here rather than a hidden global.
type Stores struct {
	client   *redis.Client
	jobTTL   time.Duration
	cacheTTL time.Duration
}

func New(client *redis.Client, jobTTL, cacheTTL time.Duration) *Stores {
	return &Stores{
		client:   client,
		jobTTL:   jobTTL,
		cacheTTL: cacheTTL,
	}
}

func (s *Stores) Jobs() JobStore {
	return &redisJobStore{client: s.client, ttl: s.jobTTL}
}

func (s *Stores) Cache() ResultCache {
	return &redisResultCache{client: s.client, ttl: s.cacheTTL}
}

func (s *Stores) Feedback() FeedbackStore {
	return &redisFeedbackStore{client: s.client, ttl: s.jobTTL}
}

func (s *Stores) Close() error {
	return s.client.Close()
}
