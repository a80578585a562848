package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/localhostd3veloper/faultline.ai/internal/model"
)

type redisFeedbackStore struct {
	client *redis.Client
	ttl    time.Duration
}

func feedbackKey(jobID string) string {
	return feedbackKeyPrefix + jobID
}

func (s *redisFeedbackStore) Append(ctx context.Context, fb *model.Feedback) error {
	data, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}

	key := feedbackKey(fb.JobID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append feedback for job %s: %w", fb.JobID, err)
	}
	return nil
}

func (s *redisFeedbackStore) ListForJob(ctx context.Context, jobID string) ([]model.Feedback, error) {
	items, err := s.client.LRange(ctx, feedbackKey(jobID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list feedback for job %s: %w", jobID, err)
	}

	feedback := make([]model.Feedback, 0, len(items))
	for _, item := range items {
		var fb model.Feedback
		if err := json.Unmarshal([]byte(item), &fb); err != nil {
			return nil, fmt.Errorf("unmarshal feedback: %w", err)
		}
		feedback = append(feedback, fb)
	}
	return feedback, nil
}
