package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/localhostd3veloper/faultline.ai/internal/model"
	"github.com/localhostd3veloper/faultline.ai/internal/store"
)

// FeedbackService records caller verdicts on delivered reports.
type FeedbackService interface {
	// Submit stores feedback for a live job. Returns store.ErrNotFound if
	// the job is unknown or expired.
	Submit(ctx context.Context, jobID string, isUseful bool, comment string) error

	// ListForJob returns feedback recorded for a job, oldest first.
	ListForJob(ctx context.Context, jobID string) ([]model.Feedback, error)
}

type feedbackService struct {
	jobs     store.JobStore
	feedback store.FeedbackStore
}

func NewFeedbackService(jobs store.JobStore, feedback store.FeedbackStore) FeedbackService {
	return &feedbackService{jobs: jobs, feedback: feedback}
}

func (s *feedbackService) Submit(ctx context.Context, jobID string, isUseful bool, comment string) error {
	if _, err := s.jobs.Get(ctx, jobID); err != nil {
		return err
	}

	fb := &model.Feedback{
		JobID:     jobID,
		IsUseful:  isUseful,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.feedback.Append(ctx, fb); err != nil {
		return fmt.Errorf("store feedback: %w", err)
	}

	slog.InfoContext(ctx, "feedback recorded", "job_id", jobID, "is_useful", isUseful)
	return nil
}

func (s *feedbackService) ListForJob(ctx context.Context, jobID string) ([]model.Feedback, error) {
	return s.feedback.ListForJob(ctx, jobID)
}
