package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/localhostd3veloper/faultline.ai/internal/http/dto"
	"github.com/localhostd3veloper/faultline.ai/internal/service"
	"github.com/localhostd3veloper/faultline.ai/internal/store"
)

type FeedbackHandler struct {
	feedbackService service.FeedbackService
}

func NewFeedbackHandler(feedbackService service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

func (h *FeedbackHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.feedbackService.Submit(ctx, req.JobID, *req.IsUseful, req.Comment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found or expired"})
			return
		}
		slog.ErrorContext(ctx, "feedback submission failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Feedback received"})
}

// ListForJob returns recorded feedback for a job, oldest first. An empty
// list is not an error; unknown job ids simply have no feedback.
func (h *FeedbackHandler) ListForJob(c *gin.Context) {
	ctx := c.Request.Context()

	entries, err := h.feedbackService.ListForJob(ctx, c.Param("id"))
	if err != nil {
		slog.ErrorContext(ctx, "feedback listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": entries})
}
