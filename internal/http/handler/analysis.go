package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/localhostd3veloper/faultline.ai/internal/http/dto"
	"github.com/localhostd3veloper/faultline.ai/internal/model"
	"github.com/localhostd3veloper/faultline.ai/internal/service"
	"github.com/localhostd3veloper/faultline.ai/internal/store"
)

type AnalysisHandler struct {
	analysisService service.AnalysisService
}

func NewAnalysisHandler(analysisService service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

func (h *AnalysisHandler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.analysisService.Submit(ctx, req.Content, model.ContentKind(req.ContentKind), req.Metadata)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContentTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "content exceeds maximum size"})
		case errors.Is(err, service.ErrInvalidContentKind):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported content type"})
		default:
			slog.ErrorContext(ctx, "submission failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit analysis"})
		}
		return
	}

	c.JSON(http.StatusAccepted, dto.ToJobResponse(job))
}

// Status reports lifecycle state and progress. A 404 is ambiguous between a
// job that never existed and one whose TTL elapsed.
func (h *AnalysisHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()

	job, err := h.analysisService.Status(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found or expired"})
			return
		}
		slog.ErrorContext(ctx, "status query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read job"})
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// Result returns the payload once the job is terminal. Failed jobs answer
// with their error text rather than an error status; queued or running jobs
// get an explicit not-ready conflict.
func (h *AnalysisHandler) Result(c *gin.Context) {
	ctx := c.Request.Context()

	job, err := h.analysisService.Result(ctx, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found or expired"})
		case errors.Is(err, service.ErrResultNotReady):
			c.JSON(http.StatusConflict, gin.H{
				"error":  "job is not completed",
				"status": string(job.State),
			})
		default:
			slog.ErrorContext(ctx, "result query failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read job"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToResultResponse(job))
}

func (h *AnalysisHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	summaries, err := h.analysisService.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "job listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListJobsResponse(summaries))
}
