package dto

import (
	"time"

	"github.com/localhostd3veloper/faultline.ai/internal/model"
)

type AnalyzeRequest struct {
	Content     string            `json:"content" binding:"required"`
	ContentKind string            `json:"contentType" binding:"required"`
	Metadata    map[string]string `json:"metadata"`
}

type JobResponse struct {
	JobID     string    `json:"job_id"`
	Status    string    `json:"status"`
	Progress  string    `json:"progress_hints,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ResultResponse struct {
	JobID    string                `json:"job_id"`
	Status   string                `json:"status"`
	Result   *model.AnalysisReport `json:"result,omitempty"`
	Markdown string                `json:"markdown,omitempty"`
	Error    string                `json:"error,omitempty"`
}

type JobSummaryResponse struct {
	JobID     string    `json:"job_id"`
	Status    string    `json:"status"`
	Progress  string    `json:"progress_hints,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListJobsResponse carries all currently live jobs. Entries beyond the TTL
// window are silently absent.
type ListJobsResponse struct {
	Jobs []JobSummaryResponse `json:"jobs"`
}

func ToJobResponse(job *model.Job) JobResponse {
	return JobResponse{
		JobID:     job.ID,
		Status:    string(job.State),
		Progress:  job.Progress,
		CreatedAt: job.CreatedAt,
	}
}

func ToResultResponse(job *model.Job) ResultResponse {
	return ResultResponse{
		JobID:    job.ID,
		Status:   string(job.State),
		Result:   job.Result,
		Markdown: job.Markdown,
		Error:    job.Error,
	}
}

func ToListJobsResponse(summaries []model.JobSummary) ListJobsResponse {
	jobs := make([]JobSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		jobs = append(jobs, JobSummaryResponse{
			JobID:     s.ID,
			Status:    string(s.State),
			Progress:  s.Progress,
			CreatedAt: s.CreatedAt,
		})
	}
	return ListJobsResponse{Jobs: jobs}
}
