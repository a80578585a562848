package dto

type FeedbackRequest struct {
	JobID    string `json:"job_id" binding:"required"`
	IsUseful *bool  `json:"is_useful" binding:"required"`
	Comment  string `json:"comment"`
}
