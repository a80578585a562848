package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/localhostd3veloper/faultline.ai/internal/http/handler"
	"github.com/localhostd3veloper/faultline.ai/internal/service"
)

// SetupRoutes registers all HTTP routes on the given engine.
func SetupRoutes(r *gin.Engine, services *service.Services) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	analysisHandler := handler.NewAnalysisHandler(services.Analysis())
	feedbackHandler := handler.NewFeedbackHandler(services.Feedback())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/artifacts/analyze", analysisHandler.Analyze)
		// Shorter alias kept for clients of the first API revision.
		v1.POST("/analyze", analysisHandler.Analyze)

		v1.GET("/jobs", analysisHandler.List)
		v1.GET("/jobs/:id", analysisHandler.Status)
		v1.GET("/jobs/:id/result", analysisHandler.Result)
		v1.GET("/jobs/:id/feedback", feedbackHandler.ListForJob)

		v1.POST("/feedback", feedbackHandler.Submit)
	}
}
