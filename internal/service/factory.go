package service

import (
	"github.com/localhostd3veloper/faultline.ai/core/config"
	"github.com/localhostd3veloper/faultline.ai/internal/normalize"
	"github.com/localhostd3veloper/faultline.ai/internal/store"
	"github.com/localhostd3veloper/faultline.ai/internal/synthesis"
)

type Services struct {
	analysis AnalysisService
	feedback FeedbackService
}

type ServicesConfig struct {
	Stores      *store.Stores
	Synthesizer synthesis.Synthesizer
	Limits      config.LimitsConfig
	Jobs        config.JobsConfig
}

// NewServices wires the service layer once at startup. The analysis service
// is built eagerly because it owns the pipeline concurrency slots.
func NewServices(cfg ServicesConfig) *Services {
	caps := normalize.Caps{
		MaxEndpoints:  cfg.Limits.MaxEndpoints,
		MaxComponents: cfg.Limits.MaxComponents,
		MaxSections:   cfg.Limits.MaxSections,
	}

	jobs := cfg.Stores.Jobs()
	return &Services{
		analysis: NewAnalysisService(
			jobs,
			cfg.Stores.Cache(),
			cfg.Synthesizer,
			caps,
			cfg.Limits.MaxContentBytes,
			cfg.Jobs.MaxConcurrent,
		),
		feedback: NewFeedbackService(jobs, cfg.Stores.Feedback()),
	}
}

func (s *Services) Analysis() AnalysisService {
	return s.analysis
}

func (s *Services) Feedback() FeedbackService {
	return s.feedback
}
