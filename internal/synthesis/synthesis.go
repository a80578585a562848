// Package synthesis turns a normalized artifact and its heuristic findings
// into the final readiness report. The real implementation calls an external
// LLM provider; the demo implementation assembles a deterministic report and
// needs no credentials.
package synthesis

import (
	"context"
	"fmt"

	"github.com/localhostd3veloper/faultline.ai/common/llm"
	"github.com/localhostd3veloper/faultline.ai/core/config"
	"github.com/localhostd3veloper/faultline.ai/internal/model"
)

// Synthesizer is the external collaborator boundary of the pipeline. Any
// failure (provider error, malformed response, timeout) surfaces as a plain
// error; the orchestrator treats them all as a stage failure.
type Synthesizer interface {
	Synthesize(ctx context.Context, artifact model.NormalizedArtifact, findings []model.Finding, metadata map[string]string) (*model.AnalysisReport, string, error)
}

// New selects the synthesizer once at startup based on configuration.
func New(cfg config.SynthesisConfig) (Synthesizer, error) {
	switch cfg.Provider {
	case config.ProviderDemo:
		return NewDemo(), nil
	case config.ProviderOpenAI, config.ProviderAnthropic:
		client, err := llm.New(llm.Config{
			Provider: cfg.Provider,
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("synthesis client: %w", err)
		}
		return newLLMSynthesizer(client, cfg), nil
	default:
		return nil, fmt.Errorf("unsupported synthesis provider: %q", cfg.Provider)
	}
}
