package synthesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/localhostd3veloper/faultline.ai/common/llm"
	"github.com/localhostd3veloper/faultline.ai/core/config"
	"github.com/localhostd3veloper/faultline.ai/internal/model"
)

const systemPrompt = "You are a production-grade software architecture and security expert. " +
	"Analyze the provided artifact (code, config, or architecture) and identify 3-6 meaningful findings. " +
	"Categorize findings into groups like Scalability, AI Risk, Cloud, Security, Reliability, etc. " +
	"Assign severity levels: High, Medium, or Low. " +
	"Provide a Production Readiness Score (0-100), rationale for each finding, " +
	"and actionable remediation guidance."

// reportOutput is the structured response contract for the provider call.
type reportOutput struct {
	ProductionReadinessScore int                   `json:"production_readiness_score"`
	Summary                  string                `json:"summary"`
	Findings                 []model.ReportFinding `json:"findings"`
	SuggestedNextSteps       []string              `json:"suggested_next_steps"`
	MarkdownReport           string                `json:"markdown_report"`
}

var reportSchema = llm.GenerateSchema[reportOutput]()

// Providers fail transiently under load; a few spaced attempts ride out rate
// limits without masking real outages from the breaker.
const (
	callAttempts = 3
	callBackoff  = 2 * time.Second
)

type llmSynthesizer struct {
	client      llm.Client
	maxTokens   int
	temperature float64
	timeout     time.Duration
	breaker     *gobreaker.CircuitBreaker
}

func newLLMSynthesizer(client llm.Client, cfg config.SynthesisConfig) *llmSynthesizer {
	return &llmSynthesizer{
		client:      client,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "synthesis",
			MaxRequests: 100,
			Interval:    5 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
		}),
	}
}

func (s *llmSynthesizer) Synthesize(ctx context.Context, artifact model.NormalizedArtifact, findings []model.Finding, metadata map[string]string) (*model.AnalysisReport, string, error) {
	prompt, err := buildUserPrompt(artifact, findings, metadata)
	if err != nil {
		return nil, "", fmt.Errorf("build synthesis prompt: %w", err)
	}

	start := time.Now()
	var out *reportOutput
	for attempt := 1; attempt <= callAttempts; attempt++ {
		var raw any
		raw, err = s.breaker.Execute(func() (any, error) {
			callCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			var result reportOutput
			_, chatErr := s.client.Chat(callCtx, llm.Request{
				SystemPrompt: systemPrompt,
				UserPrompt:   prompt,
				SchemaName:   "analysis_report",
				Schema:       reportSchema,
				MaxTokens:    s.maxTokens,
				Temperature:  llm.Temp(s.temperature),
			}, &result)
			if chatErr != nil {
				return nil, chatErr
			}
			return &result, nil
		})
		if err == nil {
			out = raw.(*reportOutput)
			break
		}
		if errors.Is(err, gobreaker.ErrOpenState) || !llm.IsRetryable(ctx, err) {
			break
		}
		time.Sleep(callBackoff * time.Duration(attempt))
	}
	if err != nil {
		return nil, "", fmt.Errorf("synthesis: %w", err)
	}
	slog.InfoContext(ctx, "synthesis completed",
		"model", s.client.Model(),
		"duration_ms", time.Since(start).Milliseconds(),
		"findings", len(out.Findings),
		"score", out.ProductionReadinessScore)

	report := &model.AnalysisReport{
		ProductionReadinessScore: out.ProductionReadinessScore,
		Summary:                  out.Summary,
		Findings:                 out.Findings,
		SuggestedNextSteps:       out.SuggestedNextSteps,
	}
	return report, out.MarkdownReport, nil
}

func buildUserPrompt(artifact model.NormalizedArtifact, findings []model.Finding, metadata map[string]string) (string, error) {
	artifactJSON, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", err
	}
	findingsJSON, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(
		"Artifact kind: %s\n\nNormalized artifact:\n%s\n\nHeuristic findings already detected (incorporate and extend them):\n%s\n",
		artifact.Kind, artifactJSON, findingsJSON,
	)
	if len(metadata) > 0 {
		metaJSON, err := json.Marshal(metadata)
		if err != nil {
			return "", err
		}
		prompt += fmt.Sprintf("\nSubmission metadata: %s\n", metaJSON)
	}
	return prompt, nil
}
