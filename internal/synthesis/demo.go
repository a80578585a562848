package synthesis

import (
	"context"
	"fmt"

	"github.com/localhostd3veloper/faultline.ai/internal/model"
)

// demoSynthesizer assembles a deterministic report straight from the
// heuristic findings. It backs local development and tests where no provider
// credentials exist; selected with SYNTHESIS_PROVIDER=demo.
type demoSynthesizer struct{}

func NewDemo() Synthesizer {
	return &demoSynthesizer{}
}

func (d *demoSynthesizer) Synthesize(_ context.Context, artifact model.NormalizedArtifact, findings []model.Finding, _ map[string]string) (*model.AnalysisReport, string, error) {
	reportFindings := make([]model.ReportFinding, 0, len(findings))
	for _, f := range findings {
		reportFindings = append(reportFindings, model.ReportFinding{
			Title:       f.Title,
			Description: f.Description,
			Category:    f.Category,
			Severity:    string(f.Severity),
			Rationale:   f.Rationale,
			Remediation: f.Remediation,
		})
	}

	report := &model.AnalysisReport{
		ProductionReadinessScore: demoScore(findings),
		Summary: fmt.Sprintf(
			"Analysis of %s artifact complete. Found %d issues via heuristics.",
			artifact.Kind, len(findings),
		),
		Findings: reportFindings,
		SuggestedNextSteps: []string{
			"Address High severity security findings first.",
			"Implement pagination for identified list endpoints.",
			"Expand architecture documentation for missing sections.",
		},
	}

	markdown := fmt.Sprintf(
		"# Analysis Report for %s\n\n## Summary\n%d findings identified.\n",
		artifact.Kind, len(findings),
	)
	return report, markdown, nil
}

// demoScore starts at a healthy baseline and docks points per finding by
// severity, floored at zero.
func demoScore(findings []model.Finding) int {
	score := 90
	for _, f := range findings {
		switch f.Severity {
		case model.SeverityHigh:
			score -= 15
		case model.SeverityMedium:
			score -= 8
		case model.SeverityLow:
			score -= 3
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}
