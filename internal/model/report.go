package model

// ReportFinding is a finding as it appears in the synthesized report.
// Unlike Finding it carries no confidence or source tag; the synthesis stage
// may add findings of its own beyond the heuristic ones.
type ReportFinding struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Rationale   string `json:"rationale"`
	Remediation string `json:"remediation"`
}

// AnalysisReport is the structured result payload of a completed job.
type AnalysisReport struct {
	ProductionReadinessScore int             `json:"production_readiness_score"`
	Summary                  string          `json:"summary"`
	Findings                 []ReportFinding `json:"findings"`
	SuggestedNextSteps       []string        `json:"suggested_next_steps"`
}

// CacheEntry is the content-keyed record of a previously successful run.
// Written once per fingerprint per TTL window, read-only thereafter.
type CacheEntry struct {
	Result   *AnalysisReport `json:"result"`
	Markdown string          `json:"markdown"`
}
