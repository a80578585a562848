// Package heuristics evaluates deterministic production-readiness rules over
// a normalized artifact. Evaluation is pure and total: it never fails and may
// return an empty list.
package heuristics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/localhostd3veloper/faultline.ai/internal/model"
)

// Evaluate runs the rule set for the artifact's kind and returns findings
// ordered by severity, most severe first. Rule order breaks ties.
func Evaluate(artifact model.NormalizedArtifact) []model.Finding {
	var findings []model.Finding
	switch artifact.Kind {
	case model.ArtifactKindOpenAPI:
		findings = evaluateOpenAPI(artifact)
	case model.ArtifactKindArchitecture:
		findings = evaluateArchitecture(artifact)
	case model.ArtifactKindMarkdown:
		findings = evaluateMarkdown(artifact)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Severity.Rank() > findings[j].Severity.Rank()
	})
	return findings
}

func evaluateOpenAPI(artifact model.NormalizedArtifact) []model.Finding {
	if len(artifact.Endpoints) == 0 {
		return nil
	}

	var findings []model.Finding
	for _, ep := range artifact.Endpoints {
		if !ep.Secured && ep.Method != "GET" {
			findings = append(findings, model.Finding{
				Title:       fmt.Sprintf("Unsecured Write Endpoint: %s", ep.Path),
				Description: fmt.Sprintf("The %s endpoint %s appears to lack authentication.", ep.Method, ep.Path),
				Category:    "Security",
				Severity:    model.SeverityHigh,
				Confidence:  model.ConfidenceHigh,
				Source:      "openapi",
				Rationale:   "Write operations without authentication allow unauthorized data modification.",
				Remediation: "Apply security schemes (e.g., Bearer Auth) to this endpoint.",
			})
		}

		if ep.Method == "GET" && !ep.HasPagination && strings.Contains(strings.ToLower(ep.Path), "list") {
			findings = append(findings, model.Finding{
				Title:       fmt.Sprintf("Missing Pagination: %s", ep.Path),
				Description: "List endpoints should support pagination to prevent resource exhaustion.",
				Category:    "Reliability",
				Severity:    model.SeverityMedium,
				Confidence:  model.ConfidenceHigh,
				Source:      "openapi",
				Rationale:   "Unbounded result sets can crash the server or database under load.",
				Remediation: "Add limit/offset or cursor-based pagination parameters.",
			})
		}
	}

	versioned := false
	for _, ep := range artifact.Endpoints {
		if ep.HasVersioning {
			versioned = true
			break
		}
	}
	if !versioned {
		findings = append(findings, model.Finding{
			Title:       "Missing API Versioning",
			Description: "The API does not seem to use versioning in paths or headers.",
			Category:    "Maintainability",
			Severity:    model.SeverityMedium,
			Confidence:  model.ConfidenceHigh,
			Source:      "openapi",
			Rationale:   "Breaking changes cannot be introduced safely without versioning.",
			Remediation: "Introduce /v1/ prefixes or version headers.",
		})
	}

	return findings
}

func evaluateArchitecture(artifact model.NormalizedArtifact) []model.Finding {
	content := strings.ToLower(artifact.Sections["content"])

	var findings []model.Finding
	if !strings.Contains(content, "auth") && !strings.Contains(content, "security") {
		findings = append(findings, model.Finding{
			Title:       "Missing Security Architecture",
			Description: "No mention of authentication or authorization found in the architecture description.",
			Category:    "Security",
			Severity:    model.SeverityHigh,
			Confidence:  model.ConfidenceMedium,
			Source:      "architecture",
			Rationale:   "Security must be a first-class citizen in architecture planning.",
			Remediation: "Detail the identity provider and auth flow (e.g., OAuth2, JWT).",
		})
	}

	if hintsSinglePointOfFailure(content, artifact) {
		findings = append(findings, model.Finding{
			Title:       "Potential Single Point of Failure",
			Description: "The architecture suggests a single database or monolithic structure.",
			Category:    "Reliability",
			Severity:    model.SeverityMedium,
			Confidence:  model.ConfidenceMedium,
			Source:      "architecture",
			Rationale:   "A single failure point can take down the entire system.",
			Remediation: "Implement redundancy and database clustering.",
		})
	}

	return findings
}

func hintsSinglePointOfFailure(content string, artifact model.NormalizedArtifact) bool {
	if strings.Contains(content, "single points of failure") || strings.Contains(content, "single database") {
		return true
	}
	if len(artifact.Services) != 1 {
		return false
	}
	for _, c := range artifact.Components {
		if c.Type == "database" {
			return true
		}
	}
	return false
}

var requiredDocSections = []string{"security", "scaling", "deployment", "monitoring"}

func evaluateMarkdown(artifact model.NormalizedArtifact) []model.Finding {
	var titles []string
	for title := range artifact.Sections {
		titles = append(titles, strings.ToLower(title))
	}

	var findings []model.Finding
	for _, required := range requiredDocSections {
		found := false
		for _, title := range titles {
			if strings.Contains(title, required) {
				found = true
				break
			}
		}
		if found {
			continue
		}
		findings = append(findings, model.Finding{
			Title:       fmt.Sprintf("Missing Documentation: %s", capitalize(required)),
			Description: fmt.Sprintf("The documentation lacks a dedicated section for %s.", required),
			Category:    "Documentation",
			Severity:    model.SeverityLow,
			Confidence:  model.ConfidenceLow,
			Source:      "documentation",
			Rationale:   "Complete documentation is essential for production readiness.",
			Remediation: fmt.Sprintf("Add a section detailing the %s strategy.", required),
		})
	}

	return findings
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
