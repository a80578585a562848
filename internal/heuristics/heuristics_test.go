package heuristics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/localhostd3veloper/faultline.ai/internal/heuristics"
	"github.com/localhostd3veloper/faultline.ai/internal/model"
)

func titlesOf(findings []model.Finding) []string {
	titles := make([]string, 0, len(findings))
	for _, f := range findings {
		titles = append(titles, f.Title)
	}
	return titles
}

var _ = Describe("Evaluate", func() {
	Describe("OpenAPI rules", func() {
		It("flags an unsecured write endpoint exactly once", func() {
			artifact := model.NormalizedArtifact{
				Kind: model.ArtifactKindOpenAPI,
				Endpoints: []model.Endpoint{
					{Path: "/users", Method: "POST", Secured: false, HasVersioning: true},
					{Path: "/users", Method: "GET", Secured: true, HasVersioning: true},
				},
			}

			findings := heuristics.Evaluate(artifact)

			unsecured := []model.Finding{}
			for _, f := range findings {
				if f.Title == "Unsecured Write Endpoint: /users" {
					unsecured = append(unsecured, f)
				}
			}
			Expect(unsecured).To(HaveLen(1))
			Expect(unsecured[0].Severity).To(Equal(model.SeverityHigh))
			Expect(unsecured[0].Category).To(Equal("Security"))
		})

		It("does not flag unsecured reads", func() {
			artifact := model.NormalizedArtifact{
				Kind: model.ArtifactKindOpenAPI,
				Endpoints: []model.Endpoint{
					{Path: "/users", Method: "GET", Secured: false, HasVersioning: true},
				},
			}

			findings := heuristics.Evaluate(artifact)

			Expect(titlesOf(findings)).NotTo(ContainElement(HavePrefix("Unsecured Write Endpoint")))
		})

		It("flags list endpoints without pagination", func() {
			artifact := model.NormalizedArtifact{
				Kind: model.ArtifactKindOpenAPI,
				Endpoints: []model.Endpoint{
					{Path: "/users/list", Method: "GET", Secured: true, HasPagination: false, HasVersioning: true},
				},
			}

			findings := heuristics.Evaluate(artifact)

			Expect(titlesOf(findings)).To(ContainElement("Missing Pagination: /users/list"))
		})

		It("stays quiet on paginated list endpoints", func() {
			artifact := model.NormalizedArtifact{
				Kind: model.ArtifactKindOpenAPI,
				Endpoints: []model.Endpoint{
					{Path: "/users/list", Method: "GET", Secured: true, HasPagination: true, HasVersioning: true},
				},
			}

			findings := heuristics.Evaluate(artifact)

			Expect(titlesOf(findings)).NotTo(ContainElement(HavePrefix("Missing Pagination")))
		})

		It("flags a fully unversioned API once", func() {
			artifact := model.NormalizedArtifact{
				Kind: model.ArtifactKindOpenAPI,
				Endpoints: []model.Endpoint{
					{Path: "/users", Method: "GET", Secured: true},
					{Path: "/orders", Method: "GET", Secured: true},
				},
			}

			findings := heuristics.Evaluate(artifact)

			count := 0
			for _, t := range titlesOf(findings) {
				if t == "Missing API Versioning" {
					count++
				}
			}
			Expect(count).To(Equal(1))
		})

		It("accepts versioning on any endpoint as API-wide", func() {
			artifact := model.NormalizedArtifact{
				Kind: model.ArtifactKindOpenAPI,
				Endpoints: []model.Endpoint{
					{Path: "/v1/users", Method: "GET", Secured: true, HasVersioning: true},
					{Path: "/orders", Method: "GET", Secured: true},
				},
			}

			findings := heuristics.Evaluate(artifact)

			Expect(titlesOf(findings)).NotTo(ContainElement("Missing API Versioning"))
		})

		It("returns nothing for an artifact with no endpoints", func() {
			artifact := model.NormalizedArtifact{Kind: model.ArtifactKindOpenAPI}
			Expect(heuristics.Evaluate(artifact)).To(BeEmpty())
		})

		It("orders findings by severity, most severe first", func() {
			artifact := model.NormalizedArtifact{
				Kind: model.ArtifactKindOpenAPI,
				Endpoints: []model.Endpoint{
					{Path: "/users/list", Method: "GET", Secured: true, HasPagination: false},
					{Path: "/users", Method: "DELETE", Secured: false},
				},
			}

			findings := heuristics.Evaluate(artifact)

			Expect(len(findings)).To(BeNumerically(">=", 2))
			for i := 1; i < len(findings); i++ {
				Expect(findings[i-1].Severity.Rank()).To(BeNumerically(">=", findings[i].Severity.Rank()))
			}
			Expect(findings[0].Severity).To(Equal(model.SeverityHigh))
		})
	})

	Describe("Architecture rules", func() {
		It("flags a description that never mentions security", func() {
			artifact := model.NormalizedArtifact{
				Kind:     model.ArtifactKindArchitecture,
				Sections: map[string]string{"content": "service api writes to postgres"},
			}

			findings := heuristics.Evaluate(artifact)

			Expect(titlesOf(findings)).To(ContainElement("Missing Security Architecture"))
		})

		It("accepts any auth mention as covering security", func() {
			artifact := model.NormalizedArtifact{
				Kind:     model.ArtifactKindArchitecture,
				Sections: map[string]string{"content": "requests pass through an OAuth2 gateway"},
			}

			findings := heuristics.Evaluate(artifact)

			Expect(titlesOf(findings)).NotTo(ContainElement("Missing Security Architecture"))
		})

		It("flags a single service with one database as a potential SPOF", func() {
			artifact := model.NormalizedArtifact{
				Kind:       model.ArtifactKindArchitecture,
				Services:   []string{"api"},
				Components: []model.Component{{Name: "postgres", Type: "database"}},
				Sections:   map[string]string{"content": "service api with oauth writes to postgres"},
			}

			findings := heuristics.Evaluate(artifact)

			Expect(titlesOf(findings)).To(ContainElement("Potential Single Point of Failure"))
		})

		It("flags an explicit single-database admission regardless of shape", func() {
			artifact := model.NormalizedArtifact{
				Kind:     model.ArtifactKindArchitecture,
				Services: []string{"api", "billing"},
				Sections: map[string]string{"content": "auth handled upstream; everything shares a single database"},
			}

			findings := heuristics.Evaluate(artifact)

			Expect(titlesOf(findings)).To(ContainElement("Potential Single Point of Failure"))
		})

		It("does not flag a multi-service layout as a SPOF", func() {
			artifact := model.NormalizedArtifact{
				Kind:       model.ArtifactKindArchitecture,
				Services:   []string{"api", "billing"},
				Components: []model.Component{{Name: "postgres", Type: "database"}},
				Sections:   map[string]string{"content": "two services with oauth, each on postgres"},
			}

			findings := heuristics.Evaluate(artifact)

			Expect(titlesOf(findings)).NotTo(ContainElement("Potential Single Point of Failure"))
		})
	})

	Describe("Documentation rules", func() {
		It("flags each missing required section", func() {
			artifact := model.NormalizedArtifact{
				Kind: model.ArtifactKindMarkdown,
				Sections: map[string]string{
					"Overview": "what the system does",
				},
			}

			findings := heuristics.Evaluate(artifact)

			titles := titlesOf(findings)
			Expect(titles).To(ContainElements(
				"Missing Documentation: Security",
				"Missing Documentation: Scaling",
				"Missing Documentation: Deployment",
				"Missing Documentation: Monitoring",
			))
			for _, f := range findings {
				Expect(f.Severity).To(Equal(model.SeverityLow))
			}
		})

		It("matches section titles case-insensitively and by substring", func() {
			artifact := model.NormalizedArtifact{
				Kind: model.ArtifactKindMarkdown,
				Sections: map[string]string{
					"Security Considerations": "...",
					"SCALING":                 "...",
					"Deployment Guide":        "...",
					"Monitoring & Alerting":   "...",
				},
			}

			findings := heuristics.Evaluate(artifact)

			Expect(findings).To(BeEmpty())
		})

		It("flags only the sections actually absent", func() {
			artifact := model.NormalizedArtifact{
				Kind: model.ArtifactKindMarkdown,
				Sections: map[string]string{
					"Security":   "...",
					"Deployment": "...",
				},
			}

			findings := heuristics.Evaluate(artifact)

			titles := titlesOf(findings)
			Expect(titles).To(ConsistOf(
				"Missing Documentation: Scaling",
				"Missing Documentation: Monitoring",
			))
		})
	})
})
