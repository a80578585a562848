package synthesis_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/localhostd3veloper/faultline.ai/core/config"
	"github.com/localhostd3veloper/faultline.ai/internal/model"
	"github.com/localhostd3veloper/faultline.ai/internal/synthesis"
)

var _ = Describe("New", func() {
	It("builds the demo synthesizer without credentials", func() {
		synth, err := synthesis.New(config.SynthesisConfig{Provider: config.ProviderDemo})

		Expect(err).NotTo(HaveOccurred())
		Expect(synth).NotTo(BeNil())
	})

	It("rejects an LLM provider without an API key", func() {
		_, err := synthesis.New(config.SynthesisConfig{Provider: config.ProviderOpenAI})
		Expect(err).To(HaveOccurred())
	})

	It("rejects unknown providers", func() {
		_, err := synthesis.New(config.SynthesisConfig{Provider: "bard"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Demo synthesizer", func() {
	var synth synthesis.Synthesizer

	BeforeEach(func() {
		synth = synthesis.NewDemo()
	})

	artifact := model.NormalizedArtifact{Kind: model.ArtifactKindOpenAPI}

	findings := []model.Finding{
		{
			Title:       "Unsecured Write Endpoint: /users",
			Category:    "Security",
			Severity:    model.SeverityHigh,
			Remediation: "Apply security schemes (e.g., Bearer Auth) to this endpoint.",
		},
		{
			Title:    "Missing API Versioning",
			Category: "Maintainability",
			Severity: model.SeverityMedium,
		},
	}

	It("mirrors each finding into the report", func() {
		report, markdown, err := synth.Synthesize(context.Background(), artifact, findings, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Findings).To(HaveLen(2))
		Expect(report.Findings[0].Title).To(Equal("Unsecured Write Endpoint: /users"))
		Expect(report.Findings[0].Severity).To(Equal("High"))
		Expect(report.SuggestedNextSteps).NotTo(BeEmpty())
		Expect(markdown).To(ContainSubstring("Analysis Report"))
	})

	It("docks the score per finding by severity", func() {
		report, _, err := synth.Synthesize(context.Background(), artifact, findings, nil)

		Expect(err).NotTo(HaveOccurred())
		// 90 baseline, -15 for the High, -8 for the Medium
		Expect(report.ProductionReadinessScore).To(Equal(67))
	})

	It("scores a clean artifact at the baseline", func() {
		report, _, err := synth.Synthesize(context.Background(), artifact, nil, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(report.ProductionReadinessScore).To(Equal(90))
		Expect(report.Findings).To(BeEmpty())
	})

	It("floors the score at zero", func() {
		var many []model.Finding
		for i := 0; i < 10; i++ {
			many = append(many, model.Finding{Severity: model.SeverityHigh})
		}

		report, _, err := synth.Synthesize(context.Background(), artifact, many, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(report.ProductionReadinessScore).To(Equal(0))
	})

	It("is deterministic for identical input", func() {
		first, firstMD, err := synth.Synthesize(context.Background(), artifact, findings, nil)
		Expect(err).NotTo(HaveOccurred())

		second, secondMD, err := synth.Synthesize(context.Background(), artifact, findings, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
		Expect(secondMD).To(Equal(firstMD))
	})
})
