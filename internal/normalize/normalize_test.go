package normalize_test

import (
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/localhostd3veloper/faultline.ai/internal/model"
	"github.com/localhostd3veloper/faultline.ai/internal/normalize"
)

func endpointByPathMethod(endpoints []model.Endpoint, path, method string) *model.Endpoint {
	for i := range endpoints {
		if endpoints[i].Path == path && endpoints[i].Method == method {
			return &endpoints[i]
		}
	}
	return nil
}

var _ = Describe("Normalize", func() {
	caps := normalize.DefaultCaps()

	Describe("OpenAPI", func() {
		const spec = `{
			"openapi": "3.0.0",
			"info": {"title": "Orders", "version": "1.0.0"},
			"paths": {
				"/v1/orders": {
					"get": {
						"security": [{"bearer": []}],
						"parameters": [{"name": "page", "in": "query"}]
					},
					"post": {}
				},
				"/health": {
					"get": {}
				}
			}
		}`

		It("extracts endpoints from a JSON document", func() {
			artifact := normalize.Normalize(spec, model.ContentKindOpenAPIJSON, caps)

			Expect(artifact.Kind).To(Equal(model.ArtifactKindOpenAPI))
			Expect(artifact.Endpoints).To(HaveLen(3))

			getOrders := endpointByPathMethod(artifact.Endpoints, "/v1/orders", "GET")
			Expect(getOrders).NotTo(BeNil())
			Expect(getOrders.Secured).To(BeTrue())
			Expect(getOrders.HasPagination).To(BeTrue())
			Expect(getOrders.HasVersioning).To(BeTrue())

			postOrders := endpointByPathMethod(artifact.Endpoints, "/v1/orders", "POST")
			Expect(postOrders).NotTo(BeNil())
			Expect(postOrders.Secured).To(BeFalse())
			Expect(postOrders.HasPagination).To(BeFalse())
		})

		It("extracts endpoints from a YAML document", func() {
			yamlSpec := strings.Join([]string{
				"openapi: 3.0.0",
				"info:",
				"  title: Orders",
				"  version: 1.0.0",
				"paths:",
				"  /orders:",
				"    get: {}",
				"    delete: {}",
			}, "\n")

			artifact := normalize.Normalize(yamlSpec, model.ContentKindOpenAPIYAML, caps)

			Expect(artifact.Endpoints).To(HaveLen(2))
			Expect(endpointByPathMethod(artifact.Endpoints, "/orders", "DELETE")).NotTo(BeNil())
		})

		It("treats document-level security as covering every operation", func() {
			secured := `{
				"security": [{"bearer": []}],
				"paths": {"/orders": {"post": {}}}
			}`

			artifact := normalize.Normalize(secured, model.ContentKindOpenAPIJSON, caps)

			Expect(artifact.Endpoints).To(HaveLen(1))
			Expect(artifact.Endpoints[0].Secured).To(BeTrue())
		})

		It("falls back to pattern extraction on a malformed document", func() {
			broken := `{"paths": {"/users": {"get"` // truncated JSON

			artifact := normalize.Normalize(broken, model.ContentKindOpenAPIJSON, caps)

			Expect(artifact.Endpoints).NotTo(BeEmpty())
			Expect(artifact.Endpoints[0].Method).To(Equal("UNKNOWN"))
			Expect(artifact.Endpoints[0].Secured).To(BeTrue())
		})

		It("ignores non-method keys under a path", func() {
			withParams := `{
				"paths": {
					"/orders": {
						"parameters": [{"name": "page"}],
						"get": {}
					}
				}
			}`

			artifact := normalize.Normalize(withParams, model.ContentKindOpenAPIJSON, caps)

			Expect(artifact.Endpoints).To(HaveLen(1))
			Expect(artifact.Endpoints[0].Method).To(Equal("GET"))
		})

		It("truncates endpoints at the cap instead of rejecting", func() {
			var b strings.Builder
			b.WriteString(`{"paths": {`)
			for i := 0; i < 20; i++ {
				if i > 0 {
					b.WriteString(",")
				}
				fmt.Fprintf(&b, `"/r%d": {"get": {}}`, i)
			}
			b.WriteString("}}")

			small := normalize.Caps{MaxEndpoints: 5, MaxComponents: 5, MaxSections: 5}
			artifact := normalize.Normalize(b.String(), model.ContentKindOpenAPIJSON, small)

			Expect(artifact.Endpoints).To(HaveLen(5))
		})
	})

	Describe("Architecture", func() {
		It("extracts services and infrastructure components", func() {
			description := "The system runs service orders and service billing. " +
				"State lives in postgres, jobs flow through kafka, and redis fronts reads."

			artifact := normalize.Normalize(description, model.ContentKindArchitecture, caps)

			Expect(artifact.Kind).To(Equal(model.ArtifactKindArchitecture))
			Expect(artifact.Services).To(Equal([]string{"billing", "orders"}))

			types := make(map[string][]string)
			for _, comp := range artifact.Components {
				types[comp.Type] = append(types[comp.Type], comp.Name)
			}
			Expect(types["database"]).To(ContainElement("postgres"))
			Expect(types["queue"]).To(ContainElement("kafka"))
			Expect(types["cache"]).To(ContainElement("redis"))
		})

		It("matches component keywords on word boundaries only", func() {
			artifact := normalize.Normalize("we use dbt for transforms", model.ContentKindArchitecture, caps)
			Expect(artifact.Components).To(BeEmpty())
		})

		It("deduplicates repeated service names", func() {
			artifact := normalize.Normalize(
				"service api calls service api again", model.ContentKindArchitecture, caps)
			Expect(artifact.Services).To(Equal([]string{"api"}))
		})

		It("truncates components at the cap", func() {
			description := "postgres mysql mongodb redis kafka rabbitmq memcached"
			small := normalize.Caps{MaxEndpoints: 5, MaxComponents: 2, MaxSections: 5}

			artifact := normalize.Normalize(description, model.ContentKindArchitecture, small)

			Expect(artifact.Components).To(HaveLen(2))
		})
	})

	Describe("Markdown", func() {
		It("splits a document into heading-keyed sections", func() {
			doc := strings.Join([]string{
				"Intro paragraph before any heading.",
				"",
				"# Security",
				"All endpoints require OAuth.",
				"",
				"## Deployment",
				"Rolling deploys via CI.",
			}, "\n")

			artifact := normalize.Normalize(doc, model.ContentKindMarkdown, caps)

			Expect(artifact.Kind).To(Equal(model.ArtifactKindMarkdown))
			Expect(artifact.Sections).To(HaveKey("General"))
			Expect(artifact.Sections["General"]).To(ContainSubstring("Intro paragraph"))
			Expect(artifact.Sections["Security"]).To(ContainSubstring("OAuth"))
			Expect(artifact.Sections["Deployment"]).To(ContainSubstring("Rolling deploys"))
		})

		It("collects heading-free documents into a General section", func() {
			artifact := normalize.Normalize("just prose, no structure", model.ContentKindMarkdown, caps)

			Expect(artifact.Sections).To(HaveKey("General"))
			Expect(artifact.Sections["General"]).To(ContainSubstring("just prose"))
		})

		It("keeps a section's body separate from the next section", func() {
			doc := "# A\nbody a\n# B\nbody b\n"

			artifact := normalize.Normalize(doc, model.ContentKindMarkdown, caps)

			Expect(artifact.Sections["A"]).NotTo(ContainSubstring("body b"))
			Expect(artifact.Sections["B"]).To(ContainSubstring("body b"))
		})

		It("truncates sections at the cap", func() {
			var b strings.Builder
			for i := 0; i < 10; i++ {
				fmt.Fprintf(&b, "# Section %d\nbody\n", i)
			}
			small := normalize.Caps{MaxEndpoints: 5, MaxComponents: 5, MaxSections: 3}

			artifact := normalize.Normalize(b.String(), model.ContentKindMarkdown, small)

			Expect(len(artifact.Sections)).To(BeNumerically("<=", 3))
		})
	})
})
