package model

type ArtifactKind string

const (
	ArtifactKindOpenAPI      ArtifactKind = "openapi"
	ArtifactKindArchitecture ArtifactKind = "architecture"
	ArtifactKindMarkdown     ArtifactKind = "markdown"
)

type Endpoint struct {
	Path          string `json:"path"`
	Method        string `json:"method"`
	Secured       bool   `json:"secured"`
	HasPagination bool   `json:"has_pagination"`
	HasVersioning bool   `json:"has_versioning"`
}

type Component struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// NormalizedArtifact is the structured intermediate representation of a raw
// artifact. Which fields are populated depends on Kind. Every list-valued
// field is bounded by the configured cardinality caps; excess items are
// truncated, never rejected.
type NormalizedArtifact struct {
	Kind       ArtifactKind      `json:"kind"`
	Endpoints  []Endpoint        `json:"endpoints,omitempty"`
	Services   []string          `json:"services,omitempty"`
	Components []Component       `json:"components,omitempty"`
	Sections   map[string]string `json:"raw_sections,omitempty"`
}
