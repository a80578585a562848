// Package normalize converts raw artifact text into the structured
// intermediate representation the heuristic and synthesis stages consume.
//
// Normalization is total: it never fails on malformed input. Each content
// kind has a strict structured tier and a pattern-extraction fallback that
// engages when the strict tier fails or yields nothing. Both tiers honor the
// same cardinality caps, truncating excess items rather than rejecting.
package normalize

import (
	"github.com/localhostd3veloper/faultline.ai/internal/model"
)

// Caps bounds every list-valued field of a normalized artifact so downstream
// cost stays proportional regardless of input size.
type Caps struct {
	MaxEndpoints  int
	MaxComponents int
	MaxSections   int
}

// DefaultCaps mirrors the configuration defaults; tests use it directly.
func DefaultCaps() Caps {
	return Caps{MaxEndpoints: 50, MaxComponents: 30, MaxSections: 40}
}

// Normalize converts content to a structured artifact per its declared kind.
func Normalize(content string, kind model.ContentKind, caps Caps) model.NormalizedArtifact {
	switch kind {
	case model.ContentKindOpenAPIJSON, model.ContentKindOpenAPIYAML:
		return normalizeOpenAPI(content, kind, caps)
	case model.ContentKindArchitecture:
		return normalizeArchitecture(content, caps)
	default:
		return normalizeMarkdown(content, caps)
	}
}
