package normalize

import (
	"encoding/json"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/localhostd3veloper/faultline.ai/internal/model"
)

var (
	httpMethods = map[string]bool{
		"get": true, "post": true, "put": true, "delete": true, "patch": true,
	}
	paginationParams = map[string]bool{
		"page": true, "offset": true, "limit": true,
	}
	fallbackPathRe = regexp.MustCompile(`['"]?/([a-zA-Z0-9/_{}-]+)['"]?:`)
)

func normalizeOpenAPI(content string, kind model.ContentKind, caps Caps) model.NormalizedArtifact {
	var doc map[string]any
	var err error

	// Strict tier: decode the document as declared. YAML documents that are
	// actually JSON still decode fine through yaml.v3.
	if kind == model.ContentKindOpenAPIJSON {
		err = json.Unmarshal([]byte(content), &doc)
	} else {
		err = yaml.Unmarshal([]byte(content), &doc)
	}

	var endpoints []model.Endpoint
	if err == nil && doc != nil {
		endpoints = extractEndpoints(doc, caps.MaxEndpoints)
	}

	// Fallback tier: pattern extraction of path-looking keys. Engages on
	// decode failure or when the strict tier found nothing.
	if len(endpoints) == 0 {
		endpoints = extractEndpointsByPattern(content, caps.MaxEndpoints)
	}

	return model.NormalizedArtifact{
		Kind:      model.ArtifactKindOpenAPI,
		Endpoints: endpoints,
		Sections:  map[string]string{"content": content},
	}
}

func extractEndpoints(doc map[string]any, maxEndpoints int) []model.Endpoint {
	paths, _ := doc["paths"].(map[string]any)
	if len(paths) == 0 {
		return nil
	}

	_, globalSecurity := doc["security"]
	versionedInfo := infoVersionLooksVersioned(doc)

	var endpoints []model.Endpoint
	for path, raw := range paths {
		if len(endpoints) >= maxEndpoints {
			break
		}
		methods, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for method, rawDetails := range methods {
			if len(endpoints) >= maxEndpoints {
				break
			}
			if !httpMethods[strings.ToLower(method)] {
				continue
			}
			details, _ := rawDetails.(map[string]any)

			_, opSecurity := details["security"]
			endpoints = append(endpoints, model.Endpoint{
				Path:          path,
				Method:        strings.ToUpper(method),
				Secured:       opSecurity || globalSecurity,
				HasPagination: hasPaginationParam(details),
				HasVersioning: strings.Contains(path, "/v") || versionedInfo,
			})
		}
	}
	return endpoints
}

func hasPaginationParam(details map[string]any) bool {
	params, _ := details["parameters"].([]any)
	for _, raw := range params {
		p, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if name, _ := p["name"].(string); paginationParams[name] {
			return true
		}
	}
	return false
}

func infoVersionLooksVersioned(doc map[string]any) bool {
	info, _ := doc["info"].(map[string]any)
	version, _ := info["version"].(string)
	return strings.Contains(strings.ToLower(version), "version")
}

// extractEndpointsByPattern pulls path-shaped keys out of arbitrary text.
// Methods are unknown at this tier, and endpoints default to secured so the
// unsecured-write heuristic stays quiet on guesses.
func extractEndpointsByPattern(content string, maxEndpoints int) []model.Endpoint {
	matches := fallbackPathRe.FindAllStringSubmatch(content, -1)
	var endpoints []model.Endpoint
	for _, m := range matches {
		if len(endpoints) >= maxEndpoints {
			break
		}
		endpoints = append(endpoints, model.Endpoint{
			Path:    "/" + m[1],
			Method:  "UNKNOWN",
			Secured: true,
		})
	}
	return endpoints
}
