package normalize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/localhostd3veloper/faultline.ai/internal/model"
)

var serviceNameRe = regexp.MustCompile(`(?i)(?:service|microservice|app|worker)\s+([a-zA-Z0-9_-]+)`)

// componentKeywords maps a component type to the vocabulary that reveals it.
// Order is fixed so truncation under the cap is deterministic.
var componentKeywords = []struct {
	kind  string
	words []string
}{
	{"database", []string{"postgres", "mysql", "mongodb", "redis", "db", "database"}},
	{"queue", []string{"rabbitmq", "kafka", "sqs", "pubsub", "queue"}},
	{"cache", []string{"redis", "memcached", "cache"}},
}

func normalizeArchitecture(content string, caps Caps) model.NormalizedArtifact {
	lower := strings.ToLower(content)

	services := extractServices(content, caps.MaxComponents)
	components := extractComponents(lower, caps.MaxComponents)

	return model.NormalizedArtifact{
		Kind:       model.ArtifactKindArchitecture,
		Services:   services,
		Components: components,
		Sections:   map[string]string{"content": content},
	}
}

func extractServices(content string, maxServices int) []string {
	seen := make(map[string]bool)
	var services []string
	for _, m := range serviceNameRe.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		services = append(services, name)
		if len(services) >= maxServices {
			break
		}
	}
	sort.Strings(services)
	return services
}

func extractComponents(lower string, maxComponents int) []model.Component {
	var components []model.Component
	for _, group := range componentKeywords {
		if len(components) >= maxComponents {
			break
		}
		for _, word := range group.words {
			if len(components) >= maxComponents {
				break
			}
			if containsWord(lower, word) {
				components = append(components, model.Component{Name: word, Type: group.kind})
			}
		}
	}
	return components
}

// Precompiled per keyword; normalization runs on concurrent pipeline
// goroutines so the map is read-only after init.
var wordBoundaryRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp)
	for _, group := range componentKeywords {
		for _, word := range group.words {
			res[word] = regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
		}
	}
	return res
}()

func containsWord(text, word string) bool {
	return wordBoundaryRes[word].MatchString(text)
}
