package normalize

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/localhostd3veloper/faultline.ai/internal/model"
)

var markdown = goldmark.New()

func normalizeMarkdown(content string, caps Caps) model.NormalizedArtifact {
	sections := extractSections(content, caps.MaxSections)
	if len(sections) == 0 {
		sections = scanSections(content, caps.MaxSections)
	}

	return model.NormalizedArtifact{
		Kind:     model.ArtifactKindMarkdown,
		Sections: sections,
	}
}

type headingSpan struct {
	title     string
	lineStart int // byte offset of the "#" introducing the heading
	lineStop  int // byte offset just past the heading line
}

// extractSections is the strict tier: a goldmark AST walk over ATX headings,
// slicing section bodies out of the source between consecutive headings.
func extractSections(content string, maxSections int) map[string]string {
	src := []byte(content)
	doc := markdown.Parser().Parse(text.NewReader(src))

	var headings []headingSpan
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}
		first := h.Lines().At(0)
		last := h.Lines().At(h.Lines().Len() - 1)
		headings = append(headings, headingSpan{
			title:     strings.TrimSpace(string(h.Text(src))),
			lineStart: lineStartBefore(src, first.Start),
			lineStop:  last.Stop,
		})
		return ast.WalkSkipChildren, nil
	})

	if len(headings) == 0 {
		return nil
	}

	sections := make(map[string]string)

	if preamble := strings.TrimSpace(content[:headings[0].lineStart]); preamble != "" {
		sections["General"] = preamble + "\n"
	}

	for i, h := range headings {
		if len(sections) >= maxSections {
			break
		}
		end := len(content)
		if i+1 < len(headings) {
			end = headings[i+1].lineStart
		}
		body := ""
		if h.lineStop < end {
			body = strings.TrimLeft(content[h.lineStop:end], "\n")
		}
		sections[h.title] = body
	}

	return sections
}

// scanSections is the fallback tier: a plain line scan keyed on leading '#',
// used when the structured parse yields no headings at all.
func scanSections(content string, maxSections int) map[string]string {
	sections := make(map[string]string)
	current := "General"
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "#") {
			if len(sections) >= maxSections {
				break
			}
			current = strings.TrimSpace(strings.TrimLeft(line, "# "))
			sections[current] = ""
			continue
		}
		sections[current] += line + "\n"
	}
	return sections
}

func lineStartBefore(src []byte, pos int) int {
	for pos > 0 && src[pos-1] != '\n' {
		pos--
	}
	return pos
}
