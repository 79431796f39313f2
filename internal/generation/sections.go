package generation

import (
	"regexp"
	"strings"
)

// Section is one titled block of generated content.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
}

// heading matches lines that begin with exactly one #.
var heading = regexp.MustCompile(`^#([^#].*)$`)

// ParseSections splits heading-delimited content into sections. A line
// beginning with a single # starts a new section titled by the rest of
// the line. Returns ok=false when no headings are found; callers keep
// the flat text in that case.
func ParseSections(content string) ([]Section, bool) {
	var (
		sections []Section
		current  *Section
		body     []string
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(strings.Join(body, "\n"))
		sections = append(sections, *current)
		current = nil
		body = nil
	}

	for _, line := range strings.Split(content, "\n") {
		if m := heading.FindStringSubmatch(line); m != nil {
			flush()
			current = &Section{Title: strings.TrimSpace(m[1])}
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	if len(sections) == 0 {
		return nil, false
	}
	return sections, true
}

// RenderSections joins sections back into heading-delimited text.
func RenderSections(sections []Section) string {
	var b strings.Builder
	for _, s := range sections {
		b.WriteString("# ")
		b.WriteString(s.Title)
		b.WriteString("\n\n")
		b.WriteString(s.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}
