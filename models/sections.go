// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package models

import "strings"

// Section is one "## "-delimited block of a wiki entity's content.
// Text before the first heading becomes a section with an empty heading.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// SplitSections parses free-form entity content into sections on "## "
// headings. The split is display-only; stored content is never rewritten,
// and JoinSections(SplitSections(c)) round-trips any content that itself
// came from JoinSections.
func SplitSections(content string) []Section {
	sections := []Section{}
	if strings.TrimSpace(content) == "" {
		return sections
	}

	current := Section{}
	started := false
	var body []string

	flush := func() {
		if !started {
			return
		}
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		if current.Heading != "" || current.Body != "" {
			sections = append(sections, current)
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "## ") {
			flush()
			current = Section{Heading: strings.TrimSpace(line[3:])}
			body = body[:0]
			started = true
			continue
		}
		if !started {
			// Preamble before the first heading.
			current = Section{}
			started = true
		}
		body = append(body, line)
	}
	flush()

	return sections
}

// JoinSections reassembles sections into stored content form.
func JoinSections(sections []Section) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if s.Heading != "" {
			b.WriteString("## ")
			b.WriteString(s.Heading)
			if s.Body != "" {
				b.WriteString("\n")
			}
		}
		b.WriteString(s.Body)
	}
	return b.String()
}
