// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSections(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Section
	}{
		{
			name:    "empty content",
			content: "",
			want:    []Section{},
		},
		{
			name:    "whitespace only",
			content: "  \n\t\n",
			want:    []Section{},
		},
		{
			name:    "no headings",
			content: "Just a plain paragraph.",
			want: []Section{
				{Heading: "", Body: "Just a plain paragraph."},
			},
		},
		{
			name:    "headings only",
			content: "## History\nOld facts.\n## Trivia\nOdd facts.",
			want: []Section{
				{Heading: "History", Body: "Old facts."},
				{Heading: "Trivia", Body: "Odd facts."},
			},
		},
		{
			name:    "preamble before first heading",
			content: "Intro line.\n## History\nOld facts.",
			want: []Section{
				{Heading: "", Body: "Intro line."},
				{Heading: "History", Body: "Old facts."},
			},
		},
		{
			name:    "empty heading body kept",
			content: "## Placeholder\n## Real\nContent.",
			want: []Section{
				{Heading: "Placeholder", Body: ""},
				{Heading: "Real", Body: "Content."},
			},
		},
		{
			name:    "deeper headings stay in the body",
			content: "## Top\n### Nested\nStill top's body.",
			want: []Section{
				{Heading: "Top", Body: "### Nested\nStill top's body."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSections(tt.content))
		})
	}
}

func TestJoinSectionsRoundTrip(t *testing.T) {
	sections := []Section{
		{Heading: "", Body: "Intro line."},
		{Heading: "History", Body: "Old facts."},
		{Heading: "Trivia", Body: "Odd facts."},
	}

	joined := JoinSections(sections)
	assert.Equal(t, sections, SplitSections(joined))
}

func TestValidKind(t *testing.T) {
	for _, kind := range EntityKinds {
		assert.True(t, ValidKind(kind), "kind %q", kind)
	}
	assert.False(t, ValidKind("villain"))
	assert.False(t, ValidKind(""))
	assert.False(t, ValidKind("Character"))
}
