package lint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const goodDoc = `---
title: "Consciousness"
author: "Jane Doe"
published: "2004-06-18"
url: "https://plato.stanford.edu/entries/consciousness/"
---

# Consciousness

A claim.[^1] Another claim.[^2] The first again.[^1]

## Notes

[^1]: First note.

    Second paragraph.

[^2]: Second note with ` + "`[^9]`" + ` in code.
`

func messages(r Report) string {
	var parts []string
	for _, f := range r.Findings {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, "\n")
}

func TestCheckGoodDocument(t *testing.T) {
	r := Check(goodDoc)
	assert.True(t, r.OK(), messages(r))
	assert.Empty(t, r.Warnings())
}

func TestCheckFootnotes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			"reference without definition",
			"Text.[^3]\n",
			[]string{"reference [^3] has no definition"},
		},
		{
			"definition without reference",
			"Text.[^1]\n\n[^1]: one\n\n[^2]: two\n",
			[]string{"definition [^2] is never referenced"},
		},
		{
			"reference inside emphasis",
			"*Text.[^4]*\n",
			[]string{"reference [^4] has no definition"},
		},
		{
			"escaped brackets are literal text",
			"Costs \\[^7\\] and \\[x\\](y).\n",
			nil,
		},
		{
			"balanced",
			"Text.[^1]\n\n[^1]: one\n",
			nil,
		},
	}
	fm := "---\ntitle: \"T\"\nurl: \"https://plato.stanford.edu/entries/t/\"\n---\n\n"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Check(fm + tt.body)
			got := messages(r)
			if tt.want == nil {
				assert.True(t, r.OK(), got)
				return
			}
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			assert.Len(t, r.Findings, len(tt.want))
		})
	}
}

func TestCheckFrontmatter(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"no fence", "# Title\n", "does not open with a frontmatter fence"},
		{"unclosed", "---\ntitle: \"T\"\n", "not closed"},
		{"invalid yaml", "---\ntitle: [\n---\n", "invalid YAML"},
		{"missing url", "---\ntitle: \"T\"\n---\n", `missing required key "url"`},
		{"unknown key", "---\ntitle: \"T\"\nurl: \"u\"\nextra: \"x\"\n---\n", `unexpected key "extra"`},
		{"out of order", "---\nurl: \"u\"\ntitle: \"T\"\n---\n", `key "title" is out of order`},
		{"not a string", "---\ntitle: \"T\"\npublished: 2004-06-18\nurl: \"u\"\n---\n", `value of "published" is not a string`},
		{"null value", "---\ntitle: \"T\"\nauthor: null\nurl: \"u\"\n---\n", `value of "author" is not a string`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Check(tt.doc)
			assert.False(t, r.OK())
			assert.Contains(t, messages(r), tt.want)
		})
	}
}
