// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble composes the final markdown document from article
// metadata and converted content. It is pure string composition: no I/O.
package assemble

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sep-scraper/pkg/types"
)

const (
	bibliographyHeading = "## Bibliography"
	notesHeading        = "## Notes"

	// noteIndent prefixes the continuation paragraphs of a footnote.
	noteIndent = "    "
)

// Document returns the complete markdown document: frontmatter, title,
// body, bibliography and notes, in that order. Empty sections are omitted.
// The result ends with exactly one newline.
func Document(md types.Metadata, c types.Content) (string, error) {
	fm, err := Frontmatter(md)
	if err != nil {
		return "", err
	}

	parts := []string{strings.TrimSuffix(fm, "\n"), "# " + md.Title}
	if body := strings.TrimSpace(c.Body); body != "" {
		parts = append(parts, body)
	}
	if bib := Bibliography(c.Bibliography); bib != "" {
		parts = append(parts, bibliographyHeading, bib)
	}
	if notes := Notes(c.Notes); notes != "" {
		parts = append(parts, notesHeading, notes)
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

// Frontmatter renders the metadata as a YAML block between "---" fences.
// Keys appear in the order title, author, published, revised, url; absent
// optional fields are left out rather than written as null. Values are
// always double-quoted.
func Frontmatter(md types.Metadata) (string, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key, value string) {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: value},
		)
	}

	add("title", md.Title)
	if md.Author != nil {
		add("author", *md.Author)
	}
	if md.Published != nil {
		add("published", *md.Published)
	}
	if md.Revised != nil {
		add("revised", *md.Revised)
	}
	add("url", md.URL)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	return "---\n" + buf.String() + "---\n", nil
}

// Bibliography renders one "- " line per entry, skipping blank entries.
func Bibliography(entries []string) string {
	var lines []string
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			lines = append(lines, "- "+e)
		}
	}
	return strings.Join(lines, "\n")
}

// Notes renders footnote definitions sorted by number and separated by
// blank lines. Paragraphs after the first are indented so they stay part of
// the definition.
func Notes(notes []types.Note) string {
	sorted := make([]types.Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	defs := make([]string, 0, len(sorted))
	for _, n := range sorted {
		text := strings.TrimSpace(n.Text)
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		for i := 1; i < len(lines); i++ {
			if lines[i] != "" {
				lines[i] = noteIndent + lines[i]
			}
		}
		defs = append(defs, fmt.Sprintf("[^%d]: %s", n.ID, strings.Join(lines, "\n")))
	}
	return strings.Join(defs, "\n\n")
}
