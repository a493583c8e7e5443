// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrStructure reports that a page lacks an anchor the site layout requires
// (title or body container). A run that hits it writes nothing.
var ErrStructure = errors.New("page does not match the expected article layout")

// Metadata holds the frontmatter fields of a converted article. Optional
// fields are nil when the page does not carry them.
type Metadata struct {
	// Title is the article title. Always present on a successful extraction.
	Title string `json:"title" yaml:"title"`

	// Author is the byline, several authors joined with " and ".
	Author *string `json:"author,omitempty" yaml:"author,omitempty"`

	// Published is the first publication date, ISO YYYY-MM-DD when parseable.
	Published *string `json:"published,omitempty" yaml:"published,omitempty"`

	// Revised is the latest substantive revision date.
	Revised *string `json:"revised,omitempty" yaml:"revised,omitempty"`

	// URL is the fetched URL exactly as given on input.
	URL string `json:"url" yaml:"url"`
}

// Note is one footnote definition keyed by its number.
type Note struct {
	ID   int    `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// Content is the converted article body and its separately collected
// bibliography and notes. Every Note is referenced at least once in Body.
type Content struct {
	Body         string   `json:"body" yaml:"body"`
	Bibliography []string `json:"bibliography" yaml:"bibliography"`
	Notes        []Note   `json:"notes" yaml:"notes"`
}

// Warning records a non-fatal extraction problem: an optional field that
// could not be read, or a single element that was skipped.
type Warning struct {
	Component string `json:"component" yaml:"component"`
	Message   string `json:"message" yaml:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Component, w.Message)
}

// Document is the result of one conversion run.
type Document struct {
	Metadata Metadata
	Content  Content
	Slug     string
	Markdown string
	Warnings []Warning
}
