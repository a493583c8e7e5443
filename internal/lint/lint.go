// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lint checks an assembled markdown document: the frontmatter must
// parse as a YAML mapping with the required keys, and every footnote
// reference must have a definition and the other way round. The markdown is
// parsed with goldmark and its footnote extension, so the check sees the
// document the way a renderer will.
package lint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sep-scraper/pkg/types"
)

const fence = "---\n"

var (
	// frontmatterKeys lists the allowed keys in their required order.
	frontmatterKeys = []string{"title", "author", "published", "revised", "url"}
	requiredKeys    = map[string]bool{"title": true, "url": true}

	unresolvedRef = regexp.MustCompile(`\[\^([^\]\s\\]+)\]`)
)

// Finding is one problem in a document.
type Finding struct {
	Check   string
	Message string
}

func (f Finding) String() string {
	return f.Check + ": " + f.Message
}

// Report holds the findings of one Check run.
type Report struct {
	Findings []Finding
}

// OK reports whether the document passed every check.
func (r Report) OK() bool {
	return len(r.Findings) == 0
}

// Warnings converts the findings for the run's warning log.
func (r Report) Warnings() []types.Warning {
	ws := make([]types.Warning, 0, len(r.Findings))
	for _, f := range r.Findings {
		ws = append(ws, types.Warning{Component: "lint", Message: f.String()})
	}
	return ws
}

func (r *Report) add(check, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{Check: check, Message: fmt.Sprintf(format, args...)})
}

// Check runs every check on doc.
func Check(doc string) Report {
	var r Report
	body := checkFrontmatter(doc, &r)
	checkFootnotes(body, &r)
	return r
}

// checkFrontmatter validates the leading YAML block and returns the rest of
// the document.
func checkFrontmatter(doc string, r *Report) string {
	if !strings.HasPrefix(doc, fence) {
		r.add("frontmatter", "document does not open with a frontmatter fence")
		return doc
	}
	rest := doc[len(fence):]
	end := strings.Index(rest, "\n"+fence)
	if end < 0 {
		r.add("frontmatter", "frontmatter is not closed")
		return doc
	}
	block, body := rest[:end+1], rest[end+1+len(fence):]

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(block), &node); err != nil {
		r.add("frontmatter", "invalid YAML: %v", err)
		return body
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		r.add("frontmatter", "frontmatter is not a mapping")
		return body
	}

	mapping := node.Content[0]
	seen := make(map[string]bool)
	last := -1
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i].Value, mapping.Content[i+1]
		pos := keyPosition(key)
		switch {
		case pos < 0:
			r.add("frontmatter", "unexpected key %q", key)
			continue
		case pos < last:
			r.add("frontmatter", "key %q is out of order", key)
		}
		last = pos
		seen[key] = true
		if value.Kind != yaml.ScalarNode || value.Tag != "!!str" {
			r.add("frontmatter", "value of %q is not a string", key)
		}
	}
	for _, key := range frontmatterKeys {
		if requiredKeys[key] && !seen[key] {
			r.add("frontmatter", "missing required key %q", key)
		}
	}
	return body
}

func keyPosition(key string) int {
	for i, k := range frontmatterKeys {
		if k == key {
			return i
		}
	}
	return -1
}

// footnoteAudit records every footnote definition before the footnote
// extension drops the unreferenced ones.
type footnoteAudit struct {
	defs []*east.Footnote
}

func (a *footnoteAudit) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if fn, ok := n.(*east.Footnote); ok && entering {
			a.defs = append(a.defs, fn)
		}
		return ast.WalkContinue, nil
	})
}

func checkFootnotes(body string, r *Report) {
	audit := &footnoteAudit{}
	md := goldmark.New(
		goldmark.WithExtensions(extension.Footnote),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(audit, 100)),
		),
	)
	source := []byte(body)
	doc := md.Parser().Parse(text.NewReader(source))

	for _, fn := range audit.defs {
		if fn.Index < 0 {
			r.add("footnotes", "definition [^%s] is never referenced", fn.Ref)
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Type() != ast.TypeBlock || !hasInlineChildren(n) {
			return ast.WalkContinue, nil
		}
		text := inlineText(n, source)
		for _, m := range unresolvedRef.FindAllStringSubmatchIndex(text, -1) {
			if m[0] > 0 && text[m[0]-1] == '\\' {
				continue
			}
			r.add("footnotes", "reference [^%s] has no definition", text[m[2]:m[3]])
		}
		return ast.WalkSkipChildren, nil
	})
}

func hasInlineChildren(n ast.Node) bool {
	c := n.FirstChild()
	return c != nil && c.Type() == ast.TypeInline
}

// inlineText concatenates the literal text under n, leaving out code spans.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.CodeSpan:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(v.Segment.Value(source))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
