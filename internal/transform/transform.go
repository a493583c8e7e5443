// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform converts the body of an encyclopedia article page into
// markdown, collecting its bibliography and footnotes separately.
//
// Element handling is a closed dispatch over Kind; see kinds.go. Site
// specific anchors (body container, notes container, math markup) come from
// a types.SiteLayout rather than literals scattered through the code.
package transform

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pdiddy/sep-scraper/internal/metadata"
	"github.com/pdiddy/sep-scraper/pkg/types"
)

// headingNumber strips section numbering such as "2." or "3.1 " from
// headings before comparing them with section names.
var headingNumber = regexp.MustCompile(`^\d+(?:\.\d+)*\.?\s*`)

// Transformer holds the state of one conversion. It is not reusable across
// documents.
type Transformer struct {
	layout types.SiteLayout
	base   *url.URL
	macros *macroExpander

	noteItem *regexp.Regexp

	skip        map[*html.Node]bool
	mathScripts map[*html.Node]bool
	rendered    map[*html.Node]bool
	roles       map[*html.Node]Kind

	notes      map[int]string
	referenced map[int]bool
	missing    map[int]bool
	plainRefs  bool

	headingShift int
	warnings     []types.Warning
}

// New returns a Transformer for one page fetched from base.
func New(layout types.SiteLayout, base *url.URL, math types.MathConfig) (*Transformer, error) {
	noteItem, err := regexp.Compile(layout.NoteItem)
	if err != nil {
		return nil, fmt.Errorf("compiling note item pattern %q: %w", layout.NoteItem, err)
	}
	return &Transformer{
		layout:      layout,
		base:        base,
		macros:      newMacroExpander(math.MacroMap()),
		noteItem:    noteItem,
		skip:        make(map[*html.Node]bool),
		mathScripts: make(map[*html.Node]bool),
		rendered:    make(map[*html.Node]bool),
		roles:       make(map[*html.Node]Kind),
		missing:     make(map[int]bool),
		notes:       make(map[int]string),
		referenced:  make(map[int]bool),
	}, nil
}

// Transform converts the document rooted at root. It fails with an error
// wrapping types.ErrStructure when no body container is found; every other
// irregularity is reported as a warning.
func (t *Transformer) Transform(root *html.Node) (types.Content, []types.Warning, error) {
	doc := goquery.NewDocumentFromNode(root)

	body := t.findBody(doc)
	if body == nil {
		return types.Content{}, nil, fmt.Errorf("%w: no body container matches %s",
			types.ErrStructure, strings.Join(t.layout.Body, ", "))
	}

	t.markMath(doc)
	t.markSkipped(doc)

	notesSection := t.findNotesSection(doc, body)
	bibSection := t.findBibliographySection(doc, body)
	for _, n := range notesSection {
		t.skip[n] = true
	}
	for _, n := range bibSection {
		t.skip[n] = true
	}

	t.collectNotes(notesSection)

	var containers []*html.Node
	if pre := doc.Find(t.layout.Preamble).First(); t.layout.Preamble != "" && pre.Length() > 0 {
		if p := pre.Get(0); !contains(body, p) && !contains(p, body) {
			containers = append(containers, p)
		}
	}
	containers = append(containers, body)
	t.headingShift = t.computeHeadingShift(containers)

	var blocks []string
	for _, c := range containers {
		blocks = append(blocks, t.blocks(c)...)
	}

	content := types.Content{
		Body:         strings.Join(blocks, "\n\n"),
		Bibliography: t.collectBibliography(bibSection),
	}
	content.Notes = t.referencedNotes()

	return content, t.warnings, nil
}

func (t *Transformer) warn(component, format string, args ...any) {
	t.warnings = append(t.warnings, types.Warning{
		Component: component,
		Message:   fmt.Sprintf(format, args...),
	})
}

func (t *Transformer) findBody(doc *goquery.Document) *html.Node {
	for _, sel := range t.layout.Body {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s.Get(0)
		}
	}
	return nil
}

// markMath records the math source scripts and the rendered math output
// that has no source of its own.
func (t *Transformer) markMath(doc *goquery.Document) {
	if t.layout.MathScript != "" {
		doc.Find(t.layout.MathScript).Each(func(_ int, s *goquery.Selection) {
			t.mathScripts[s.Get(0)] = true
		})
	}
	if t.layout.MathRendered != "" {
		doc.Find(t.layout.MathRendered).Each(func(_ int, s *goquery.Selection) {
			if t.layout.MathScript != "" && s.Find(t.layout.MathScript).Length() > 0 {
				return
			}
			t.rendered[s.Get(0)] = true
		})
	}
}

// markSkipped excludes the title element (emitted separately), every match
// of the title selector, and any layout furniture matched by the skip
// selector.
func (t *Transformer) markSkipped(doc *goquery.Document) {
	if s := metadata.TitleSelection(doc, t.layout); s.Length() > 0 {
		t.skip[s.Get(0)] = true
	}
	for _, sel := range []string{t.layout.Title, t.layout.Skip} {
		if sel == "" {
			continue
		}
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			t.skip[s.Get(0)] = true
		})
	}
}

// computeHeadingShift returns the offset that maps the shallowest heading
// found in the containers to level 2.
func (t *Transformer) computeHeadingShift(containers []*html.Node) int {
	minLevel := 7
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if t.skip[n] {
			return
		}
		if l := headingLevel(n); l > 0 && l < minLevel {
			minLevel = l
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, c := range containers {
		walk(c)
	}
	if minLevel == 7 {
		return 0
	}
	return 2 - minLevel
}

func (t *Transformer) shiftedLevel(level int) int {
	l := level + t.headingShift
	if l < 2 {
		l = 2
	}
	if l > 6 {
		l = 6
	}
	return l
}

// sectionName normalises heading text for comparison with layout names.
func sectionName(n *html.Node) string {
	return strings.ToLower(headingNumber.ReplaceAllString(textContent(n), ""))
}

func (t *Transformer) isExcludedSection(name string) bool {
	for _, list := range [][]string{t.layout.ExcludedSections, t.layout.BibliographyHeadings, t.layout.NotesHeadings} {
		for _, s := range list {
			if name == s {
				return true
			}
		}
	}
	return false
}

// headingSection returns the nodes that make up the section opened by
// heading h: its dedicated container when h is the only major heading of a
// wrapper element other than the body, otherwise h and its following
// siblings up to the next h1-h3.
func headingSection(h, body *html.Node) []*html.Node {
	if p := h.Parent; p != nil && p != body && isElement(p, "div", "section") &&
		!contains(p, body) && majorHeadings(p) == 1 {
		return []*html.Node{p}
	}
	nodes := []*html.Node{h}
	for s := h.NextSibling; s != nil; s = s.NextSibling {
		if isElement(s, "h1", "h2", "h3") {
			break
		}
		nodes = append(nodes, s)
	}
	return nodes
}

func majorHeadings(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, "h1", "h2", "h3") {
			count++
		}
		count += majorHeadings(c)
	}
	return count
}

// findHeading returns the first h2-h4 whose normalised text is one of names.
func findHeading(doc *goquery.Document, names []string) *html.Node {
	var found *html.Node
	doc.Find("h2, h3, h4").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name := sectionName(s.Get(0))
		for _, want := range names {
			if name == want {
				found = s.Get(0)
				return false
			}
		}
		return true
	})
	return found
}

func (t *Transformer) referencedNotes() []types.Note {
	ids := make([]int, 0, len(t.notes))
	for id := range t.notes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	notes := make([]types.Note, 0, len(ids))
	for _, id := range ids {
		if !t.referenced[id] {
			t.warn("footnotes", "note %d is never referenced; dropped", id)
			continue
		}
		notes = append(notes, types.Note{ID: id, Text: t.notes[id]})
	}
	return notes
}
