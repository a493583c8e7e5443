package transform

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func (t *Transformer) findBibliographySection(doc *goquery.Document, body *html.Node) []*html.Node {
	h := findHeading(doc, t.layout.BibliographyHeadings)
	if h == nil {
		return nil
	}
	return headingSection(h, body)
}

// collectBibliography returns one entry per item of every top-level list in
// the section, in document order. Sections without lists fall back to their
// paragraphs.
func (t *Transformer) collectBibliography(section []*html.Node) []string {
	if len(section) == 0 {
		return nil
	}

	var items []*html.Node
	for _, n := range section {
		items = append(items, listItems(n)...)
	}
	if len(items) == 0 {
		for _, n := range section {
			items = append(items, paragraphs(n)...)
		}
	}

	var entries []string
	for _, item := range items {
		t.roles[item] = KindBibliographyItem
		if e := t.block(item); e != "" {
			entries = append(entries, e)
			continue
		}
		t.warn("bibliography", "empty bibliography entry skipped")
	}
	if len(entries) == 0 {
		t.warn("bibliography", "bibliography section holds no entries")
	}
	return entries
}

func (t *Transformer) bibliographyItem(n *html.Node) string {
	t.plainRefs = true
	defer func() { t.plainRefs = false }()
	return oneLine(t.inlineString(n))
}

// listItems returns the li children of the outermost lists under n.
func listItems(n *html.Node) []*html.Node {
	if isElement(n, "ul", "ol") {
		var items []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if isElement(c, "li") {
				items = append(items, c)
			}
		}
		return items
	}
	var items []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		items = append(items, listItems(c)...)
	}
	return items
}

func paragraphs(n *html.Node) []*html.Node {
	if isElement(n, "p") {
		return []*html.Node{n}
	}
	var ps []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		ps = append(ps, paragraphs(c)...)
	}
	return ps
}
