package transform

import (
	"strings"

	"golang.org/x/net/html"
)

// Kind is the closed set of element roles the transformer knows how to
// render. Every node is classified into exactly one Kind; anything not
// recognised is KindUnknown and has its children rendered in its place.
type Kind int

const (
	KindUnknown Kind = iota
	KindSkip
	KindText
	KindHeading
	KindParagraph
	KindEmphasis
	KindStrong
	KindCode
	KindLink
	KindLineBreak
	KindList
	KindBlockquote
	KindTable
	KindMathInline
	KindMathBlock
	KindFootnoteRef
	KindFootnoteDef
	KindBibliographyItem
)

var kindNames = [...]string{
	KindUnknown:          "unknown",
	KindSkip:             "skip",
	KindText:             "text",
	KindHeading:          "heading",
	KindParagraph:        "paragraph",
	KindEmphasis:         "emphasis",
	KindStrong:           "strong",
	KindCode:             "code",
	KindLink:             "link",
	KindLineBreak:        "linebreak",
	KindList:             "list",
	KindBlockquote:       "blockquote",
	KindTable:            "table",
	KindMathInline:       "math-inline",
	KindMathBlock:        "math-block",
	KindFootnoteRef:      "footnote-ref",
	KindFootnoteDef:      "footnote-def",
	KindBibliographyItem: "bibliography-item",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Block reports whether the kind produces a block of its own rather than
// inline text.
func (k Kind) Block() bool {
	switch k {
	case KindHeading, KindParagraph, KindList, KindBlockquote, KindTable, KindMathBlock,
		KindFootnoteDef, KindBibliographyItem:
		return true
	}
	return false
}

// skippedTags carry no text worth keeping.
var skippedTags = map[string]bool{
	"head": true, "style": true, "noscript": true, "nav": true, "button": true,
	"form": true, "input": true, "select": true, "textarea": true, "iframe": true,
	"svg": true, "img": true, "video": true, "audio": true, "canvas": true,
	"template": true, "object": true, "embed": true, "map": true, "meta": true,
	"link": true, "hr": true,
}

// classify assigns a Kind to n. Footnote definitions and bibliography items
// are roles assigned by the collectors that find them, so they are looked up
// before the skip set that hides their containers from the body.
func (t *Transformer) classify(n *html.Node) Kind {
	switch n.Type {
	case html.TextNode:
		return KindText
	case html.ElementNode:
	default:
		return KindSkip
	}

	if k, ok := t.roles[n]; ok {
		return k
	}
	if t.skip[n] {
		return KindSkip
	}
	if t.mathScripts[n] {
		if strings.Contains(attr(n, "type"), "mode=display") {
			return KindMathBlock
		}
		return KindMathInline
	}
	if _, ok := attrOK(n, "data-latex"); ok {
		if n.Data == "div" || strings.Contains(attr(n, "class"), "display") {
			return KindMathBlock
		}
		return KindMathInline
	}
	if t.rendered[n] {
		return KindSkip
	}

	switch n.Data {
	case "script":
		return KindSkip
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return KindHeading
	case "p":
		return KindParagraph
	case "em", "i", "cite", "var", "dfn":
		return KindEmphasis
	case "strong", "b":
		return KindStrong
	case "code", "kbd", "samp", "tt":
		return KindCode
	case "br":
		return KindLineBreak
	case "ul", "ol":
		return KindList
	case "blockquote":
		return KindBlockquote
	case "table":
		return KindTable
	case "sup":
		if _, ok := t.footnoteNumber(n); ok {
			return KindFootnoteRef
		}
	case "a":
		if _, ok := t.footnoteNumber(n); ok {
			return KindFootnoteRef
		}
		return KindLink
	}
	if skippedTags[n.Data] {
		return KindSkip
	}
	return KindUnknown
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func isElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, tag := range tags {
		if n.Data == tag {
			return true
		}
	}
	return false
}

func headingLevel(n *html.Node) int {
	if isElement(n, "h1", "h2", "h3", "h4", "h5", "h6") {
		return int(n.Data[1] - '0')
	}
	return 0
}

// textContent returns the concatenated text under n, whitespace collapsed.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// contains reports whether root is an ancestor of (or equal to) n.
func contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}
