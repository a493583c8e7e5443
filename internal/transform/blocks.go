package transform

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// blockContainers always start and end a block, even when they hold only
// inline content.
var blockContainers = map[string]bool{
	"div": true, "section": true, "article": true, "main": true, "header": true,
	"footer": true, "aside": true, "figure": true, "figcaption": true, "dl": true,
	"dt": true, "dd": true, "li": true, "address": true, "center": true,
	"details": true, "summary": true, "pre": true, "caption": true,
}

// blockWalker turns a container into a list of markdown blocks. With
// sections enabled it also drops excluded sections: an excluded h1-h3 starts
// skipping, which ends at the next h1 or h2 that is not excluded.
type blockWalker struct {
	t        *Transformer
	sections bool
	skipping bool
	run      inlineWriter
	out      []string
}

func (t *Transformer) blocks(root *html.Node) []string {
	b := &blockWalker{t: t, sections: true}
	b.children(root)
	b.flush()
	return b.out
}

func (b *blockWalker) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.node(c)
	}
}

func (b *blockWalker) node(n *html.Node) {
	t := b.t
	k := t.classify(n)

	if k == KindHeading && b.sections {
		level := headingLevel(n)
		switch {
		case level <= 3 && t.isExcludedSection(sectionName(n)):
			b.flush()
			b.skipping = true
			return
		case level <= 2:
			b.skipping = false
		}
	}

	if k == KindUnknown && (blockContainers[n.Data] || t.hasBlock(n)) {
		b.flush()
		b.children(n)
		b.flush()
		return
	}
	if b.skipping || k == KindSkip {
		return
	}
	if k.Block() {
		b.flush()
		b.emit(t.block(n))
		return
	}
	t.inline(&b.run, n)
}

func (b *blockWalker) flush() {
	b.emit(b.run.String())
	b.run = inlineWriter{}
}

func (b *blockWalker) emit(s string) {
	if s != "" {
		b.out = append(b.out, s)
	}
}

// hasBlock reports whether any descendant of n renders as a block.
func (t *Transformer) hasBlock(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		k := t.classify(c)
		if k == KindSkip {
			continue
		}
		if k.Block() || (k == KindUnknown && blockContainers[c.Data]) || t.hasBlock(c) {
			return true
		}
	}
	return false
}

// block renders one block-level element.
func (t *Transformer) block(n *html.Node) string {
	switch t.classify(n) {
	case KindHeading:
		text := oneLine(t.inlineString(n))
		if text == "" {
			return ""
		}
		return strings.Repeat("#", t.shiftedLevel(headingLevel(n))) + " " + text
	case KindList:
		return t.list(n, "")
	case KindBlockquote:
		return t.blockquote(n)
	case KindTable:
		return t.table(n)
	case KindMathBlock:
		return t.formula(mathSource(n), true)
	case KindFootnoteDef:
		return t.footnoteDef(n)
	case KindBibliographyItem:
		return t.bibliographyItem(n)
	}
	return t.inlineString(n)
}

// list renders ul/ol. Nested lists and continuation lines are indented by
// the width of the parent item's marker, so "1. " children sit three spaces in.
func (t *Transformer) list(n *html.Node, indent string) string {
	ordered := n.Data == "ol"
	num := 1
	if v, err := strconv.Atoi(strings.TrimSpace(attr(n, "start"))); err == nil {
		num = v
	}

	var lines []string
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if !isElement(li, "li") || t.skip[li] {
			continue
		}

		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", num)
		}
		num++
		cont := indent + strings.Repeat(" ", len(marker))

		var w inlineWriter
		var nested []string
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if t.classify(c) == KindList {
				w.space()
				nested = append(nested, t.list(c, cont))
				continue
			}
			t.inline(&w, c)
		}

		text := w.String()
		if text == "" && len(nested) == 0 {
			continue
		}
		for i, l := range strings.Split(text, "\n") {
			switch {
			case i == 0:
				lines = append(lines, strings.TrimRight(indent+marker+l, " "))
			case l == "":
				lines = append(lines, "")
			default:
				lines = append(lines, cont+l)
			}
		}
		lines = append(lines, nested...)
	}
	return strings.Join(lines, "\n")
}

func (t *Transformer) blockquote(n *html.Node) string {
	inner := &blockWalker{t: t}
	inner.children(n)
	inner.flush()
	if len(inner.out) == 0 {
		return ""
	}

	lines := strings.Split(strings.Join(inner.out, "\n\n"), "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}
