package transform

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	digits = regexp.MustCompile(`(\d+)`)

	// leadingLabel matches a note number repeated at the start of its text.
	leadingLabel = regexp.MustCompile(`^\\?\[?(\d+)\\?\]?[.):]?\s*`)

	backRefTexts = map[string]bool{"^": true, "↑": true, "↩": true, "↩︎": true, "back": true}
)

// findNotesSection locates the notes container: a div whose id contains the
// layout's notes id, else the section opened by a notes heading.
func (t *Transformer) findNotesSection(doc *goquery.Document, body *html.Node) []*html.Node {
	if id := strings.ToLower(t.layout.NotesID); id != "" {
		var found *html.Node
		doc.Find("div[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			n := s.Get(0)
			if strings.Contains(strings.ToLower(attr(n, "id")), id) && !contains(n, body) && !t.skip[n] {
				found = n
				return false
			}
			return true
		})
		if found != nil {
			return []*html.Node{found}
		}
	}
	if h := findHeading(doc, t.layout.NotesHeadings); h != nil {
		return headingSection(h, body)
	}
	return nil
}

// collectNotes records the definition of every note item in the section.
func (t *Transformer) collectNotes(section []*html.Node) {
	if len(section) == 0 {
		return
	}
	for _, n := range section {
		t.markBackReferences(n)
	}

	var items []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if isElement(n, "p", "li") {
			if _, ok := t.noteID(n); ok {
				items = append(items, n)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range section {
		walk(n)
	}
	if len(items) == 0 {
		t.warn("footnotes", "notes section holds no recognisable note items")
		return
	}

	for _, item := range items {
		id, _ := t.noteID(item)
		t.roles[item] = KindFootnoteDef
		text := t.block(item)
		switch _, dup := t.notes[id]; {
		case text == "":
			t.warn("footnotes", "note %d is empty; dropped", id)
		case dup:
			t.warn("footnotes", "duplicate definition of note %d; keeping the first", id)
		default:
			t.notes[id] = text
		}
	}
}

// noteID returns the number of a note item, read from its own id or from the
// id or name of its first anchor.
func (t *Transformer) noteID(n *html.Node) (int, bool) {
	candidates := []string{attr(n, "id")}
	if a := firstElement(n, "a"); a != nil {
		candidates = append(candidates, attr(a, "id"), attr(a, "name"))
	}
	for _, c := range candidates {
		if c == "" || !t.noteItem.MatchString(c) {
			continue
		}
		if v, ok := submatchInt(digits, c); ok {
			return v, true
		}
	}
	return 0, false
}

// markBackReferences hides the links from a note back to its reference.
func (t *Transformer) markBackReferences(root *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if isElement(n, "a") {
			href := attr(n, "href")
			frag := ""
			if i := strings.IndexByte(href, '#'); i >= 0 {
				frag = strings.ToLower(href[i+1:])
			}
			if strings.HasPrefix(frag, "ref") || backRefTexts[strings.ToLower(textContent(n))] {
				t.skip[n] = true
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// footnoteDef renders a note item. A paragraph item continues through the
// following paragraphs that are not notes themselves.
func (t *Transformer) footnoteDef(n *html.Node) string {
	t.plainRefs = true
	defer func() { t.plainRefs = false }()

	id, _ := t.noteID(n)
	paras := []string{stripLabel(t.inlineString(n), id)}
	if isElement(n, "p") {
		for s := n.NextSibling; s != nil; s = s.NextSibling {
			if s.Type == html.TextNode && strings.TrimSpace(s.Data) == "" {
				continue
			}
			if !isElement(s, "p") {
				break
			}
			if _, ok := t.noteID(s); ok {
				break
			}
			if p := t.inlineString(s); p != "" {
				paras = append(paras, p)
			}
		}
	}
	return strings.TrimSpace(strings.Join(paras, "\n\n"))
}

func stripLabel(s string, id int) string {
	m := leadingLabel.FindStringSubmatch(s)
	if m == nil || m[1] != strconv.Itoa(id) {
		return s
	}
	return s[len(m[0]):]
}
