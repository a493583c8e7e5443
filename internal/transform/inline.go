package transform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

var (
	// noteFragment matches link fragments that address a footnote, such as
	// "note-3", "fn3" or "n3".
	noteFragment = regexp.MustCompile(`(?i)^(?:note|fn|n|footnote)[-_:.]?(\d+)$`)

	// noteLabel matches the visible label of a footnote reference: "3",
	// "[3]" or "(3)".
	noteLabel = regexp.MustCompile(`^[\[(]?\s*(\d+)\s*[\])]?$`)

	textEscaper = strings.NewReplacer(
		`\`, `\\`,
		"*", `\*`,
		"_", `\_`,
		"`", "\\`",
		"<", `\<`,
		"$", `\$`,
		"[", `\[`,
		"]", `\]`,
	)

	blankLines = regexp.MustCompile(`\n{3,}`)
)

// inlineWriter accumulates inline markdown. Whitespace is collapsed as it is
// written: a run of spaces becomes one space, and no space is written at the
// start of a line.
type inlineWriter struct {
	b       strings.Builder
	pending bool
	lead    bool
}

func (w *inlineWriter) space() {
	if w.b.Len() == 0 {
		w.lead = true
		return
	}
	w.pending = true
}

func (w *inlineWriter) atLineStart() bool {
	s := w.b.String()
	return s == "" || s[len(s)-1] == '\n'
}

func (w *inlineWriter) flush() {
	if w.pending && !w.atLineStart() {
		w.b.WriteByte(' ')
	}
	w.pending = false
}

func (w *inlineWriter) text(s string) {
	for _, r := range s {
		if unicode.IsSpace(r) {
			w.space()
			continue
		}
		w.flush()
		w.b.WriteRune(r)
	}
}

func (w *inlineWriter) raw(s string) {
	if s == "" {
		return
	}
	w.flush()
	w.b.WriteString(s)
}

func (w *inlineWriter) newline() {
	w.pending = false
	if w.b.Len() > 0 {
		w.b.WriteByte('\n')
	}
}

func (w *inlineWriter) blankLine() {
	w.pending = false
	if w.b.Len() > 0 {
		w.b.WriteString("\n\n")
	}
}

func (w *inlineWriter) String() string {
	return tidy(w.b.String())
}

// tidy strips trailing whitespace from every line and limits blank lines to
// one in a row.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	s = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.Trim(s, "\n")
}

// oneLine folds a multi-line rendering onto a single line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (t *Transformer) inlineString(n *html.Node) string {
	var w inlineWriter
	t.inlineChildren(&w, n)
	return w.String()
}

func (t *Transformer) inlineChildren(w *inlineWriter, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		t.inline(w, c)
	}
}

func (t *Transformer) inline(w *inlineWriter, n *html.Node) {
	switch k := t.classify(n); k {
	case KindSkip:
	case KindText:
		t.writeText(w, n.Data)
	case KindEmphasis:
		t.wrap(w, n, "*")
	case KindStrong:
		t.wrap(w, n, "**")
	case KindCode:
		w.raw(codeSpan(norm.NFC.String(textContent(n))))
	case KindLink:
		t.link(w, n)
	case KindLineBreak:
		w.newline()
	case KindMathInline, KindMathBlock:
		t.mathNode(w, n, k == KindMathBlock)
	case KindFootnoteRef:
		t.footnoteRef(w, n)
	default:
		if k.Block() {
			w.blankLine()
			w.raw(t.block(n))
			w.blankLine()
			return
		}
		t.inlineChildren(w, n)
	}
}

func (t *Transformer) writeText(w *inlineWriter, s string) {
	for _, seg := range splitMath(norm.NFC.String(s)) {
		switch {
		case seg.display:
			t.writeFormula(w, seg.text, true)
		case seg.math:
			t.writeFormula(w, seg.text, false)
		default:
			w.text(textEscaper.Replace(seg.text))
		}
	}
}

// wrap renders n between marker pairs. Spaces at either edge of the content
// are moved outside the markers.
func (t *Transformer) wrap(w *inlineWriter, n *html.Node, marker string) {
	var sub inlineWriter
	t.inlineChildren(&sub, n)
	if sub.lead {
		w.space()
	}
	if s := sub.String(); s != "" {
		w.raw(marker + s + marker)
	}
	if sub.pending {
		w.space()
	}
}

func (t *Transformer) link(w *inlineWriter, n *html.Node) {
	var sub inlineWriter
	t.inlineChildren(&sub, n)
	if sub.lead {
		w.space()
	}

	text := oneLine(sub.String())
	href := strings.TrimSpace(attr(n, "href"))
	switch {
	case text == "":
	case href == "", strings.HasPrefix(strings.ToLower(href), "javascript:"):
		w.raw(text)
	default:
		w.raw("[" + text + "](" + t.resolve(href) + ")")
	}

	if sub.pending {
		w.space()
	}
}

// resolve makes href absolute against the page URL and escapes characters
// that would end a markdown link destination.
func (t *Transformer) resolve(href string) string {
	if t.base != nil {
		if u, err := t.base.Parse(href); err == nil {
			href = u.String()
		}
	}
	return strings.NewReplacer(" ", "%20", "(", "%28", ")", "%29").Replace(href)
}

func codeSpan(s string) string {
	if s == "" {
		return ""
	}
	if strings.Contains(s, "`") {
		return "`` " + s + " ``"
	}
	return "`" + s + "`"
}

func (t *Transformer) footnoteRef(w *inlineWriter, n *html.Node) {
	id, _ := t.footnoteNumber(n)
	if t.plainRefs {
		w.text(textEscaper.Replace(textContent(n)))
		return
	}
	if _, ok := t.notes[id]; !ok {
		if !t.missing[id] {
			t.missing[id] = true
			t.warn("footnotes", "reference to note %d has no definition; dropped", id)
		}
		return
	}
	t.referenced[id] = true
	w.raw(fmt.Sprintf("[^%d]", id))
}

// footnoteNumber reports the note number a footnote reference points at.
// A sup qualifies through the first link inside it; a bare link qualifies
// only when both its fragment and its label name the note.
func (t *Transformer) footnoteNumber(n *html.Node) (int, bool) {
	a := n
	if isElement(n, "sup") {
		a = firstElement(n, "a")
		if a == nil {
			return 0, false
		}
	}

	href, ok := attrOK(a, "href")
	if !ok {
		return 0, false
	}
	i := strings.IndexByte(href, '#')
	if i < 0 {
		return 0, false
	}
	frag := href[i+1:]

	fragNum, fragOK := submatchInt(noteFragment, frag)
	labelNum, labelOK := submatchInt(noteLabel, textContent(n))

	switch {
	case isElement(n, "sup") && fragOK:
		return fragNum, true
	case isElement(n, "sup") && labelOK && frag != "":
		return labelNum, true
	case fragOK && labelOK:
		return fragNum, true
	}
	return 0, false
}

func submatchInt(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// firstElement returns the first descendant of n with the given tag.
func firstElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, tag) {
			return c
		}
		if d := firstElement(c, tag); d != nil {
			return d
		}
	}
	return nil
}
