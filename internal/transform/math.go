package transform

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// mathDelims finds MathJax text delimiters: \( inline \) and \[ display \].
var mathDelims = regexp.MustCompile(`(?s)\\\((.*?)\\\)|\\\[(.*?)\\\]`)

// maxMacroPasses bounds macro expansion so self-referencing definitions
// terminate.
const maxMacroPasses = 3

type segment struct {
	text    string
	math    bool
	display bool
}

// splitMath cuts s into plain text and delimited formula segments.
func splitMath(s string) []segment {
	matches := mathDelims.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return []segment{{text: s}}
	}

	var segs []segment
	last := 0
	for _, m := range matches {
		if m[0] > last {
			segs = append(segs, segment{text: s[last:m[0]]})
		}
		if m[2] >= 0 {
			segs = append(segs, segment{text: s[m[2]:m[3]], math: true})
		} else {
			segs = append(segs, segment{text: s[m[4]:m[5]], math: true, display: true})
		}
		last = m[1]
	}
	if last < len(s) {
		segs = append(segs, segment{text: s[last:]})
	}
	return segs
}

// formula returns src wrapped in markdown math delimiters, or "" when src is
// blank. Whitespace runs inside the formula collapse to single spaces.
func (t *Transformer) formula(src string, display bool) string {
	src = strings.Join(strings.Fields(t.macros.expand(src)), " ")
	if src == "" {
		return ""
	}
	if display {
		return "$$" + src + "$$"
	}
	return "$" + src + "$"
}

func (t *Transformer) writeFormula(w *inlineWriter, src string, display bool) {
	f := t.formula(src, display)
	if f == "" {
		return
	}
	if display {
		w.blankLine()
		w.raw(f)
		w.blankLine()
		return
	}
	w.raw(f)
}

// mathSource returns the formula carried by a math element.
func mathSource(n *html.Node) string {
	if v, ok := attrOK(n, "data-latex"); ok {
		return v
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func (t *Transformer) mathNode(w *inlineWriter, n *html.Node, display bool) {
	t.writeFormula(w, mathSource(n), display)
}

// macroExpander rewrites configured TeX macros. A nil or empty expander
// returns formulas unchanged.
type macroExpander struct {
	defs map[string]string
	re   *regexp.Regexp
}

func newMacroExpander(defs map[string]string) *macroExpander {
	if len(defs) == 0 {
		return &macroExpander{}
	}

	names := make([]string, 0, len(defs))
	clean := make(map[string]string, len(defs))
	for name, body := range defs {
		name = strings.TrimPrefix(name, `\`)
		if name == "" {
			continue
		}
		names = append(names, regexp.QuoteMeta(name))
		clean[name] = body
	}
	if len(names) == 0 {
		return &macroExpander{}
	}
	// Longest first so \RR wins over \R.
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	return &macroExpander{
		defs: clean,
		re:   regexp.MustCompile(`\\(` + strings.Join(names, "|") + `)([^a-zA-Z]|$)`),
	}
}

func (e *macroExpander) expand(src string) string {
	if e == nil || e.re == nil {
		return src
	}
	for range maxMacroPasses {
		next := e.re.ReplaceAllStringFunc(src, func(m string) string {
			name := m[1:]
			rest := ""
			if i := strings.IndexFunc(name, func(r rune) bool { return !unicode.IsLetter(r) || r > unicode.MaxASCII }); i >= 0 {
				name, rest = name[:i], name[i:]
			}
			body, ok := e.defs[name]
			if !ok {
				return m
			}
			return body + rest
		})
		if next == src {
			break
		}
		src = next
	}
	return src
}
