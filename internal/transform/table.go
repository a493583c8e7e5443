package transform

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
)

// table renders a GFM pipe table. The header row is the thead row, else the
// first row holding th cells, else the first row. Columns are padded to the
// display width of their widest cell.
func (t *Transformer) table(n *html.Node) string {
	rows, header := t.tableRows(n)
	if len(rows) == 0 {
		return ""
	}

	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	for i := range rows {
		for len(rows[i]) < cols {
			rows[i] = append(rows[i], "")
		}
	}
	if header > 0 {
		h := rows[header]
		rows = append([][]string{h}, append(rows[:header], rows[header+1:]...)...)
	}

	widths := make([]int, cols)
	for _, r := range rows {
		for i, cell := range r {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for i := range widths {
		widths[i] = max(widths[i], 3)
	}

	var lines []string
	if caption := firstElement(n, "caption"); caption != nil {
		if c := oneLine(t.inlineString(caption)); c != "" {
			lines = append(lines, c, "")
		}
	}
	for i, r := range rows {
		lines = append(lines, tableLine(r, widths))
		if i == 0 {
			sep := make([]string, cols)
			for j, w := range widths {
				sep[j] = strings.Repeat("-", w)
			}
			lines = append(lines, tableLine(sep, widths))
		}
	}
	return strings.Join(lines, "\n")
}

func tableLine(cells []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for i, c := range cells {
		sb.WriteString(" ")
		sb.WriteString(c)
		if pad := widths[i] - runewidth.StringWidth(c); pad > 0 {
			sb.WriteString(strings.Repeat(" ", pad))
		}
		sb.WriteString(" |")
	}
	return sb.String()
}

// tableRows collects the cell text of every row of n, skipping nested
// tables, and reports the index of the header row.
func (t *Transformer) tableRows(n *html.Node) ([][]string, int) {
	var rows [][]string
	header := -1

	var walk func(*html.Node, bool)
	walk = func(p *html.Node, inHead bool) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case isElement(c, "thead"):
				walk(c, true)
			case isElement(c, "tbody", "tfoot"):
				walk(c, false)
			case isElement(c, "tr"):
				cells, hasTH := t.tableCells(c)
				if len(cells) == 0 {
					continue
				}
				if header < 0 && (inHead || hasTH) {
					header = len(rows)
				}
				rows = append(rows, cells)
			}
		}
	}
	walk(n, false)

	if header < 0 {
		header = 0
	}
	return rows, header
}

func (t *Transformer) tableCells(tr *html.Node) ([]string, bool) {
	var cells []string
	hasTH := false
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if !isElement(c, "td", "th") {
			continue
		}
		if c.Data == "th" {
			hasTH = true
		}
		text := oneLine(t.inlineString(c))
		cells = append(cells, strings.ReplaceAll(text, "|", `\|`))
	}
	return cells, hasTH
}
