// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata reads the frontmatter fields of an article page: title,
// author, first-published and revised dates, and source URL.
package metadata

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/pdiddy/sep-scraper/pkg/types"
)

const isoLayout = "2006-01-02"

var (
	pubLine     = regexp.MustCompile(`(?i)first published|substantive revision`)
	publishedRe = regexp.MustCompile(`(?i)first published\s+(.+?)\s*(?:;|$)`)
	revisedRe   = regexp.MustCompile(`(?i)substantive revision\s+(.+?)\s*(?:;|$)`)

	// entryDate matches the encyclopedia's date form, "Tue Jun 18, 2004".
	entryDate = regexp.MustCompile(`([A-Za-z]{3})[A-Za-z]*\.?\s+(\d{1,2}),?\s+(\d{4})`)
	isoDate   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)

	byAuthor = regexp.MustCompile(`(?i)\bby\s+([^<]+?)\s*(?:<|$)`)
)

// Extract reads the metadata of the page rooted at root. A page without a
// title fails with an error wrapping types.ErrStructure; every other missing
// or malformed field is omitted and reported as a warning.
func Extract(root *html.Node, pageURL string, layout types.SiteLayout) (types.Metadata, []types.Warning, error) {
	doc := goquery.NewDocumentFromNode(root)
	md := types.Metadata{URL: pageURL}
	var warnings []types.Warning
	warn := func(format string, args ...any) {
		warnings = append(warnings, types.Warning{Component: "metadata", Message: fmt.Sprintf(format, args...)})
	}

	md.Title = title(doc, layout)
	if md.Title == "" {
		return types.Metadata{}, nil, fmt.Errorf("%w: no article title", types.ErrStructure)
	}

	published, revised, err := dates(root, layout.PubInfo)
	if err != nil {
		return types.Metadata{}, nil, err
	}
	md.Published = normalizeDate(published, "published", warn)
	md.Revised = normalizeDate(revised, "revised", warn)
	if md.Published == nil {
		warn("no first-published date found")
	}

	if author := Author(doc, layout); author != "" {
		md.Author = &author
	} else {
		warn("no author found")
	}

	return md, warnings, nil
}

func title(doc *goquery.Document, layout types.SiteLayout) string {
	return collapse(TitleSelection(doc, layout).Text())
}

// TitleSelection returns the element the title is read from: the first
// match of the title selector, else of the fallback, skipping empty ones.
// The selection is empty when neither matches.
func TitleSelection(doc *goquery.Document, layout types.SiteLayout) *goquery.Selection {
	for _, sel := range []string{layout.Title, layout.TitleFallback} {
		if sel == "" {
			continue
		}
		if s := doc.Find(sel).First(); collapse(s.Text()) != "" {
			return s
		}
	}
	return doc.Selection.Slice(0, 0)
}

// dates returns the raw published and revised text from the first element
// matched by the pubinfo expression that mentions either.
func dates(root *html.Node, expr string) (published, revised string, err error) {
	if expr == "" {
		return "", "", nil
	}
	nodes, err := htmlquery.QueryAll(root, expr)
	if err != nil {
		return "", "", fmt.Errorf("evaluating pubinfo expression %q: %w", expr, err)
	}
	for _, n := range nodes {
		text := collapse(htmlquery.InnerText(n))
		if !pubLine.MatchString(text) {
			continue
		}
		if m := publishedRe.FindStringSubmatch(text); m != nil {
			published = m[1]
		}
		if m := revisedRe.FindStringSubmatch(text); m != nil {
			revised = m[1]
		}
		return published, revised, nil
	}
	return "", "", nil
}

func normalizeDate(raw, field string, warn func(string, ...any)) *string {
	if raw == "" {
		return nil
	}
	if d, ok := ParseDate(raw); ok {
		return &d
	}
	warn("could not parse %s date %q; keeping it as written", field, raw)
	return &raw
}

// ParseDate converts an encyclopedia date such as "Tue Jun 18, 2004" (or an
// ISO date) to YYYY-MM-DD.
func ParseDate(s string) (string, bool) {
	if m := isoDate.FindStringSubmatch(s); m != nil {
		if _, err := time.Parse(isoLayout, m[1]); err == nil {
			return m[1], true
		}
	}
	m := entryDate.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	d, err := time.Parse("Jan 2 2006", m[1]+" "+m[2]+" "+m[3])
	if err != nil {
		return "", false
	}
	return d.Format(isoLayout), true
}

// Author returns the article's author names joined with " and ". Names come
// from the links of the copyright block, then from its "by ..." text, then
// from author meta tags.
func Author(doc *goquery.Document, layout types.SiteLayout) string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		name = collapse(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	block := doc.Find(layout.Copyright).First()
	block.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		text := a.Text()
		if strings.HasPrefix(strings.ToLower(href), "mailto:") || strings.Contains(text, "@") ||
			strings.Contains(text, "Copyright") || strings.Contains(text, "©") {
			return
		}
		add(text)
	})
	if len(names) == 0 {
		if m := byAuthor.FindStringSubmatch(collapse(block.Text())); m != nil {
			add(m[1])
		}
	}
	if len(names) == 0 && layout.AuthorMeta != "" {
		doc.Find(layout.AuthorMeta).Each(func(_ int, s *goquery.Selection) {
			content, _ := s.Attr("content")
			add(content)
		})
	}
	return strings.Join(names, " and ")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
