package metadata

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/pdiddy/sep-scraper/pkg/types"
)

const entryURL = "https://plato.stanford.edu/entries/consciousness/"

const fullPage = `<html><head><meta name="citation_author" content="Meta Author"></head><body>
<div id="aueditable">
  <h1>Consciousness</h1>
  <div id="pubinfo"><em>First published Tue Jun 18, 2004; substantive revision Wed Oct 2, 2024</em></div>
  <div id="main-text"><p>Body.</p></div>
</div>
<div id="article-copyright"><p>
  <a href="../../info.html#c">Copyright © 2024</a> by<br>
  <a href="https://example.edu/~jdoe/">Jane Doe</a>
  &lt;<a href="mailto:jdoe@example.edu">jdoe@example.edu</a>&gt;
</p></div>
</body></html>`

func parse(t *testing.T, page string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)
	return root
}

func TestExtractFullPage(t *testing.T) {
	md, warnings, err := Extract(parse(t, fullPage), entryURL, types.DefaultLayout())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "Consciousness", md.Title)
	require.NotNil(t, md.Author)
	assert.Equal(t, "Jane Doe", *md.Author)
	require.NotNil(t, md.Published)
	assert.Equal(t, "2004-06-18", *md.Published)
	require.NotNil(t, md.Revised)
	assert.Equal(t, "2024-10-02", *md.Revised)
	assert.Equal(t, entryURL, md.URL)
}

func TestExtractMissingFields(t *testing.T) {
	page := `<html><body><div id="aueditable"><h1>Only A Title</h1><p>Text.</p></div></body></html>`

	md, warnings, err := Extract(parse(t, page), entryURL, types.DefaultLayout())
	require.NoError(t, err)

	assert.Equal(t, "Only A Title", md.Title)
	assert.Nil(t, md.Author)
	assert.Nil(t, md.Published)
	assert.Nil(t, md.Revised)
	assert.Equal(t, entryURL, md.URL)
	assert.Len(t, warnings, 2)
}

func TestExtractPublishedOnly(t *testing.T) {
	page := `<html><body><div id="aueditable"><h1>T</h1><p>First published Mon Mar 1, 1999</p></div></body></html>`

	md, _, err := Extract(parse(t, page), entryURL, types.DefaultLayout())
	require.NoError(t, err)
	require.NotNil(t, md.Published)
	assert.Equal(t, "1999-03-01", *md.Published)
	assert.Nil(t, md.Revised)
}

func TestExtractUnparseableDateKeptRaw(t *testing.T) {
	page := `<html><body><div id="aueditable"><h1>T</h1><em>First published sometime in spring</em></div></body></html>`

	md, warnings, err := Extract(parse(t, page), entryURL, types.DefaultLayout())
	require.NoError(t, err)
	require.NotNil(t, md.Published)
	assert.Equal(t, "sometime in spring", *md.Published)
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0].Message, "could not parse published date")
}

func TestExtractIgnoresDatesInBodyText(t *testing.T) {
	page := `<html><body><div id="aueditable"><h1>T</h1>` +
		`<div id="main-text"><p>The theory was first published in 1890; substantive revision followed.</p></div>` +
		`</div></body></html>`

	md, warnings, err := Extract(parse(t, page), entryURL, types.DefaultLayout())
	require.NoError(t, err)
	assert.Nil(t, md.Published)
	assert.Nil(t, md.Revised)
	for _, w := range warnings {
		assert.NotContains(t, w.Message, "could not parse")
	}
}

func TestExtractNoTitle(t *testing.T) {
	_, _, err := Extract(parse(t, `<html><body><p>nothing</p></body></html>`), entryURL, types.DefaultLayout())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrStructure)
}

func TestExtractBadPubInfoExpression(t *testing.T) {
	layout := types.DefaultLayout()
	layout.PubInfo = "//p["
	_, _, err := Extract(parse(t, fullPage), entryURL, layout)
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Tue Jun 18, 2004", "2004-06-18", true},
		{"Wed Oct 2, 2024", "2024-10-02", true},
		{"Thursday September 7, 2023", "2023-09-07", true},
		{"Sept. 7, 2023", "2023-09-07", true},
		{"2021-05-04", "2021-05-04", true},
		{"Feb 30, 2020", "", false},
		{"no date here", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthor(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{
			"copyright link",
			fullPage,
			"Jane Doe",
		},
		{
			"several authors",
			`<div id="article-copyright"><a href="/c">Copyright © 2020</a> by <a href="/a">Ann Smith</a> and <a href="/b">Bo Lee</a></div>`,
			"Ann Smith and Bo Lee",
		},
		{
			"by text without links",
			`<div id="article-copyright">Copyright © 2020 by Ann Smith &lt;ann@example.org&gt;</div>`,
			"Ann Smith",
		},
		{
			"meta fallback",
			`<html><head><meta name="DC.creator" content="Meta Author"></head><body></body></html>`,
			"Meta Author",
		},
		{
			"none",
			`<p>anonymous</p>`,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.page))
			require.NoError(t, err)
			assert.Equal(t, tt.want, Author(doc, types.DefaultLayout()))
		})
	}
}

func TestTitleSelection(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{"layout title", fullPage, "Consciousness"},
		{"fallback h1", `<html><body><div id="main-text"><h1>Plain Title</h1></div></body></html>`, "Plain Title"},
		{"none", `<html><body><p>x</p></body></html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := goquery.NewDocumentFromNode(parse(t, tt.page))
			s := TitleSelection(doc, types.DefaultLayout())
			assert.Equal(t, tt.want, strings.TrimSpace(s.Text()))
			assert.Equal(t, tt.want != "", s.Length() == 1)
		})
	}
}
