package types

import "time"

// HTTPConfig holds settings for the page fetch.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with the request
	// (e.g. "sep-scraper/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SiteLayout names every structural anchor the extractor and transformer
// rely on. A change to the encyclopedia's page layout is an edit here (or in
// the site.layout config section) and nowhere else.
type SiteLayout struct {
	// Title is the CSS selector for the article title.
	Title string `yaml:"title" mapstructure:"title"`

	// TitleFallback is tried when Title matches nothing.
	TitleFallback string `yaml:"title_fallback" mapstructure:"title_fallback"`

	// Body lists CSS selectors for the article body container, tried in order.
	Body []string `yaml:"body" mapstructure:"body"`

	// Preamble is the CSS selector for the introduction before the body.
	Preamble string `yaml:"preamble" mapstructure:"preamble"`

	// PubInfo is an XPath expression for elements that may carry the
	// "First published ...; substantive revision ..." line. The default looks
	// only at the pubinfo block and the article header, never the body text.
	PubInfo string `yaml:"pubinfo" mapstructure:"pubinfo"`

	// Copyright is the CSS selector for the block naming the author.
	Copyright string `yaml:"copyright" mapstructure:"copyright"`

	// AuthorMeta is the CSS selector for meta tags whose content names an
	// author, used when the copyright block yields none.
	AuthorMeta string `yaml:"author_meta" mapstructure:"author_meta"`

	// NotesID is a case-insensitive substring of the id of the notes container.
	NotesID string `yaml:"notes_id" mapstructure:"notes_id"`

	// NoteItem is a regular expression matched against footnote item ids.
	NoteItem string `yaml:"note_item" mapstructure:"note_item"`

	// BibliographyHeadings are the lower-case heading texts that open the
	// bibliography section.
	BibliographyHeadings []string `yaml:"bibliography_headings" mapstructure:"bibliography_headings"`

	// NotesHeadings are the lower-case heading texts that open a notes section.
	NotesHeadings []string `yaml:"notes_headings" mapstructure:"notes_headings"`

	// ExcludedSections are lower-case section headings dropped from the body.
	ExcludedSections []string `yaml:"excluded_sections" mapstructure:"excluded_sections"`

	// MathScript is the CSS selector for MathJax source scripts.
	MathScript string `yaml:"math_script" mapstructure:"math_script"`

	// MathRendered is the CSS selector for rendered MathJax output that
	// carries no formula source.
	MathRendered string `yaml:"math_rendered" mapstructure:"math_rendered"`

	// Skip is a CSS selector for page furniture never rendered into the body.
	Skip string `yaml:"skip" mapstructure:"skip"`
}

// DefaultLayout returns the layout of plato.stanford.edu entry pages.
func DefaultLayout() SiteLayout {
	return SiteLayout{
		Title:         "#aueditable h1",
		TitleFallback: "h1",
		Body:          []string{"#main-text", "#aueditable"},
		Preamble:      "#preamble",
		PubInfo:       "//div[@id='pubinfo'] | //div[@id='aueditable']/p | //div[@id='aueditable']/em",
		Copyright:     "#article-copyright",
		AuthorMeta:    `meta[name="citation_author"], meta[name="DC.creator"]`,
		NotesID:       "note",
		NoteItem:      `(?i)note|fn`,
		BibliographyHeadings: []string{
			"bibliography",
			"references",
		},
		NotesHeadings: []string{"notes", "note"},
		ExcludedSections: []string{
			"related entries",
			"academic tools",
			"other internet resources",
			"acknowledgments",
			"acknowledgements",
		},
		MathScript:   `script[type^="math/tex"]`,
		MathRendered: ".MathJax_Preview, .MathJax, .MathJax_Display, mjx-container",
		Skip:         "#pubinfo, #toc, #academic-tools, #other-internet-resources, #related-entries, #article-copyright, #article-banner",
	}
}

// SiteConfig describes which pages are accepted and how they are laid out.
type SiteConfig struct {
	// Hosts lists the accepted URL hosts.
	Hosts []string `yaml:"hosts" mapstructure:"hosts"`

	// EntryPrefix is the URL path prefix of article pages.
	EntryPrefix string `yaml:"entry_prefix" mapstructure:"entry_prefix"`

	Layout SiteLayout `yaml:"layout" mapstructure:"layout"`
}

// DefaultSite returns the configuration for the encyclopedia and its mirror.
func DefaultSite() SiteConfig {
	return SiteConfig{
		Hosts:       []string{"plato.stanford.edu", "seop.illc.uva.nl"},
		EntryPrefix: "/entries/",
		Layout:      DefaultLayout(),
	}
}

// Macro is one TeX macro definition.
type Macro struct {
	// Name is the macro name without the backslash. Names are case-sensitive.
	Name string `yaml:"name" mapstructure:"name"`

	// Expansion replaces every occurrence of \Name.
	Expansion string `yaml:"expansion" mapstructure:"expansion"`
}

// MathConfig holds settings for formula handling.
type MathConfig struct {
	// Macros lists TeX macros to expand inside formulas. Empty means formulas
	// are emitted verbatim. A list rather than a map because configuration
	// keys are case-folded.
	Macros []Macro `yaml:"macros" mapstructure:"macros"`
}

// MacroMap returns the macros keyed by name. Later definitions win.
func (m MathConfig) MacroMap() map[string]string {
	if len(m.Macros) == 0 {
		return nil
	}
	out := make(map[string]string, len(m.Macros))
	for _, mac := range m.Macros {
		if mac.Name != "" {
			out[mac.Name] = mac.Expansion
		}
	}
	return out
}

// CatalogConfig holds settings for the optional record of converted articles.
type CatalogConfig struct {
	// Path is the SQLite database file. Empty disables the catalog.
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum level written to stderr: debug, info, warn or error.
	Level string `yaml:"level" mapstructure:"level"`
}

// Config groups all settings for one run.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http" mapstructure:"http"`
	Site    SiteConfig    `yaml:"site" mapstructure:"site"`
	Math    MathConfig    `yaml:"math" mapstructure:"math"`
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the settings used when no configuration file or
// flag overrides them.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "sep-scraper/0.1",
		},
		Site: DefaultSite(),
		Log:  LogConfig{Level: "warn"},
	}
}
