// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape runs one conversion: validate the URL, fetch the page once,
// extract metadata and transform the body over the same parsed tree,
// assemble the markdown document and lint it.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pdiddy/sep-scraper/internal/assemble"
	"github.com/pdiddy/sep-scraper/internal/httputil"
	"github.com/pdiddy/sep-scraper/internal/lint"
	"github.com/pdiddy/sep-scraper/internal/logging"
	"github.com/pdiddy/sep-scraper/internal/metadata"
	"github.com/pdiddy/sep-scraper/internal/site"
	"github.com/pdiddy/sep-scraper/internal/transform"
	"github.com/pdiddy/sep-scraper/pkg/types"
)

// Scraper converts article pages. It holds no per-article state; each
// Scrape call is independent.
type Scraper struct {
	cfg    types.Config
	client *http.Client
	log    *zap.Logger
}

// New returns a Scraper for cfg. A nil logger discards all output.
func New(cfg types.Config, log *zap.Logger) *Scraper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{
		cfg:    cfg,
		client: httputil.NewClient(cfg.HTTP),
		log:    log,
	}
}

// Scrape fetches rawURL and converts it. URL validation happens before any
// request is made.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (types.Document, error) {
	u, err := site.Validate(rawURL, s.cfg.Site)
	if err != nil {
		return types.Document{}, err
	}

	s.log.Debug("fetching page", zap.String("url", rawURL))
	page, err := httputil.GetPage(ctx, s.client, rawURL, s.cfg.HTTP)
	if err != nil {
		return types.Document{}, err
	}
	s.log.Debug("fetched page", zap.String("url", rawURL), zap.Int("bytes", len(page)))

	doc, err := Convert(page, u, rawURL, s.cfg)
	if err != nil {
		return types.Document{}, err
	}

	logging.Warnings(s.log, rawURL, doc.Warnings)
	s.log.Debug("converted page",
		zap.String("slug", doc.Slug),
		zap.Int("bibliography", len(doc.Content.Bibliography)),
		zap.Int("notes", len(doc.Content.Notes)),
		zap.Int("warnings", len(doc.Warnings)),
	)
	return doc, nil
}

// Convert turns an already fetched page into a document. u is the parsed
// page URL used to resolve links; rawURL is recorded verbatim in the
// frontmatter.
func Convert(page []byte, u *url.URL, rawURL string, cfg types.Config) (types.Document, error) {
	root, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return types.Document{}, fmt.Errorf("parsing page: %w", err)
	}

	md, mdWarnings, err := metadata.Extract(root, rawURL, cfg.Site.Layout)
	if err != nil {
		return types.Document{}, fmt.Errorf("extracting metadata: %w", err)
	}

	tr, err := transform.New(cfg.Site.Layout, u, cfg.Math)
	if err != nil {
		return types.Document{}, err
	}
	content, trWarnings, err := tr.Transform(root)
	if err != nil {
		return types.Document{}, fmt.Errorf("transforming body: %w", err)
	}

	markdown, err := assemble.Document(md, content)
	if err != nil {
		return types.Document{}, err
	}

	warnings := append(mdWarnings, trWarnings...)
	warnings = append(warnings, lint.Check(markdown).Warnings()...)

	return types.Document{
		Metadata: md,
		Content:  content,
		Slug:     site.Slug(u, md.Title),
		Markdown: markdown,
		Warnings: warnings,
	}, nil
}
