// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package site validates article URLs and derives the slug used to name
// output files.
package site

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/sep-scraper/pkg/types"
)

// ErrInvalidURL is returned for URLs that are not article pages.
var ErrInvalidURL = errors.New("not an article URL")

// Validate checks that rawURL is an http(s) URL on one of the configured
// hosts with a path under the entry prefix. It returns the parsed URL.
func Validate(rawURL string, cfg types.SiteConfig) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidURL, rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidURL, rawURL)
	}
	if !hostAllowed(u.Hostname(), cfg.Hosts) {
		return nil, fmt.Errorf("%w: %q: host %s is not a known encyclopedia site", ErrInvalidURL, rawURL, u.Hostname())
	}
	if cfg.EntryPrefix != "" && !strings.HasPrefix(u.Path, cfg.EntryPrefix) {
		return nil, fmt.Errorf("%w: %q: path must start with %s", ErrInvalidURL, rawURL, cfg.EntryPrefix)
	}
	return u, nil
}

func hostAllowed(host string, hosts []string) bool {
	if len(hosts) == 0 {
		return true
	}
	for _, h := range hosts {
		if strings.EqualFold(host, h) {
			return true
		}
	}
	return false
}

// EntrySlug returns the entry name from an article URL: the last non-empty
// path segment ("consciousness" for .../entries/consciousness/). A trailing
// "index.html" is ignored. It returns "" when the path has no usable segment.
func EntrySlug(u *url.URL) string {
	p := strings.TrimSuffix(u.Path, "/")
	if path.Base(p) == "index.html" {
		p = path.Dir(p)
	}
	base := path.Base(p)
	if base == "." || base == "/" || base == "" {
		return ""
	}
	return base
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// TitleSlug folds a title to a lower-case ASCII slug: diacritics are
// stripped and runs of other characters become a single hyphen.
func TitleSlug(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}

// Slug names the output file for an article: the entry slug from the URL,
// else the title slug, else a short hash of the URL.
func Slug(u *url.URL, title string) string {
	if s := EntrySlug(u); s != "" {
		return s
	}
	if s := TitleSlug(title); s != "" {
		return s
	}
	return urlHashSlug(u.String())
}

func urlHashSlug(rawURL string) string {
	h := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("entry-%x", h[:8])
}
