// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package site

import (
	"errors"
	"net/url"
	"testing"

	"github.com/pdiddy/sep-scraper/pkg/types"
)

func TestValidate(t *testing.T) {
	cfg := types.DefaultSite()
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"entry with slash", "https://plato.stanford.edu/entries/consciousness/", false},
		{"entry without slash", "https://plato.stanford.edu/entries/consciousness", false},
		{"mirror", "https://seop.illc.uva.nl/entries/consciousness/", false},
		{"http scheme", "http://plato.stanford.edu/entries/aristotle/", false},
		{"host case", "https://PLATO.stanford.edu/entries/aristotle/", false},
		{"wrong host", "https://example.com/entries/test/", true},
		{"not an entry", "https://plato.stanford.edu/about.html", true},
		{"ftp scheme", "ftp://plato.stanford.edu/entries/aristotle/", true},
		{"garbage", "://nope", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.input, cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidURL) {
				t.Errorf("Validate(%q) err = %v, want ErrInvalidURL", tt.input, err)
			}
		})
	}
}

func TestValidate_NoHostRestriction(t *testing.T) {
	cfg := types.SiteConfig{}
	if _, err := Validate("https://example.org/anything", cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEntrySlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://plato.stanford.edu/entries/consciousness/", "consciousness"},
		{"https://plato.stanford.edu/entries/logic-modal", "logic-modal"},
		{"https://plato.stanford.edu/entries/aristotle/index.html", "aristotle"},
		{"https://plato.stanford.edu/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			u, err := url.Parse(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got := EntrySlug(u); got != tt.want {
				t.Errorf("EntrySlug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTitleSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Consciousness", "consciousness"},
		{"Gödel’s Incompleteness Theorems", "godel-s-incompleteness-theorems"},
		{"  Logic: Modal  ", "logic-modal"},
		{"???", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := TitleSlug(tt.input); got != tt.want {
				t.Errorf("TitleSlug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlug_Fallbacks(t *testing.T) {
	u, _ := url.Parse("https://plato.stanford.edu/")
	if got := Slug(u, "Free Will"); got != "free-will" {
		t.Errorf("Slug with title = %q, want free-will", got)
	}
	got := Slug(u, "")
	if got != urlHashSlug(u.String()) {
		t.Errorf("Slug without title = %q, want hash slug", got)
	}
}
