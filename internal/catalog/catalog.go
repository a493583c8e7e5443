// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps a SQLite record of the articles that have been
// converted and where their documents were written. The record is only ever
// appended to and listed; it is never consulted before a fetch.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sep-scraper/pkg/types"
)

// ErrNotFound is returned by Get for a slug with no record.
var ErrNotFound = errors.New("article not in catalog")

// Entry is one converted article.
type Entry struct {
	Slug        string    `json:"slug" yaml:"slug"`
	Title       string    `json:"title" yaml:"title"`
	Author      string    `json:"author,omitempty" yaml:"author,omitempty"`
	Published   string    `json:"published,omitempty" yaml:"published,omitempty"`
	Revised     string    `json:"revised,omitempty" yaml:"revised,omitempty"`
	URL         string    `json:"url" yaml:"url"`
	Path        string    `json:"path,omitempty" yaml:"path,omitempty"`
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
}

// EntryFor builds the catalog entry for a converted document. Path is empty
// when the document went to standard output.
func EntryFor(md types.Metadata, slug, path string, at time.Time) Entry {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return Entry{
		Slug:        slug,
		Title:       md.Title,
		Author:      deref(md.Author),
		Published:   deref(md.Published),
		Revised:     deref(md.Revised),
		URL:         md.URL,
		Path:        path,
		ConvertedAt: at.UTC(),
	}
}

// Store manages the catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database at path, creating its parent
// directory and schema when missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			slug TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT,
			published TEXT,
			revised TEXT,
			url TEXT NOT NULL,
			path TEXT,
			converted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_url ON articles(url)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts e, replacing any earlier record for the same slug.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (slug, title, author, published, revised, url, path, converted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			published = excluded.published,
			revised = excluded.revised,
			url = excluded.url,
			path = excluded.path,
			converted_at = excluded.converted_at`,
		e.Slug, e.Title, nullable(e.Author), nullable(e.Published), nullable(e.Revised),
		e.URL, nullable(e.Path), e.ConvertedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", e.Slug, err)
	}
	return nil
}

// List returns every entry ordered by slug.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, title, author, published, revised, url, path, converted_at
		FROM articles ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the entry for slug, or ErrNotFound.
func (s *Store) Get(ctx context.Context, slug string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT slug, title, author, published, revised, url, path, converted_at
		FROM articles WHERE slug = ?`, slug)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%s: %w", slug, ErrNotFound)
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var e Entry
	var author, published, revised, path sql.NullString
	var convertedAt string
	if err := sc.Scan(&e.Slug, &e.Title, &author, &published, &revised, &e.URL, &path, &convertedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scanning catalog row: %w", err)
	}
	e.Author, e.Published, e.Revised, e.Path = author.String, published.String, revised.String, path.String

	t, err := time.Parse(time.RFC3339, convertedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing converted_at for %s: %w", e.Slug, err)
	}
	e.ConvertedAt = t
	return e, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
