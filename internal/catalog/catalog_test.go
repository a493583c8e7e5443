// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sep-scraper/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

var converted = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func TestEntryFor(t *testing.T) {
	md := types.Metadata{
		Title:     "Consciousness",
		Author:    strPtr("Jane Doe"),
		Published: strPtr("2004-06-18"),
		URL:       "https://plato.stanford.edu/entries/consciousness/",
	}
	e := EntryFor(md, "consciousness", "out/consciousness.md", converted)

	assert.Equal(t, Entry{
		Slug:        "consciousness",
		Title:       "Consciousness",
		Author:      "Jane Doe",
		Published:   "2004-06-18",
		URL:         "https://plato.stanford.edu/entries/consciousness/",
		Path:        "out/consciousness.md",
		ConvertedAt: converted,
	}, e)
}

func TestRecordAndList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, Entry{Slug: "zeno", Title: "Zeno", URL: "https://plato.stanford.edu/entries/zeno/", ConvertedAt: converted}))
	require.NoError(t, s.Record(ctx, Entry{Slug: "abduction", Title: "Abduction", Author: "Igor Douven", URL: "https://plato.stanford.edu/entries/abduction/", Path: "a.md", ConvertedAt: converted}))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "abduction", entries[0].Slug)
	assert.Equal(t, "Igor Douven", entries[0].Author)
	assert.Equal(t, "a.md", entries[0].Path)
	assert.Equal(t, "zeno", entries[1].Slug)
	assert.Empty(t, entries[1].Author)
	assert.True(t, converted.Equal(entries[1].ConvertedAt))
}

func TestRecordReplacesSameSlug(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, Entry{Slug: "x", Title: "Old", URL: "u", ConvertedAt: converted}))
	later := converted.Add(time.Hour)
	require.NoError(t, s.Record(ctx, Entry{Slug: "x", Title: "New", URL: "u", Revised: "2025-01-01", ConvertedAt: later}))

	e, err := s.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "New", e.Title)
	assert.Equal(t, "2025-01-01", e.Revised)
	assert.True(t, later.Equal(e.ConvertedAt))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGetMissing(t *testing.T) {
	_, err := testStore(t).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), Entry{Slug: "x", Title: "X", URL: "u", ConvertedAt: converted}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFormats(t *testing.T) {
	entries := []Entry{{Slug: "x", Title: "X", URL: "u", Published: "2004-06-18", ConvertedAt: converted}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, entries, FormatTable))
	assert.Contains(t, buf.String(), "Slug")
	assert.Contains(t, buf.String(), "2004-06-18")
	assert.Contains(t, buf.String(), "(stdout)")

	buf.Reset()
	require.NoError(t, Write(&buf, entries, FormatJSON))
	var fromJSON []Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, "x", fromJSON[0].Slug)

	buf.Reset()
	require.NoError(t, Write(&buf, entries, FormatYAML))
	var fromYAML []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, "x", fromYAML[0]["slug"])

	buf.Reset()
	require.NoError(t, Write(&buf, nil, FormatTable))
	assert.True(t, strings.HasPrefix(buf.String(), "No articles"))

	assert.Error(t, Write(&buf, entries, Format("xml")))
}
