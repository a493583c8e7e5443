// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/sep-scraper/internal/catalog"
	"github.com/pdiddy/sep-scraper/internal/output"
	"github.com/pdiddy/sep-scraper/pkg/types"
)

const page = `<html><head><title>Zeno</title></head><body>
<div id="aueditable"><h1>Zeno of Elea</h1>
<div id="pubinfo">First published Tue Apr 30, 2002; substantive revision Mon Oct 3, 2022</div>
<div id="main-text"><p>Zeno argued against motion.</p></div>
<div id="article-copyright"><p>Copyright © 2022 by <a href="https://example.org/~jp">John Palmer</a></p></div>
</div></body></html>`

func testServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/entries/zeno-elea/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testConfig() types.Config {
	cfg := types.DefaultConfig()
	cfg.Site.Hosts = nil
	cfg.HTTP.Timeout = 5 * time.Second
	return cfg
}

func TestConvertArticleToStdout(t *testing.T) {
	srv, _ := testServer(t)
	var stdout, stderr bytes.Buffer

	err := convertArticle(context.Background(), testConfig(), srv.URL+"/entries/zeno-elea/",
		output.Target{}, &stdout, &stderr, zap.NewNop())
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "title: \"Zeno of Elea\"\n")
	assert.Contains(t, stdout.String(), "author: \"John Palmer\"\n")
	assert.Contains(t, stdout.String(), "revised: \"2022-10-03\"\n")
	assert.Contains(t, stdout.String(), "\n# Zeno of Elea\n\nZeno argued against motion.\n")
	assert.Empty(t, stderr.String())
}

func TestConvertArticleToDirectoryRecordsCatalog(t *testing.T) {
	srv, _ := testServer(t)
	dir := t.TempDir()
	cfg := testConfig()
	cfg.Catalog.Path = filepath.Join(dir, "catalog.db")
	var stdout, stderr bytes.Buffer

	err := convertArticle(context.Background(), cfg, srv.URL+"/entries/zeno-elea/",
		output.Target{Dir: filepath.Join(dir, "out")}, &stdout, &stderr, zap.NewNop())
	require.NoError(t, err)

	want := filepath.Join(dir, "out", "zeno-elea.md")
	assert.Empty(t, stdout.String())
	assert.Equal(t, "Written to "+want+"\n", stderr.String())

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Contains(t, string(data), "published: \"2002-04-30\"\n")

	store, err := catalog.Open(cfg.Catalog.Path)
	require.NoError(t, err)
	defer store.Close()
	e, err := store.Get(context.Background(), "zeno-elea")
	require.NoError(t, err)
	assert.Equal(t, "Zeno of Elea", e.Title)
	assert.Equal(t, want, e.Path)
}

func TestConvertArticleFailureWritesNothing(t *testing.T) {
	srv, _ := testServer(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "missing.md")
	var stdout, stderr bytes.Buffer

	err := convertArticle(context.Background(), testConfig(), srv.URL+"/entries/missing/",
		output.Target{File: out}, &stdout, &stderr, zap.NewNop())
	require.Error(t, err)

	assert.NoFileExists(t, out)
	assert.Empty(t, stdout.String())
}

func TestConvertArticleRejectsConflictingTargets(t *testing.T) {
	srv, calls := testServer(t)
	var stdout, stderr bytes.Buffer

	err := convertArticle(context.Background(), testConfig(), srv.URL+"/entries/zeno-elea/",
		output.Target{File: "a.md", Dir: "b"}, &stdout, &stderr, zap.NewNop())
	assert.ErrorIs(t, err, output.ErrConflictingTargets)
	assert.Zero(t, *calls)
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "sep-scraper dev\n", buf.String())
}
