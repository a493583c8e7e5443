// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/sep-scraper/internal/catalog"
	"github.com/pdiddy/sep-scraper/internal/logging"
	"github.com/pdiddy/sep-scraper/internal/output"
	"github.com/pdiddy/sep-scraper/internal/scrape"
	"github.com/pdiddy/sep-scraper/pkg/types"
)

func init() {
	rootCmd.Flags().StringP("output", "o", "", "write the document to this file")
	rootCmd.Flags().StringP("directory", "d", "", "write the document to DIR/<slug>.md")
	rootCmd.Flags().Duration("timeout", 30*time.Second, "HTTP request timeout")
	rootCmd.Flags().String("user-agent", "sep-scraper/0.1", "User-Agent header for the request")
	rootCmd.MarkFlagsMutuallyExclusive("output", "directory")

	viper.BindPFlag("http.timeout", rootCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("http.user_agent", rootCmd.Flags().Lookup("user-agent"))
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}

	log := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
	defer log.Sync()
	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("using config file", zap.String("path", used))
	}

	outFile, _ := cmd.Flags().GetString("output")
	outDir, _ := cmd.Flags().GetString("directory")
	target := output.Target{File: outFile, Dir: outDir}

	return convertArticle(cmd.Context(), cfg, args[0], target, cmd.OutOrStdout(), cmd.ErrOrStderr(), log)
}

// convertArticle scrapes rawURL, delivers the document to target and, when
// a catalog is configured, records where it went. Nothing is written when
// the conversion fails.
func convertArticle(ctx context.Context, cfg types.Config, rawURL string, target output.Target, stdout, stderr io.Writer, log *zap.Logger) error {
	if _, err := target.Path(""); errors.Is(err, output.ErrConflictingTargets) {
		return err
	}

	doc, err := scrape.New(cfg, log).Scrape(ctx, rawURL)
	if err != nil {
		return err
	}

	path, err := output.Write(doc.Markdown, doc.Slug, target, stdout, stderr)
	if err != nil {
		return err
	}

	if cfg.Catalog.Path == "" {
		return nil
	}
	store, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Record(ctx, catalog.EntryFor(doc.Metadata, doc.Slug, path, time.Now())); err != nil {
		return fmt.Errorf("updating catalog: %w", err)
	}
	log.Debug("recorded in catalog", zap.String("slug", doc.Slug), zap.String("catalog", cfg.Catalog.Path))
	return nil
}
