// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sep-scraper/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the catalog of converted articles",
	Long: `Catalog reads the SQLite record of articles converted with --catalog set.
The record lists each article's metadata and where its document was written.`,
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List converted articles ordered by slug",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	return catalog.Write(cmd.OutOrStdout(), entries, catalog.Format(format))
}

// --- show subcommand ---

var catalogShowCmd = &cobra.Command{
	Use:   "show SLUG",
	Short: "Show the catalog entry for one article",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	e, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return catalog.Write(cmd.OutOrStdout(), []catalog.Entry{e}, catalog.Format(format))
}

// --- shared helpers ---

var errNoCatalog = errors.New("no catalog configured: pass --catalog or set catalog.path")

func openCatalog() (*catalog.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Catalog.Path == "" {
		return nil, errNoCatalog
	}
	store, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.Catalog.Path, err)
	}
	return store, nil
}

func init() {
	catalogListCmd.Flags().String("format", "table", "output format: table, json or yaml")
	catalogShowCmd.Flags().String("format", "yaml", "output format: table, json or yaml")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	rootCmd.AddCommand(catalogCmd)
}
