// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sep-scraper CLI. The root command
// converts one encyclopedia article to markdown; subcommands report the
// version and read the catalog of converted articles.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sep-scraper/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the sep-scraper CLI.
var rootCmd = &cobra.Command{
	Use:   "sep-scraper URL",
	Short: "Convert a Stanford Encyclopedia of Philosophy entry to markdown",
	Long: `sep-scraper fetches one entry page from the Stanford Encyclopedia of
Philosophy (or a mirror) and writes it as a markdown document with YAML
frontmatter. Formulas become $...$ and $$...$$, the bibliography becomes a
bulleted list, and footnotes become [^N] references with definitions.

The document goes to standard output unless --output or --directory is given.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runScrape,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sep-scraper.yaml or ~/.config/sep-scraper/sep-scraper.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log progress at debug level")
	rootCmd.PersistentFlags().String("catalog", "", "SQLite catalog of converted articles (disabled when empty)")

	viper.BindPFlag("catalog.path", rootCmd.PersistentFlags().Lookup("catalog"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sep-scraper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sep-scraper"))
		}
	}

	viper.SetEnvPrefix("SEP_SCRAPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing default config file is normal; anything else is reported.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config:", err)
		}
	}
}

// loadConfig overlays the config file, environment and bound flags on the
// defaults.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
