package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bookwash/bookwash/internal/api"
	"github.com/bookwash/bookwash/internal/config"
	"github.com/bookwash/bookwash/internal/home"
	"github.com/bookwash/bookwash/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "bookwash",
	Short: "EPUB content washing with reviewable per-paragraph edits",
	Long: `Bookwash cleans the text of an EPUB book to a chosen content rating.

A processing run classifies every paragraph and records proposed edits in a
ledger file. Each edit is reviewed and accepted or rejected; applying the
ledger regenerates the book with only the accepted edits, preserving the
original styling, metadata, and reading order.

Typical flow:
  bookwash process book.epub        # classify, write the change ledger
  bookwash review list book         # inspect proposed edits
  bookwash review accept book 0.0   # decide each edit
  bookwash apply book book.epub     # regenerate the cleaned book`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.bookwash/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "bookwash home directory (default: ~/.bookwash)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the CLI's text logger.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// openHome resolves and creates the home directory layout.
func openHome() (*home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, err
	}
	return h, nil
}

// loadConfig loads configuration, preferring the --config flag, then the
// home directory's config file, then defaults.
func loadConfig(h *home.Dir) (*config.Config, error) {
	path := cfgFile
	if path == "" && h.ConfigExists() {
		path = h.ConfigPath()
	}
	cm, err := config.NewManager(path)
	if err != nil {
		return nil, err
	}
	return cm.Get(), nil
}
