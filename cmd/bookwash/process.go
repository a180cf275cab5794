package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bookwash/bookwash/internal/classify"
	"github.com/bookwash/bookwash/internal/epub"
	"github.com/bookwash/bookwash/internal/ledger"
	"github.com/bookwash/bookwash/internal/wash"
)

var (
	processName       string
	processClassifier string
	processForce      bool
	processProfanity  int
	processSexual     int
	processViolence   int
)

var processCmd = &cobra.Command{
	Use:   "process <book.epub>",
	Short: "Classify a book's paragraphs and write a change ledger",
	Long: `Process parses the EPUB, runs every paragraph through the configured
classifier, and writes proposed edits to a ledger in the home directory.
Paragraphs the classifier leaves unchanged produce no ledger entry.

The book itself is never modified; edits live in the ledger until applied.

Examples:
  bookwash process book.epub
  bookwash process book.epub --name huck-finn
  bookwash process book.epub --classifier mock`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		h, err := openHome()
		if err != nil {
			return err
		}
		cfg, err := loadConfig(h)
		if err != nil {
			return err
		}

		name := processName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
		ledgerPath := h.LedgerPath(name)
		if !processForce && ledgerExists(ledgerPath) {
			return fmt.Errorf("ledger %s already exists; a new run discards review progress, pass --force to overwrite", ledgerPath)
		}

		if processClassifier != "" {
			cfg.Defaults.Classifier = processClassifier
		}
		cls, err := classify.NewFromConfig(cfg)
		if err != nil {
			return err
		}

		book, err := epub.Open(args[0])
		if err != nil {
			return err
		}

		if processProfanity > 0 {
			cfg.Filter.ProfanityLevel = processProfanity
		}
		if processSexual > 0 {
			cfg.Filter.SexualLevel = processSexual
		}
		if processViolence > 0 {
			cfg.Filter.ViolenceLevel = processViolence
		}

		l, err := wash.Process(ctx, book, cls, wash.Options{
			ProfanityLevel: cfg.Filter.ProfanityLevel,
			SexualLevel:    cfg.Filter.SexualLevel,
			ViolenceLevel:  cfg.Filter.ViolenceLevel,
			FilterWords:    cfg.Filter.Words,
			MaxWorkers:     cfg.Defaults.MaxWorkers,
			Logger:         logger,
		})
		if err != nil {
			return err
		}

		if err := ledger.Save(l, ledgerPath); err != nil {
			return err
		}

		fmt.Printf("Wrote %d proposed changes to %s\n", len(l.Changes()), ledgerPath)
		return nil
	},
}

// ledgerExists reports whether any file sits at path, readable or not. An
// unparseable ledger still guards against overwrite; it may be recoverable
// by hand.
func ledgerExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func init() {
	processCmd.Flags().StringVar(&processName, "name", "", "ledger name (default: book file name)")
	processCmd.Flags().StringVar(&processClassifier, "classifier", "", "classifier to use (default from config)")
	processCmd.Flags().BoolVar(&processForce, "force", false, "overwrite an existing ledger")
	processCmd.Flags().IntVar(&processProfanity, "profanity-level", 0, "profanity level 1-4 (overrides config)")
	processCmd.Flags().IntVar(&processSexual, "sexual-level", 0, "sexual content level 1-4 (overrides config)")
	processCmd.Flags().IntVar(&processViolence, "violence-level", 0, "violence level 1-4 (overrides config)")

	rootCmd.AddCommand(processCmd)
}
