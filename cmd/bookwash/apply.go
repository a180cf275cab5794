package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bookwash/bookwash/internal/epub"
	"github.com/bookwash/bookwash/internal/ledger"
	"github.com/bookwash/bookwash/internal/wash"
)

var applyOut string

var applyCmd = &cobra.Command{
	Use:   "apply <name> <book.epub>",
	Short: "Regenerate the book with accepted changes applied",
	Long: `Apply folds the ledger's accepted changes back into the book and writes
a regenerated EPUB. Only accepted edits substitute their candidate text;
rejected and still-pending edits keep the original paragraph. Everything
else in the archive carries through unchanged.

The output defaults to <name>.epub in the home exports directory.`,
	Args: cobra.ExactArgs(2),
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

		l, err := ledger.Load(h.LedgerPath(args[0]))
		if err != nil {
			return err
		}
		if n := l.CountByStatus(ledger.StatusPending); n > 0 {
			logger.Warn("ledger still has pending changes; they keep the original text", "pending", n)
		}

		book, err := epub.Open(args[1])
		if err != nil {
			return err
		}

		out := applyOut
		if out == "" {
			out = filepath.Join(h.ExportsPath(), args[0]+".epub")
		}

		if err := wash.Apply(ctx, book, l, out, wash.ApplyOptions{
			MaxWorkers: cfg.Defaults.MaxWorkers,
			Logger:     logger,
		}); err != nil {
			return err
		}

		fmt.Printf("Wrote %s\n", out)
		return nil
	},
}

func init() {
	applyCmd.Flags().StringVar(&applyOut, "out", "", "output path (default: exports/<name>.epub)")

	rootCmd.AddCommand(applyCmd)
}
