package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookwash/bookwash/internal/api"
	"github.com/bookwash/bookwash/internal/ledger"
	"github.com/bookwash/bookwash/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review proposed changes in a ledger",
	Long: `Review inspects and decides the proposed edits recorded by a processing
run. Decisions are terminal: once accepted or rejected, an edit can only be
re-reviewed by reprocessing the book. The ledger is saved after every
mutation.`,
}

// changeView is the review listing's output document.
type changeView struct {
	ID        string `yaml:"id" json:"id"`
	Chapter   string `yaml:"chapter,omitempty" json:"chapter,omitempty"`
	Original  string `yaml:"original" json:"original"`
	Candidate string `yaml:"candidate" json:"candidate"`
	Status    string `yaml:"status" json:"status"`
	Language  bool   `yaml:"language_change" json:"language_change"`
}

// statusView is the review status output document.
type statusView struct {
	Pending  int `yaml:"pending" json:"pending"`
	Accepted int `yaml:"accepted" json:"accepted"`
	Rejected int `yaml:"rejected" json:"rejected"`
	Total    int `yaml:"total" json:"total"`
}

// openEngine loads a ledger by name and wires persistence into the engine:
// every mutation saves the ledger back atomically.
func openEngine(name string) (*review.Engine, error) {
	h, err := openHome()
	if err != nil {
		return nil, err
	}
	path := h.LedgerPath(name)

	l, err := ledger.Load(path)
	if err != nil {
		return nil, err
	}

	engine := review.NewEngine(l)
	engine.OnChange(func() {
		if err := ledger.Save(l, path); err != nil {
			newLogger().Error("failed to save ledger", "path", path, "error", err)
		}
	})
	return engine, nil
}

func chapterTitle(l *ledger.Ledger, id string) string {
	for _, ch := range l.Chapters {
		for _, c := range ch.Changes {
			if c.ID == id {
				return ch.Title
			}
		}
	}
	return ""
}

var reviewListCmd = &cobra.Command{
	Use:   "list <name>",
	Short: "List pending changes in review order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine(args[0])
		if err != nil {
			return err
		}

		var views []changeView
		for _, c := range engine.Pending() {
			views = append(views, changeView{
				ID:        c.ID,
				Chapter:   chapterTitle(engine.Ledger(), c.ID),
				Original:  c.Original,
				Candidate: c.Candidate,
				Status:    string(c.Status),
				Language:  ledger.IsLanguageChange(c),
			})
		}
		return api.Output(views)
	},
}

var reviewShowCmd = &cobra.Command{
	Use:   "show <name> <id>",
	Short: "Show one change",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine(args[0])
		if err != nil {
			return err
		}

		c := engine.Ledger().FindChange(args[1])
		if c == nil {
			return fmt.Errorf("no change with id %q", args[1])
		}
		return api.Output(changeView{
			ID:        c.ID,
			Chapter:   chapterTitle(engine.Ledger(), c.ID),
			Original:  c.Original,
			Candidate: c.Candidate,
			Status:    string(c.Status),
			Language:  ledger.IsLanguageChange(c),
		})
	},
}

var reviewAcceptCmd = &cobra.Command{
	Use:   "accept <name> <id>...",
	Short: "Accept one or more changes",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine(args[0])
		if err != nil {
			return err
		}

		for _, id := range args[1:] {
			if err := engine.Accept(id); err != nil {
				return err
			}
		}
		fmt.Printf("Accepted %d changes, %d pending\n", len(args[1:]), len(engine.Pending()))
		return nil
	},
}

var reviewRejectCmd = &cobra.Command{
	Use:   "reject <name> <id>...",
	Short: "Reject one or more changes",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine(args[0])
		if err != nil {
			return err
		}

		for _, id := range args[1:] {
			if err := engine.Reject(id); err != nil {
				return err
			}
		}
		fmt.Printf("Rejected %d changes, %d pending\n", len(args[1:]), len(engine.Pending()))
		return nil
	},
}

var reviewAcceptAllCmd = &cobra.Command{
	Use:   "accept-all <name>",
	Short: "Accept every pending change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine(args[0])
		if err != nil {
			return err
		}

		n := engine.AcceptAll()
		fmt.Printf("Accepted %d changes\n", n)
		return nil
	},
}

var reviewAcceptLanguageCmd = &cobra.Command{
	Use:   "accept-language <name>",
	Short: "Accept every pending mild-language softening change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine(args[0])
		if err != nil {
			return err
		}

		n := engine.AcceptAllLanguage()
		fmt.Printf("Accepted %d language changes, %d pending\n", n, len(engine.Pending()))
		return nil
	},
}

var reviewStatusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show review progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine(args[0])
		if err != nil {
			return err
		}

		l := engine.Ledger()
		s := statusView{
			Pending:  l.CountByStatus(ledger.StatusPending),
			Accepted: l.CountByStatus(ledger.StatusAccepted),
			Rejected: l.CountByStatus(ledger.StatusRejected),
		}
		s.Total = s.Pending + s.Accepted + s.Rejected
		return api.Output(s)
	},
}

func init() {
	reviewCmd.AddCommand(
		reviewListCmd,
		reviewShowCmd,
		reviewAcceptCmd,
		reviewRejectCmd,
		reviewAcceptAllCmd,
		reviewAcceptLanguageCmd,
		reviewStatusCmd,
	)
	rootCmd.AddCommand(reviewCmd)
}
