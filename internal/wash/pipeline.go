// Package wash runs the two halves of a content-washing run: the
// classification pass that turns a parsed book into a change ledger, and the
// apply pass that folds accepted changes back into a regenerated archive.
package wash

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bookwash/bookwash/internal/classify"
	"github.com/bookwash/bookwash/internal/epub"
	"github.com/bookwash/bookwash/internal/ledger"
)

// Options configures a classification run.
type Options struct {
	ProfanityLevel int
	SexualLevel    int
	ViolenceLevel  int

	// FilterWords overrides the default per-term selection.
	FilterWords map[string]bool

	// MaxWorkers bounds concurrent classifier calls. Default 4.
	MaxWorkers int

	Logger *slog.Logger
}

func (o *Options) workers() int {
	if o.MaxWorkers <= 0 {
		return 4
	}
	return o.MaxWorkers
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// paragraphResult carries one classifier verdict back to the assembler.
type paragraphResult struct {
	chapterIdx   int
	paragraphIdx int
	result       *classify.Result
	err          error
}

// Process classifies every paragraph of the book and assembles a ledger of
// proposed changes, all with status pending. Paragraphs the classifier
// leaves unchanged produce no ledger entry.
//
// Classifier calls fan out across bounded workers; assembly afterward is
// deterministic in (chapter, paragraph) order, so change ids are stable
// across runs regardless of completion order.
func Process(ctx context.Context, book *epub.Book, cls classify.Classifier, opts Options) (*ledger.Ledger, error) {
	log := opts.logger().With("classifier", cls.Name(), "book", book.Metadata.Title)

	total := book.TotalParagraphs()
	log.Info("starting classification pass",
		"chapters", len(book.Chapters),
		"paragraphs", total,
		"workers", opts.workers())

	results := make(chan paragraphResult, total)
	sem := make(chan struct{}, opts.workers())
	var wg sync.WaitGroup

	for ci := range book.Chapters {
		for pi, text := range book.Chapters[ci].Paragraphs {
			wg.Add(1)
			go func(ci, pi int, text string) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						results <- paragraphResult{
							chapterIdx:   ci,
							paragraphIdx: pi,
							err:          fmt.Errorf("panic classifying %d.%d: %v", ci, pi, r),
						}
					}
				}()

				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					results <- paragraphResult{chapterIdx: ci, paragraphIdx: pi, err: ctx.Err()}
					return
				}

				res, err := cls.Classify(ctx, &classify.Request{
					Text:           text,
					ProfanityLevel: opts.ProfanityLevel,
					SexualLevel:    opts.SexualLevel,
					ViolenceLevel:  opts.ViolenceLevel,
					FilterWords:    opts.FilterWords,
				})
				if err != nil {
					err = fmt.Errorf("paragraph %d.%d: %w", ci, pi, err)
				}
				results <- paragraphResult{chapterIdx: ci, paragraphIdx: pi, result: res, err: err}
			}(ci, pi, text)
		}
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Index verdicts by position; don't assemble from completion order.
	verdicts := make(map[int]map[int]*classify.Result, len(book.Chapters))
	var errors []string
	for r := range results {
		if r.err != nil {
			errors = append(errors, r.err.Error())
			continue
		}
		if verdicts[r.chapterIdx] == nil {
			verdicts[r.chapterIdx] = make(map[int]*classify.Result)
		}
		verdicts[r.chapterIdx][r.paragraphIdx] = r.result
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("failed to classify %d paragraphs: %s", len(errors), strings.Join(errors, "; "))
	}

	l := &ledger.Ledger{
		BookTitle: book.Metadata.Title,
		Source:    book.Path,
	}
	changed := 0
	for ci := range book.Chapters {
		ch := ledger.Chapter{Index: ci, Title: book.Chapters[ci].Title}
		for pi, text := range book.Chapters[ci].Paragraphs {
			res := verdicts[ci][pi]
			if res == nil || !res.Changed(text) {
				continue
			}
			ch.Changes = append(ch.Changes, ledger.Change{
				ID:        fmt.Sprintf("%d.%d", ci, len(ch.Changes)),
				Original:  text,
				Candidate: res.CleanedText,
				Status:    ledger.StatusPending,
			})
		}
		l.Chapters = append(l.Chapters, ch)
		changed += len(ch.Changes)
	}

	log.Info("classification pass complete", "changes", changed)
	return l, nil
}
