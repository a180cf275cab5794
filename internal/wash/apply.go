package wash

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bookwash/bookwash/internal/epub"
	"github.com/bookwash/bookwash/internal/ledger"
)

// ApplyOptions configures an apply run.
type ApplyOptions struct {
	// MaxWorkers bounds concurrent chapter regenerations. Default 4.
	MaxWorkers int

	Logger *slog.Logger
}

func (o *ApplyOptions) workers() int {
	if o.MaxWorkers <= 0 {
		return 4
	}
	return o.MaxWorkers
}

func (o *ApplyOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// chapterRegen carries one regenerated chapter back to the assembler.
type chapterRegen struct {
	href string
	data []byte
	err  error
}

// Apply folds accepted ledger changes into the book and writes a regenerated
// archive at outPath. Only accepted changes substitute their candidate text;
// rejected and pending changes keep the original paragraph. Chapters with no
// accepted changes are carried through byte-identical.
//
// Regeneration fans out across chapters; the archive writer reassembles them
// in original spine order afterward. Failure on any chapter aborts before
// anything is published.
func Apply(ctx context.Context, book *epub.Book, l *ledger.Ledger, outPath string, opts ApplyOptions) error {
	log := opts.logger().With("book", book.Metadata.Title, "out", outPath)

	type job struct {
		chapter    *epub.Chapter
		paragraphs []string
	}
	var jobs []job
	substituted := 0
	for ci := range book.Chapters {
		ch := &book.Chapters[ci]
		paragraphs, n := substituteAccepted(ch.Paragraphs, chapterChanges(l, ci))
		if n == 0 {
			continue
		}
		substituted += n
		jobs = append(jobs, job{chapter: ch, paragraphs: paragraphs})
	}

	log.Info("applying accepted changes",
		"accepted", l.CountByStatus(ledger.StatusAccepted),
		"substituted", substituted,
		"chapters_touched", len(jobs))

	if len(jobs) == 0 {
		return epub.RewriteArchive(book.Path, outPath, nil)
	}

	results := make(chan chapterRegen, len(jobs))
	sem := make(chan struct{}, opts.workers())
	var wg sync.WaitGroup

	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results <- chapterRegen{
						href: j.chapter.Href,
						err:  fmt.Errorf("panic regenerating %s: %v", j.chapter.Href, r),
					}
				}
			}()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results <- chapterRegen{href: j.chapter.Href, err: ctx.Err()}
				return
			}

			data, err := epub.RegenerateChapter(j.chapter.SourceMarkup, j.paragraphs)
			if err != nil {
				err = fmt.Errorf("chapter %s: %w", j.chapter.Href, err)
			}
			results <- chapterRegen{href: j.chapter.Href, data: data, err: err}
		}(j)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	replacements := make(map[string][]byte, len(jobs))
	var errors []string
	for r := range results {
		if r.err != nil {
			errors = append(errors, r.err.Error())
			continue
		}
		replacements[r.href] = r.data
	}

	if len(errors) > 0 {
		return fmt.Errorf("failed to regenerate %d chapters: %s", len(errors), strings.Join(errors, "; "))
	}

	if err := epub.RewriteArchive(book.Path, outPath, replacements); err != nil {
		return fmt.Errorf("failed to write output archive: %w", err)
	}
	log.Info("apply complete", "chapters_regenerated", len(replacements))
	return nil
}

// chapterChanges returns the ledger chapter matching a book chapter index,
// or nil when the ledger has no entry for it.
func chapterChanges(l *ledger.Ledger, index int) []ledger.Change {
	for i := range l.Chapters {
		if l.Chapters[i].Index == index {
			return l.Chapters[i].Changes
		}
	}
	return nil
}

// substituteAccepted returns a copy of paragraphs with each accepted
// change's candidate substituted for its original, and the substitution
// count. Matching is by exact original text, first unconsumed occurrence
// first, so a paragraph repeated verbatim consumes one change per
// occurrence in order. Rejected and pending changes are ignored here.
func substituteAccepted(paragraphs []string, changes []ledger.Change) ([]string, int) {
	out := make([]string, len(paragraphs))
	copy(out, paragraphs)

	consumed := make([]bool, len(out))
	n := 0
	for _, c := range changes {
		if c.Status != ledger.StatusAccepted {
			continue
		}
		for i, p := range paragraphs {
			if consumed[i] || p != c.Original {
				continue
			}
			out[i] = c.Candidate
			consumed[i] = true
			n++
			break
		}
	}
	return out, n
}
