// Package review implements the accept/reject engine over a change ledger:
// a deterministic pending-change ordering, a navigation cursor, and the
// status transitions a reviewer drives.
package review

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bookwash/bookwash/internal/ledger"
)

// ErrUnknownChange indicates an id that does not exist in the ledger.
var ErrUnknownChange = errors.New("review: unknown change id")

// ErrNotPending indicates an attempted transition on a change that has
// already been accepted or rejected. Review decisions are terminal;
// re-review requires regenerating the ledger.
var ErrNotPending = errors.New("review: change is not pending")

// Engine drives a review session over one ledger.
//
// It is a single-writer structure: the host serializes calls (one command
// at a time), so no internal locking is needed. Mutations flow through the
// ledger's Change entries in place; the engine itself only tracks the
// cursor and notifies observers.
type Engine struct {
	ledger    *ledger.Ledger
	cursor    int
	callbacks []func()
}

// NewEngine creates a review engine positioned at the first pending change.
func NewEngine(l *ledger.Ledger) *Engine {
	return &Engine{ledger: l}
}

// Ledger returns the underlying ledger, for persistence by the host.
func (e *Engine) Ledger() *ledger.Ledger {
	return e.ledger
}

// OnChange registers a callback invoked after every status mutation.
// Callbacks run synchronously on the mutating call.
func (e *Engine) OnChange(fn func()) {
	e.callbacks = append(e.callbacks, fn)
}

func (e *Engine) notify() {
	for _, fn := range e.callbacks {
		fn()
	}
}

// Pending returns all pending changes sorted ascending by the
// (chapterIndex, changeIndex) key parsed from each id. The sort is stable,
// so ids that parse to the same key keep their encounter order.
func (e *Engine) Pending() []*ledger.Change {
	var out []*ledger.Change
	for _, c := range e.ledger.Changes() {
		if c.Status == ledger.StatusPending {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci, ni := ledger.SortKey(out[i].ID)
		cj, nj := ledger.SortKey(out[j].ID)
		if ci != cj {
			return ci < cj
		}
		return ni < nj
	})
	return out
}

// Current returns the pending change under the cursor, or nil when no
// pending changes remain.
func (e *Engine) Current() *ledger.Change {
	pending := e.Pending()
	if len(pending) == 0 {
		return nil
	}
	if e.cursor >= len(pending) {
		return pending[len(pending)-1]
	}
	return pending[e.cursor]
}

// Cursor returns the current cursor position in the pending view.
func (e *Engine) Cursor() int {
	return e.cursor
}

// Accept marks the change as accepted and advances the cursor to the next
// pending change, wrapping to the first remaining one when the accepted
// change was last in the view.
func (e *Engine) Accept(id string) error {
	return e.resolve(id, ledger.StatusAccepted)
}

// Reject marks the change as rejected and advances the cursor like Accept.
func (e *Engine) Reject(id string) error {
	return e.resolve(id, ledger.StatusRejected)
}

func (e *Engine) resolve(id string, status ledger.Status) error {
	c := e.ledger.FindChange(id)
	if c == nil {
		return fmt.Errorf("%w: %q", ErrUnknownChange, id)
	}
	if c.Status != ledger.StatusPending {
		return fmt.Errorf("%w: %q is %s", ErrNotPending, id, c.Status)
	}

	// Record where the change sat in the pending view before mutating,
	// so the cursor can be fixed up against the recomputed view.
	idx := e.pendingIndex(id)

	c.Status = status

	if idx >= 0 && idx < e.cursor {
		e.cursor--
	}
	remaining := len(e.Pending())
	if remaining == 0 {
		e.cursor = 0
	} else if e.cursor >= remaining {
		e.cursor = 0
	}

	e.notify()
	return nil
}

func (e *Engine) pendingIndex(id string) int {
	for i, c := range e.Pending() {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Next moves the cursor forward without mutating status. At the last
// pending change it does nothing; pure navigation never wraps.
func (e *Engine) Next() {
	if e.cursor < len(e.Pending())-1 {
		e.cursor++
	}
}

// Previous moves the cursor backward without mutating status. At the first
// pending change it does nothing.
func (e *Engine) Previous() {
	if e.cursor > 0 {
		e.cursor--
	}
}

// AcceptAll accepts every currently-pending change in one batch,
// independent of cursor position. Observers are notified once.
func (e *Engine) AcceptAll() int {
	n := 0
	for _, c := range e.Pending() {
		c.Status = ledger.StatusAccepted
		n++
	}
	e.cursor = 0
	if n > 0 {
		e.notify()
	}
	return n
}

// AcceptAllLanguage accepts every pending change that looks like a
// mild-language softening edit, leaving the rest pending.
func (e *Engine) AcceptAllLanguage() int {
	n := 0
	for _, c := range e.Pending() {
		if ledger.IsLanguageChange(c) {
			c.Status = ledger.StatusAccepted
			n++
		}
	}
	if remaining := len(e.Pending()); remaining == 0 || e.cursor >= remaining {
		e.cursor = 0
	}
	if n > 0 {
		e.notify()
	}
	return n
}
