package review

import (
	"errors"
	"testing"

	"github.com/bookwash/bookwash/internal/ledger"
)

func ledgerWithIDs(ids ...string) *ledger.Ledger {
	l := &ledger.Ledger{Chapters: []ledger.Chapter{{Index: 0}}}
	for _, id := range ids {
		l.Chapters[0].Changes = append(l.Chapters[0].Changes, ledger.Change{
			ID:        id,
			Original:  "original " + id,
			Candidate: "candidate " + id,
			Status:    ledger.StatusPending,
		})
	}
	return l
}

func pendingIDs(e *Engine) []string {
	var ids []string
	for _, c := range e.Pending() {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestPending_NumericOrdering(t *testing.T) {
	e := NewEngine(ledgerWithIDs("2.1", "1.3", "1.10", "10.0"))

	got := pendingIDs(e)
	want := []string{"1.3", "1.10", "2.1", "10.0"}
	if len(got) != len(want) {
		t.Fatalf("expected %d pending, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestPending_StableOnFallbackIDs(t *testing.T) {
	// All three parse to the same key via the digit-run fallback, so
	// encounter order must survive the sort.
	e := NewEngine(ledgerWithIDs("legacy-5-a", "legacy-5-b", "x5y"))

	got := pendingIDs(e)
	want := []string{"legacy-5-a", "legacy-5-b", "x5y"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestAccept_AdvancesCursor(t *testing.T) {
	e := NewEngine(ledgerWithIDs("0.0", "0.1", "0.2"))

	if err := e.Accept("0.0"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if c := e.Current(); c == nil || c.ID != "0.1" {
		t.Errorf("expected cursor on 0.1, got %v", c)
	}
}

func TestAccept_LastWrapsToFirstRemaining(t *testing.T) {
	e := NewEngine(ledgerWithIDs("0.0", "0.1", "0.2"))
	e.Next()
	e.Next()
	if c := e.Current(); c.ID != "0.2" {
		t.Fatalf("setup: expected cursor on 0.2, got %s", c.ID)
	}

	if err := e.Accept("0.2"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if e.Cursor() != 0 {
		t.Errorf("expected cursor wrapped to 0, got %d", e.Cursor())
	}
	if c := e.Current(); c == nil || c.ID != "0.0" {
		t.Errorf("expected cursor on first remaining pending change, got %v", c)
	}
}

func TestAccept_BeforeCursorKeepsCurrent(t *testing.T) {
	e := NewEngine(ledgerWithIDs("0.0", "0.1", "0.2"))
	e.Next()
	e.Next()

	if err := e.Accept("0.0"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if c := e.Current(); c == nil || c.ID != "0.2" {
		t.Errorf("expected cursor still on 0.2, got %v", c)
	}
}

func TestAccept_LastRemaining(t *testing.T) {
	e := NewEngine(ledgerWithIDs("0.0"))

	if err := e.Accept("0.0"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if c := e.Current(); c != nil {
		t.Errorf("expected empty view, got %v", c)
	}
	if e.Cursor() != 0 {
		t.Errorf("expected cursor 0 on empty view, got %d", e.Cursor())
	}
}

func TestReject_IsTerminal(t *testing.T) {
	e := NewEngine(ledgerWithIDs("0.0", "0.1"))

	if err := e.Reject("0.0"); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if err := e.Accept("0.0"); !errors.Is(err, ErrNotPending) {
		t.Errorf("expected ErrNotPending on re-review, got %v", err)
	}
	if err := e.Reject("0.0"); !errors.Is(err, ErrNotPending) {
		t.Errorf("expected ErrNotPending on repeat reject, got %v", err)
	}
}

func TestAccept_UnknownID(t *testing.T) {
	e := NewEngine(ledgerWithIDs("0.0"))

	if err := e.Accept("9.9"); !errors.Is(err, ErrUnknownChange) {
		t.Errorf("expected ErrUnknownChange, got %v", err)
	}
}

func TestNavigation_NoWraparound(t *testing.T) {
	e := NewEngine(ledgerWithIDs("0.0", "0.1", "0.2"))

	e.Previous()
	if e.Cursor() != 0 {
		t.Errorf("expected Previous at start to be a no-op, got cursor %d", e.Cursor())
	}

	e.Next()
	e.Next()
	e.Next()
	if e.Cursor() != 2 {
		t.Errorf("expected Next at end to be a no-op, got cursor %d", e.Cursor())
	}

	e.Previous()
	if c := e.Current(); c.ID != "0.1" {
		t.Errorf("expected cursor on 0.1 after Previous, got %s", c.ID)
	}
}

func TestAcceptAll(t *testing.T) {
	e := NewEngine(ledgerWithIDs("0.0", "0.1", "0.2", "0.3"))
	e.Next()
	e.Next()

	if n := e.AcceptAll(); n != 4 {
		t.Errorf("expected 4 accepted, got %d", n)
	}
	if len(e.Pending()) != 0 {
		t.Errorf("expected zero pending after AcceptAll, got %d", len(e.Pending()))
	}
	if got := e.Ledger().CountByStatus(ledger.StatusAccepted); got != 4 {
		t.Errorf("expected 4 accepted in ledger, got %d", got)
	}
	if e.Cursor() != 0 {
		t.Errorf("expected cursor reset to 0, got %d", e.Cursor())
	}
}

func TestAcceptAll_SkipsResolved(t *testing.T) {
	e := NewEngine(ledgerWithIDs("0.0", "0.1", "0.2"))
	if err := e.Reject("0.1"); err != nil {
		t.Fatal(err)
	}

	if n := e.AcceptAll(); n != 2 {
		t.Errorf("expected 2 accepted, got %d", n)
	}
	if e.Ledger().FindChange("0.1").Status != ledger.StatusRejected {
		t.Error("expected rejected change untouched by AcceptAll")
	}
}

func TestAcceptAllLanguage(t *testing.T) {
	l := &ledger.Ledger{Chapters: []ledger.Chapter{{Index: 0, Changes: []ledger.Change{
		{ID: "0.0", Original: "Damn it.", Candidate: "Darn it.", Status: ledger.StatusPending},
		{ID: "0.1", Original: "Graphic scene.", Candidate: "Tamer scene.", Status: ledger.StatusPending},
		{ID: "0.2", Original: "What the hell.", Candidate: "What the heck.", Status: ledger.StatusPending},
	}}}}
	e := NewEngine(l)

	if n := e.AcceptAllLanguage(); n != 2 {
		t.Errorf("expected 2 language changes accepted, got %d", n)
	}
	if l.FindChange("0.1").Status != ledger.StatusPending {
		t.Error("expected non-language change left pending")
	}
	if c := e.Current(); c == nil || c.ID != "0.1" {
		t.Errorf("expected cursor on remaining pending change, got %v", c)
	}
}

func TestOnChange_Notifications(t *testing.T) {
	e := NewEngine(ledgerWithIDs("0.0", "0.1", "0.2"))

	calls := 0
	e.OnChange(func() { calls++ })

	e.Next()
	if calls != 0 {
		t.Errorf("navigation must not notify, got %d calls", calls)
	}

	if err := e.Accept("0.0"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("expected 1 notification after accept, got %d", calls)
	}

	e.AcceptAll()
	if calls != 2 {
		t.Errorf("expected batch mutation to notify once, got %d total", calls)
	}

	if e.AcceptAll() != 0 {
		t.Fatal("expected no-op AcceptAll")
	}
	if calls != 2 {
		t.Errorf("expected no notification for no-op batch, got %d total", calls)
	}
}
