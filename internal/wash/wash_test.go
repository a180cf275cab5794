package wash

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bookwash/bookwash/internal/classify"
	"github.com/bookwash/bookwash/internal/epub"
	"github.com/bookwash/bookwash/internal/ledger"
)

const testOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Wash Test</dc:title>
    <dc:creator>Nobody</dc:creator>
    <dc:identifier id="id">wash-test-1</dc:identifier>
  </metadata>
  <manifest>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`

const testContainer = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const testChapter1 = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>One</title></head>
<body><p>Damn it all.</p><p>A gentle stroll followed.</p></body></html>`

const testChapter2 = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>Two</title></head>
<body><p>What the hell happened here.</p></body></html>`

func writeTestEPUB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.epub")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mt.Write([]byte("application/epub+zip")); err != nil {
		t.Fatal(err)
	}
	for name, data := range map[string]string{
		"META-INF/container.xml": testContainer,
		"content.opf":            testOPF,
		"ch1.xhtml":              testChapter1,
		"ch2.xhtml":              testChapter2,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcess_BuildsLedger(t *testing.T) {
	book, err := epub.Open(writeTestEPUB(t))
	if err != nil {
		t.Fatal(err)
	}

	l, err := Process(context.Background(), book, classify.NewMockClassifier(), Options{
		ProfanityLevel: 1,
		MaxWorkers:     2,
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	if l.BookTitle != "Wash Test" {
		t.Errorf("expected book title carried into ledger, got %q", l.BookTitle)
	}
	if len(l.Chapters) != 2 {
		t.Fatalf("expected 2 ledger chapters, got %d", len(l.Chapters))
	}

	// Chapter 0: one flagged paragraph, one clean.
	if len(l.Chapters[0].Changes) != 1 {
		t.Fatalf("expected 1 change in chapter 0, got %d", len(l.Chapters[0].Changes))
	}
	c := l.Chapters[0].Changes[0]
	if c.ID != "0.0" {
		t.Errorf("expected id 0.0, got %s", c.ID)
	}
	if c.Original != "Damn it all." || c.Candidate != "Darn it all." {
		t.Errorf("unexpected change: %q -> %q", c.Original, c.Candidate)
	}
	if c.Status != ledger.StatusPending {
		t.Errorf("expected pending status, got %s", c.Status)
	}

	if len(l.Chapters[1].Changes) != 1 || l.Chapters[1].Changes[0].ID != "1.0" {
		t.Errorf("unexpected chapter 1 changes: %+v", l.Chapters[1].Changes)
	}
}

func TestProcess_DeterministicIDs(t *testing.T) {
	book, err := epub.Open(writeTestEPUB(t))
	if err != nil {
		t.Fatal(err)
	}

	first, err := Process(context.Background(), book, classify.NewMockClassifier(), Options{ProfanityLevel: 1, MaxWorkers: 4})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Process(context.Background(), book, classify.NewMockClassifier(), Options{ProfanityLevel: 1, MaxWorkers: 1})
	if err != nil {
		t.Fatal(err)
	}

	a, b := first.Changes(), second.Changes()
	if len(a) != len(b) {
		t.Fatalf("run lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Original != b[i].Original || a[i].Candidate != b[i].Candidate {
			t.Errorf("run divergence at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSubstituteAccepted(t *testing.T) {
	paragraphs := []string{"aaa", "bbb", "aaa", "ccc"}
	changes := []ledger.Change{
		{ID: "0.0", Original: "aaa", Candidate: "AAA-1", Status: ledger.StatusAccepted},
		{ID: "0.1", Original: "bbb", Candidate: "BBB", Status: ledger.StatusRejected},
		{ID: "0.2", Original: "aaa", Candidate: "AAA-2", Status: ledger.StatusAccepted},
		{ID: "0.3", Original: "zzz", Candidate: "ZZZ", Status: ledger.StatusAccepted},
	}

	out, n := substituteAccepted(paragraphs, changes)
	if n != 2 {
		t.Errorf("expected 2 substitutions, got %d", n)
	}
	want := []string{"AAA-1", "bbb", "AAA-2", "ccc"}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], out[i])
		}
	}
	if paragraphs[0] != "aaa" {
		t.Error("input slice must not be mutated")
	}
}

func TestApply_AcceptedOnly(t *testing.T) {
	src := writeTestEPUB(t)
	book, err := epub.Open(src)
	if err != nil {
		t.Fatal(err)
	}

	l, err := Process(context.Background(), book, classify.NewMockClassifier(), Options{ProfanityLevel: 1})
	if err != nil {
		t.Fatal(err)
	}

	// Accept the chapter 0 edit, reject the chapter 1 edit.
	l.FindChange("0.0").Status = ledger.StatusAccepted
	l.FindChange("1.0").Status = ledger.StatusRejected

	out := filepath.Join(t.TempDir(), "washed.epub")
	if err := Apply(context.Background(), book, l, out, ApplyOptions{}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	washed, err := epub.Open(out)
	if err != nil {
		t.Fatalf("failed to reopen output: %v", err)
	}
	if got := washed.Chapters[0].Paragraphs[0]; got != "Darn it all." {
		t.Errorf("expected accepted candidate in output, got %q", got)
	}
	if got := washed.Chapters[0].Paragraphs[1]; got != "A gentle stroll followed." {
		t.Errorf("untouched paragraph corrupted: %q", got)
	}
	if got := washed.Chapters[1].Paragraphs[0]; got != "What the hell happened here." {
		t.Errorf("rejected change must keep original text, got %q", got)
	}
}

func TestApply_NoAcceptedChanges(t *testing.T) {
	src := writeTestEPUB(t)
	book, err := epub.Open(src)
	if err != nil {
		t.Fatal(err)
	}

	l, err := Process(context.Background(), book, classify.NewMockClassifier(), Options{ProfanityLevel: 1})
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "washed.epub")
	if err := Apply(context.Background(), book, l, out, ApplyOptions{}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	washed, err := epub.Open(out)
	if err != nil {
		t.Fatalf("failed to reopen output: %v", err)
	}
	for ci := range book.Chapters {
		for pi, p := range book.Chapters[ci].Paragraphs {
			if washed.Chapters[ci].Paragraphs[pi] != p {
				t.Errorf("chapter %d paragraph %d changed on a no-op apply", ci, pi)
			}
		}
	}
}
