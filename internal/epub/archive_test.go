package epub

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRewriteArchive(t *testing.T) {
	src := writeTestBook(t)
	out := filepath.Join(t.TempDir(), "washed.epub")

	replacement := `<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter One</title></head>
<body>
  <p>replaced paragraph</p>
</body>
</html>`

	err := RewriteArchive(src, out, map[string][]byte{
		"OEBPS/chapter1.xhtml": []byte(replacement),
	})
	if err != nil {
		t.Fatalf("RewriteArchive failed: %v", err)
	}

	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("output is not a valid zip: %v", err)
	}
	defer zr.Close()

	t.Run("mimetype first and stored", func(t *testing.T) {
		if len(zr.File) == 0 {
			t.Fatal("empty archive")
		}
		first := zr.File[0]
		if first.Name != "mimetype" {
			t.Errorf("expected first entry mimetype, got %s", first.Name)
		}
		if first.Method != zip.Store {
			t.Errorf("expected mimetype stored uncompressed, got method %d", first.Method)
		}
		data := readEntry(t, first)
		if string(data) != "application/epub+zip" {
			t.Errorf("unexpected mimetype content: %q", data)
		}
	})

	t.Run("replacement applied", func(t *testing.T) {
		data := readNamedEntry(t, &zr.Reader, "OEBPS/chapter1.xhtml")
		if !strings.Contains(string(data), "replaced paragraph") {
			t.Error("expected regenerated chapter content")
		}
	})

	t.Run("assets carried through unchanged", func(t *testing.T) {
		css := readNamedEntry(t, &zr.Reader, "OEBPS/style.css")
		if string(css) != "p { margin: 0.5em 0; }" {
			t.Errorf("expected stylesheet carried through, got %q", css)
		}
		opf := readNamedEntry(t, &zr.Reader, "OEBPS/content.opf")
		if string(opf) != testOPF {
			t.Error("expected package document carried through unchanged")
		}
		ch2 := readNamedEntry(t, &zr.Reader, "OEBPS/chapter2.xhtml")
		if string(ch2) != testChapter2 {
			t.Error("expected untouched chapter carried through unchanged")
		}
	})

	t.Run("output still parses as a book", func(t *testing.T) {
		book, err := Open(out)
		if err != nil {
			t.Fatalf("Open on rewritten archive failed: %v", err)
		}
		if len(book.Chapters) != 2 {
			t.Fatalf("expected 2 chapters, got %d", len(book.Chapters))
		}
		if len(book.Chapters[0].Paragraphs) != 1 || book.Chapters[0].Paragraphs[0] != "replaced paragraph" {
			t.Errorf("unexpected chapter 1 paragraphs: %q", book.Chapters[0].Paragraphs)
		}
	})
}

func TestRewriteArchive_ReplacementCasingMismatch(t *testing.T) {
	// The reader resolves manifest hrefs to entries case-insensitively, so a
	// replacement keyed by the manifest's casing must reach an archive entry
	// cased differently instead of silently shipping the original chapter.
	src := writeTestZip(t, []fixtureFile{
		{name: "mimetype", data: "application/epub+zip", store: true},
		{name: "META-INF/container.xml", data: testContainerXML},
		{name: "OEBPS/content.opf", data: testOPF},
		{name: "OEBPS/Chapter1.XHTML", data: testChapter1},
		{name: "OEBPS/chapter2.xhtml", data: testChapter2},
		{name: "OEBPS/toc.ncx", data: testNCX},
		{name: "OEBPS/style.css", data: "p { margin: 0.5em 0; }"},
	})
	out := filepath.Join(t.TempDir(), "washed.epub")

	err := RewriteArchive(src, out, map[string][]byte{
		"OEBPS/chapter1.xhtml": []byte(`<html><head></head><body><p>recased</p></body></html>`),
	})
	if err != nil {
		t.Fatalf("RewriteArchive failed: %v", err)
	}

	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("output is not a valid zip: %v", err)
	}
	defer zr.Close()

	data := readNamedEntry(t, &zr.Reader, "OEBPS/Chapter1.XHTML")
	if !strings.Contains(string(data), "recased") {
		t.Error("expected replacement applied despite entry casing mismatch")
	}
}

func TestRewriteArchive_CorruptSource(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "bad.epub")
	if err := os.WriteFile(src, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := t.TempDir()
	out := filepath.Join(outDir, "out.epub")
	if err := RewriteArchive(src, out, nil); err == nil {
		t.Fatal("expected error for corrupt source")
	}

	// No staging leftovers and no partial output.
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no output files after failure, found %v", entries)
	}
}

func readEntry(t *testing.T, f *zip.File) []byte {
	t.Helper()
	rc, err := f.Open()
	if err != nil {
		t.Fatalf("failed to open %s: %v", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("failed to read %s: %v", f.Name, err)
	}
	return data
}

func readNamedEntry(t *testing.T, zr *zip.Reader, name string) []byte {
	t.Helper()
	f := findFile(zr, name)
	if f == nil {
		t.Fatalf("entry %s not found in archive", name)
	}
	return readEntry(t, f)
}
