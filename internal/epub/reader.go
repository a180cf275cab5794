// Package epub implements the ePub round-trip: structural parsing of the
// OCF/OPF container into an ordered book model, and regeneration of a valid
// archive with replaced chapter bodies.
package epub

import (
	"archive/zip"
	"fmt"
	"strings"
)

// Open parses the ePub at path into a Book.
//
// Any failure on the read path aborts the whole load: a partial book is
// worse than a clear error. Errors carry the offending chapter or file and
// wrap one of the package sentinels.
func Open(path string) (*Book, error) {
	zrc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArchiveCorrupt, path, err)
	}
	defer zrc.Close()

	book, err := readBook(&zrc.Reader)
	if err != nil {
		return nil, err
	}
	book.Path = path
	return book, nil
}

// readBook assembles the document model from an open ZIP reader.
func readBook(zr *zip.Reader) (*Book, error) {
	opfPath, err := parseContainer(zr)
	if err != nil {
		return nil, err
	}

	opfFile := findFile(zr, opfPath)
	if opfFile == nil {
		return nil, fmt.Errorf("%w: rootfile %s not in archive", ErrContainerMissing, opfPath)
	}
	opfData, err := readZipFile(opfFile)
	if err != nil {
		return nil, fmt.Errorf("epub: read OPF: %w", err)
	}

	pkg, err := parseOPF(opfData)
	if err != nil {
		return nil, err
	}

	spine, err := resolveSpine(pkg, opfPath)
	if err != nil {
		return nil, err
	}

	titles := loadTitles(zr, pkg, opfPath)

	book := &Book{
		Metadata: Metadata{
			Title:      primary(pkg.Metadata.Titles),
			Author:     primary(pkg.Metadata.Creators),
			Identifier: primary(pkg.Metadata.Identifiers),
			Language:   primary(pkg.Metadata.Languages),
		},
	}

	for i, entry := range spine {
		f := findFile(zr, entry.Path)
		if f == nil {
			return nil, fmt.Errorf("%w: spine entry %s (%s) not in archive", ErrManifestInconsistent, entry.ID, entry.Path)
		}
		if !isChapterMediaType(entry.MediaType) {
			// Non-document spine entries (rare: images in spine) pass
			// through at regeneration but hold no paragraphs.
			continue
		}

		raw, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("epub: read chapter %s: %w", entry.Path, err)
		}
		markup, err := decodeText(raw)
		if err != nil {
			return nil, fmt.Errorf("epub: chapter %s: %w", entry.Path, err)
		}
		paragraphs, err := extractParagraphs(markup)
		if err != nil {
			return nil, fmt.Errorf("epub: extract chapter %s: %w", entry.Path, err)
		}

		book.Chapters = append(book.Chapters, Chapter{
			ID:           entry.ID,
			Href:         entry.Path,
			Title:        chapterTitle(titles, entry.Path, markup, i),
			Paragraphs:   paragraphs,
			SourceMarkup: markup,
		})
	}

	return book, nil
}

// loadTitles reads the NCX title map; missing or broken navigation is
// non-fatal since titles are cosmetic.
func loadTitles(zr *zip.Reader, pkg *opfPackage, opfPath string) map[string]string {
	p := ncxPath(pkg, opfPath)
	if p == "" {
		return map[string]string{}
	}
	f := findFile(zr, p)
	if f == nil {
		return map[string]string{}
	}
	data, err := readZipFile(f)
	if err != nil {
		return map[string]string{}
	}
	return parseNCXTitles(data, p)
}

// chapterTitle picks a chapter title: NCX label, then document <title>,
// then a positional fallback.
func chapterTitle(titles map[string]string, path, markup string, index int) string {
	if t, ok := titles[path]; ok {
		return t
	}
	if t := documentTitle(markup); t != "" {
		return t
	}
	return fmt.Sprintf("Chapter %d", index+1)
}

// isChapterMediaType reports whether a manifest media type is an XHTML
// chapter document.
func isChapterMediaType(mediaType string) bool {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "application/xhtml+xml", "text/html", "application/html+xml":
		return true
	}
	return false
}
