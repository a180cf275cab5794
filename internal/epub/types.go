package epub

// Metadata holds the package metadata used for display and regeneration.
type Metadata struct {
	// Title is the primary dc:title value.
	Title string

	// Author is the primary dc:creator value.
	Author string

	// Identifier is the primary dc:identifier value (ISBN, UUID, URI).
	Identifier string

	// Language is the primary dc:language value (BCP 47 tag).
	Language string
}

// Chapter is one spine document with its extracted paragraph texts.
//
// SourceMarkup retains the full decoded XHTML document so the writer can
// preserve the head, styles, and declaration when regenerating the body.
type Chapter struct {
	// ID is the manifest item id for this chapter.
	ID string

	// Href is the ZIP-internal path of the chapter file.
	Href string

	// Title is the chapter title from the NCX, the document <title>,
	// or a positional fallback.
	Title string

	// Paragraphs holds the ordered paragraph texts in document order.
	// Entities are resolved; whitespace-only paragraphs are dropped.
	Paragraphs []string

	// SourceMarkup is the chapter's full XHTML document, decoded to UTF-8
	// exactly once at ingestion.
	SourceMarkup string
}

// Book is the in-memory representation of a parsed ePub.
// It is immutable once parsed; edits flow through the change ledger,
// never back onto Book paragraphs.
type Book struct {
	Metadata Metadata

	// Chapters are the spine's XHTML documents in reading order.
	Chapters []Chapter

	// Path is the source archive path the book was opened from.
	Path string
}

// TotalParagraphs returns the paragraph count across all chapters.
func (b *Book) TotalParagraphs() int {
	n := 0
	for i := range b.Chapters {
		n += len(b.Chapters[i].Paragraphs)
	}
	return n
}
