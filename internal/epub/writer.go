package epub

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	bodyOpenTag  = regexp.MustCompile(`(?is)<body[^>]*>`)
	bodyCloseTag = regexp.MustCompile(`(?is)</body\s*>`)

	declEncoding = regexp.MustCompile(`(?i)(<\?xml[^>]*\bencoding=["'])([A-Za-z0-9._-]+)(["'])`)
	metaCharset  = regexp.MustCompile(`(?i)(<meta[^>]*\bcharset=["']?)([A-Za-z0-9._-]+)`)
)

// RegenerateChapter builds new UTF-8 XHTML bytes from a chapter's original
// document shell and a replacement ordered paragraph list.
//
// Everything up to and including the <body> open tag, and everything from
// </body> on, is preserved from the decoded source, keeping the declaration,
// head, and styles intact. The one rewrite in the shell is the declared
// encoding: the emitted bytes are UTF-8 regardless of what the source
// declared, so a stale encoding pseudo-attribute (or meta charset) would make
// every conforming reader mis-decode the output. The body content is replaced
// entirely by newly constructed <p> elements. Paragraph texts are treated as
// text content: markup-significant characters are escaped here, and since
// extraction resolves entities to plain characters, nothing arrives
// pre-escaped to double up.
func RegenerateChapter(sourceMarkup string, paragraphs []string) ([]byte, error) {
	open := bodyOpenTag.FindStringIndex(sourceMarkup)
	if open == nil {
		return nil, fmt.Errorf("%w: no body element in shell", ErrDocumentMalformed)
	}
	end := bodyCloseTag.FindStringIndex(sourceMarkup[open[1]:])
	if end == nil {
		return nil, fmt.Errorf("%w: body element never closed", ErrDocumentMalformed)
	}

	var sb strings.Builder
	sb.WriteString(normalizeEncodingDecls(sourceMarkup[:open[1]]))
	sb.WriteByte('\n')
	for _, p := range paragraphs {
		sb.WriteString("  <p>")
		sb.WriteString(escapeXML(p))
		sb.WriteString("</p>\n")
	}
	sb.WriteString(sourceMarkup[open[1]+end[0]:])

	return []byte(sb.String()), nil
}

// normalizeEncodingDecls rewrites encoding declarations in the document head
// to utf-8 so they match the bytes actually emitted.
func normalizeEncodingDecls(head string) string {
	head = declEncoding.ReplaceAllString(head, "${1}utf-8${3}")
	head = metaCharset.ReplaceAllString(head, "${1}utf-8")
	return head
}

// escapeXML escapes special XML characters.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
