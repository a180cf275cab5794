package epub

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// xmlDeclEncoding matches the encoding pseudo-attribute of an XML declaration.
var xmlDeclEncoding = regexp.MustCompile(`(?i)^<\?xml[^>]*\bencoding=["']([A-Za-z0-9._-]+)["']`)

// decodeText decodes raw chapter bytes to a UTF-8 string.
//
// Decoding happens exactly once, at ingestion: the declared encoding is taken
// from the XML declaration when present, otherwise sniffed from BOM/meta tags.
// Feeding already-decoded text back through this function would corrupt
// multi-byte sequences, so callers hold the result as a string from here on.
func decodeText(data []byte) (string, error) {
	data = stripBOM(data)

	if name := declaredXMLEncoding(data); name != "" && !isUTF8Name(name) {
		enc, err := htmlindex.Get(name)
		if err != nil {
			return "", fmt.Errorf("epub: unsupported declared encoding %q: %w", name, err)
		}
		decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
		if err != nil {
			return "", fmt.Errorf("epub: decode %s content: %w", name, err)
		}
		return string(decoded), nil
	}

	enc, name, certain := charset.DetermineEncoding(data, "application/xhtml+xml")
	if certain && !isUTF8Name(name) {
		decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
		if err != nil {
			return "", fmt.Errorf("epub: decode %s content: %w", name, err)
		}
		return string(decoded), nil
	}

	if !utf8.Valid(data) {
		// Undeclared and not valid UTF-8: sniffed encoding is the best guess.
		decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
		if err != nil {
			return "", fmt.Errorf("epub: decode sniffed %s content: %w", name, err)
		}
		return string(decoded), nil
	}

	return string(data), nil
}

// declaredXMLEncoding extracts the encoding name from an XML declaration,
// or "" when none is declared.
func declaredXMLEncoding(data []byte) string {
	head := data
	if len(head) > 256 {
		head = head[:256]
	}
	head = bytes.TrimLeft(head, " \t\r\n")
	m := xmlDeclEncoding.FindSubmatch(head)
	if m == nil {
		return ""
	}
	return string(m[1])
}

func isUTF8Name(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return true
	}
	return false
}
