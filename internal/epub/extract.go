package epub

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockTextTags is the set of paragraph-equivalent block containers whose
// rendered text becomes one extracted paragraph.
var blockTextTags = map[atom.Atom]bool{
	atom.P:          true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Li:         true,
	atom.Blockquote: true,
	atom.Div:        true,
	atom.Td:         true,
}

// skipTags is the set of tags whose content is never text.
var skipTags = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
}

// extractParagraphs returns the ordered paragraph texts of a decoded XHTML
// chapter document.
//
// A block container yields one paragraph when it has no nested block
// containers of its own; wrappers (a div holding p elements) are descended
// into instead. Inline markup is dropped, entities arrive already resolved
// by the HTML parser, and whitespace-only paragraphs are discarded.
func extractParagraphs(markup string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	body := findElement(doc, atom.Body)
	if body == nil {
		return nil, nil
	}

	var paragraphs []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if skipTags[c.DataAtom] {
				continue
			}
			if blockTextTags[c.DataAtom] && !hasBlockChild(c) {
				if text := renderedText(c); text != "" {
					paragraphs = append(paragraphs, text)
				}
				continue
			}
			walk(c)
		}
	}
	walk(body)

	return paragraphs, nil
}

// documentTitle returns the text of the document's <title> element, or "".
func documentTitle(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	title := findElement(doc, atom.Title)
	if title == nil {
		return ""
	}
	return renderedText(title)
}

// findElement performs a depth-first search for a node with the given tag.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, a); result != nil {
			return result
		}
	}
	return nil
}

// hasBlockChild reports whether n has a descendant element that is itself
// a block text container.
func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if blockTextTags[c.DataAtom] {
				return true
			}
			if hasBlockChild(c) {
				return true
			}
		}
	}
	return false
}

// renderedText concatenates the text content of a subtree with inline
// markup removed, collapsing whitespace runs to single spaces.
func renderedText(n *html.Node) string {
	var sb strings.Builder
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode {
			if skipTags[n.DataAtom] {
				return
			}
			if n.DataAtom == atom.Br {
				sb.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return collapseWhitespace(sb.String())
}

// collapseWhitespace replaces whitespace runs with single spaces and trims
// the ends. Returns "" for all-whitespace input.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
