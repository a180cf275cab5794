package epub

import (
	"encoding/xml"
	"strings"
)

// ncx models the subset of toc.ncx needed to map chapter files to titles.
type ncx struct {
	XMLName xml.Name  `xml:"ncx"`
	NavMap  ncxNavMap `xml:"navMap"`
}

type ncxNavMap struct {
	NavPoints []ncxNavPoint `xml:"navPoint"`
}

type ncxNavPoint struct {
	Label     ncxLabel      `xml:"navLabel"`
	Content   ncxContent    `xml:"content"`
	NavPoints []ncxNavPoint `xml:"navPoint"`
}

type ncxLabel struct {
	Text string `xml:"text"`
}

type ncxContent struct {
	Src string `xml:"src,attr"`
}

// parseNCXTitles parses an NCX document and returns a map from resolved
// ZIP-internal content path to navigation label. Nested navPoints are
// flattened; the first label for a path wins. Parse failures yield an
// empty map, since titles are cosmetic for this tool.
func parseNCXTitles(data []byte, ncxPath string) map[string]string {
	data = stripBOM(data)

	var doc ncx
	if err := xml.Unmarshal(data, &doc); err != nil {
		return map[string]string{}
	}

	titles := make(map[string]string)
	var walk func(points []ncxNavPoint)
	walk = func(points []ncxNavPoint) {
		for _, np := range points {
			src := np.Content.Src
			if i := strings.IndexByte(src, '#'); i >= 0 {
				src = src[:i]
			}
			resolved := resolveRelativePath(ncxPath, src)
			label := strings.TrimSpace(np.Label.Text)
			if resolved != "" && label != "" {
				if _, seen := titles[resolved]; !seen {
					titles[resolved] = label
				}
			}
			walk(np.NavPoints)
		}
	}
	walk(doc.NavMap.NavPoints)
	return titles
}
