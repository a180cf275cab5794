package epub

import (
	"encoding/xml"
	"fmt"
)

// opfPackage represents the root <package> element of an OPF file.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

// opfMetadata holds the Dublin Core elements this tool cares about.
type opfMetadata struct {
	Titles      []string `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creators    []string `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Identifiers []string `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	Languages   []string `xml:"http://purl.org/dc/elements/1.1/ language"`
}

type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

type opfManifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type opfSpine struct {
	Toc      string            `xml:"toc,attr"`
	ItemRefs []opfSpineItemRef `xml:"itemref"`
}

type opfSpineItemRef struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr"`
}

// spineEntry is a spine itemref resolved against the manifest, with its
// href rebased to a ZIP-internal path.
type spineEntry struct {
	ID        string
	Path      string
	MediaType string
	Linear    bool
}

// parseOPF parses the OPF package document.
func parseOPF(data []byte) (*opfPackage, error) {
	data = stripBOM(data)

	var pkg opfPackage
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("epub: parse OPF: %w", err)
	}
	if pkg.Version == "" {
		pkg.Version = "2.0"
	}
	return &pkg, nil
}

// resolveSpine walks the spine in document order, resolving each itemref
// against the manifest and rebasing hrefs relative to the OPF location.
// Any unresolvable entry is an error, not a skip.
func resolveSpine(pkg *opfPackage, opfPath string) ([]spineEntry, error) {
	byID := make(map[string]opfManifestItem, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		byID[item.ID] = item
	}

	entries := make([]spineEntry, 0, len(pkg.Spine.ItemRefs))
	for i, ref := range pkg.Spine.ItemRefs {
		item, ok := byID[ref.IDRef]
		if !ok {
			return nil, fmt.Errorf("%w: spine itemref %d idref %q not in manifest", ErrManifestInconsistent, i, ref.IDRef)
		}
		resolved := resolveRelativePath(opfPath, item.Href)
		if resolved == "" {
			return nil, fmt.Errorf("%w: manifest item %q has unresolvable href %q", ErrManifestInconsistent, item.ID, item.Href)
		}
		entries = append(entries, spineEntry{
			ID:        item.ID,
			Path:      resolved,
			MediaType: item.MediaType,
			Linear:    ref.Linear != "no",
		})
	}
	return entries, nil
}

// ncxPath returns the ZIP-internal path of the NCX navigation document,
// or "" when the package declares none.
func ncxPath(pkg *opfPackage, opfPath string) string {
	// Prefer the spine's toc attribute, fall back to media type.
	if pkg.Spine.Toc != "" {
		for _, item := range pkg.Manifest.Items {
			if item.ID == pkg.Spine.Toc {
				return resolveRelativePath(opfPath, item.Href)
			}
		}
	}
	for _, item := range pkg.Manifest.Items {
		if item.MediaType == "application/x-dtbncx+xml" {
			return resolveRelativePath(opfPath, item.Href)
		}
	}
	return ""
}

// primary returns the first non-empty value of a metadata element list.
func primary(values []string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
