package epub

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// fixtureFile is one entry of an in-memory test ePub.
type fixtureFile struct {
	name  string
	data  string
	store bool
}

// writeTestZip writes a ZIP file with the given entries in order and
// returns its path.
func writeTestZip(t *testing.T, files []fixtureFile) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "book.epub")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, ff := range files {
		var w io.Writer
		if ff.store {
			w, err = zw.CreateHeader(&zip.FileHeader{Name: ff.name, Method: zip.Store})
		} else {
			w, err = zw.Create(ff.name)
		}
		if err != nil {
			t.Fatalf("failed to create entry %s: %v", ff.name, err)
		}
		if _, err := w.Write([]byte(ff.data)); err != nil {
			t.Fatalf("failed to write entry %s: %v", ff.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close fixture zip: %v", err)
	}
	return path
}

const testContainerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const testOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="pub-id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Testing Grounds</dc:title>
    <dc:creator>A. Writer</dc:creator>
    <dc:identifier id="pub-id">urn:uuid:00000000-0000-0000-0000-000000000001</dc:identifier>
    <dc:language>en</dc:language>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="style" href="style.css" media-type="text/css"/>
    <item id="ch1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="chapter2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`

const testNCX = `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head><meta name="dtb:uid" content="urn:uuid:00000000-0000-0000-0000-000000000001"/></head>
  <docTitle><text>Testing Grounds</text></docTitle>
  <navMap>
    <navPoint id="navpoint-1" playOrder="1">
      <navLabel><text>The Beginning</text></navLabel>
      <content src="chapter1.xhtml"/>
    </navPoint>
    <navPoint id="navpoint-2" playOrder="2">
      <navLabel><text>The End</text></navLabel>
      <content src="chapter2.xhtml"/>
    </navPoint>
  </navMap>
</ncx>`

const testChapter1 = `<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <title>Chapter One</title>
  <link rel="stylesheet" type="text/css" href="style.css"/>
</head>
<body>
  <p>&#8220;Curly quotes&#8221; and an em-dash&#8212;right here.</p>
  <p>It&#8217;s <em>fine</em>, honestly.</p>
  <p>   </p>
</body>
</html>`

const testChapter2 = `<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter Two</title></head>
<body>
  <div>
    <p>Second chapter, first paragraph.</p>
    <p>Second chapter, second paragraph.</p>
  </div>
</body>
</html>`

// writeTestBook writes the standard two-chapter fixture book.
func writeTestBook(t *testing.T) string {
	t.Helper()
	return writeTestZip(t, []fixtureFile{
		{name: "mimetype", data: "application/epub+zip", store: true},
		{name: "META-INF/container.xml", data: testContainerXML},
		{name: "OEBPS/content.opf", data: testOPF},
		{name: "OEBPS/toc.ncx", data: testNCX},
		{name: "OEBPS/style.css", data: "p { margin: 0.5em 0; }"},
		{name: "OEBPS/chapter1.xhtml", data: testChapter1},
		{name: "OEBPS/chapter2.xhtml", data: testChapter2},
	})
}
