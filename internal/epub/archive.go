package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// mimetypeContent is the required payload of the mimetype entry.
const mimetypeContent = "application/epub+zip"

// RewriteArchive assembles a new ePub at outPath from the source archive,
// substituting regenerated chapter bytes keyed by ZIP-internal path.
//
// The mimetype entry comes first and is stored uncompressed; every other
// source entry (container.xml, content.opf, toc.ncx, stylesheets, images)
// is carried through in original order, so manifest and spine survive
// untouched. Output is staged in the destination directory and published
// with an atomic rename; a failed write never leaves a partial archive in
// place of prior output.
func RewriteArchive(srcPath, outPath string, replacements map[string][]byte) error {
	zrc, err := zip.OpenReader(srcPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrArchiveCorrupt, srcPath, err)
	}
	defer zrc.Close()

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	staging := filepath.Join(filepath.Dir(outPath), fmt.Sprintf(".bookwash-%s.tmp", uuid.New().String()))
	f, err := os.Create(staging)
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}

	if err := writeArchive(f, &zrc.Reader, replacements); err != nil {
		f.Close()
		os.Remove(staging)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(staging)
		return fmt.Errorf("failed to sync staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(staging)
		return fmt.Errorf("failed to close staging file: %w", err)
	}

	if err := os.Rename(staging, outPath); err != nil {
		os.Remove(staging)
		return fmt.Errorf("failed to publish archive: %w", err)
	}
	return nil
}

// writeArchive streams the rewritten container to w.
func writeArchive(w io.Writer, src *zip.Reader, replacements map[string][]byte) error {
	zw := zip.NewWriter(w)

	if err := writeMimetype(zw, src); err != nil {
		return err
	}

	for _, f := range src.File {
		if f.Name == "mimetype" {
			continue
		}
		if strings.HasSuffix(f.Name, "/") {
			continue
		}

		entry, err := zw.Create(f.Name)
		if err != nil {
			return fmt.Errorf("failed to create entry %s: %w", f.Name, err)
		}

		if data, ok := replacementFor(replacements, f.Name); ok {
			if _, err := entry.Write(data); err != nil {
				return fmt.Errorf("failed to write regenerated %s: %w", f.Name, err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed to open source entry %s: %w", f.Name, err)
		}
		_, err = io.Copy(entry, rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("failed to copy entry %s: %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

// replacementFor looks up regenerated bytes for a ZIP entry, exact match
// first then case-insensitive, matching how the reader resolves manifest
// hrefs to entries. A replacement keyed by the manifest's casing must still
// land on an archive entry cased differently.
func replacementFor(replacements map[string][]byte, name string) ([]byte, bool) {
	if data, ok := replacements[name]; ok {
		return data, true
	}
	for key, data := range replacements {
		if strings.EqualFold(key, name) {
			return data, true
		}
	}
	return nil, false
}

// writeMimetype writes the mimetype entry first, stored without compression
// as required by the OCF spec.
func writeMimetype(zw *zip.Writer, src *zip.Reader) error {
	content := []byte(mimetypeContent)
	if f := findFile(src, "mimetype"); f != nil {
		if data, err := readZipFile(f); err == nil {
			content = data
		}
	}

	header := &zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create mimetype: %w", err)
	}
	_, err = w.Write(content)
	return err
}
