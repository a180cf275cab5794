package epub

import "errors"

// Sentinel errors returned by the epub package.
var (
	// ErrArchiveCorrupt indicates the file is not a readable ZIP container.
	ErrArchiveCorrupt = errors.New("epub: archive corrupt")

	// ErrContainerMissing indicates META-INF/container.xml is absent or
	// carries no usable rootfile reference.
	ErrContainerMissing = errors.New("epub: container.xml missing or empty")

	// ErrManifestInconsistent indicates a spine itemref that cannot be
	// resolved to a manifest item with a matching archive file.
	ErrManifestInconsistent = errors.New("epub: spine references unresolvable manifest item")

	// ErrDocumentMalformed indicates a chapter document that cannot be
	// used as a regeneration shell (no body element).
	ErrDocumentMalformed = errors.New("epub: chapter document malformed")
)
