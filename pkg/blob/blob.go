package blob

import (
	"context"
	"io"
	"strings"

	"github.com/hunt-ops/hunt-manager/pkg/identity"
)

// Store is the content-addressed-by-id storage of photo bytes. It has no
// knowledge of submissions; blob lifecycle is driven by the ledger.
//
// Backed by a local filesystem in production and by memory in tests; moving
// to an object store such as a S3-compliant solution only means another
// implementation of this interface.
type Store interface {
	// Store writes the bytes under a fresh reference "{id}.{extension}",
	// where the extension is derived from the original filename (text after
	// the last dot, empty if none). Partial writes are never visible: on
	// error, nothing is retrievable under the returned reference.
	Store(ctx context.Context, r io.Reader, originalFilename string) (ref string, err error)

	// Open returns the blob bytes for reading. The caller closes it.
	Open(ctx context.Context, ref string) (io.ReadCloser, error)

	// Delete is idempotent: deleting a reference that does not exist is not
	// an error, as already-deleted is a valid end state.
	Delete(ctx context.Context, ref string) error
}

// Extension derives the blob extension from an uploaded filename: the text
// after the last dot, lowercased and stripped of anything but letters and
// digits. Empty if the filename has no dot.
func Extension(filename string) string {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 {
		return ""
	}
	var sb strings.Builder
	for _, r := range strings.ToLower(filename[idx+1:]) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// NewRef combines a fresh blob id with the extension of the original
// filename. The reference always contains the separating dot, so the
// extension can be recovered even when empty.
func NewRef(originalFilename string) string {
	return identity.New() + "." + Extension(originalFilename)
}

// ValidateRef reports whether ref is a legal blob reference. References come
// from clients on raw retrieval paths, so anything that does not match the
// "{id}.{extension}" grammar is rejected before touching the filesystem.
func ValidateRef(ref string) bool {
	idx := strings.IndexByte(ref, '.')
	if idx < 0 {
		return false
	}
	if !identity.Validate(ref[:idx]) {
		return false
	}
	for _, r := range ref[idx+1:] {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
