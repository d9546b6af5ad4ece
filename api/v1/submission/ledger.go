package submission

import (
	"mime/multipart"
	"net/http"

	"github.com/hunt-ops/hunt-manager/pkg/blob"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/store"
)

// NewLedger returns a Ledger recording photographic evidence in the
// given record store and blob store.
func NewLedger(s store.Store, blobs blob.Store) *Ledger {
	return &Ledger{
		store: s,
		blobs: blobs,
	}
}

// Ledger handles evidence submissions. Each (team, task) pair holds at
// most one submission; recording new evidence for a pair that already
// has some swaps the photo in place rather than adding a record.
//
// Photo bytes always reach the blob store before the record points at
// them, and the previous photo is only reclaimed after the swap, so a
// submission never references a missing blob.
type Ledger struct {
	store store.Store
	blobs blob.Store
}

// photoFromRequest extracts the "photo" part of a multipart upload.
func photoFromRequest(r *http.Request) (multipart.File, string, error) {
	f, hdr, err := r.FormFile("photo")
	if err != nil {
		return nil, "", &errs.ErrValidationFailed{Reason: `multipart field "photo" is required`}
	}
	return f, hdr.Filename, nil
}
