package submission

import (
	"io"
	"mime"
	"net/http"
	"path"

	"go.uber.org/zap"

	"github.com/hunt-ops/hunt-manager/api/v1/common"
	"github.com/hunt-ops/hunt-manager/global"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
)

// streamPhoto writes the blob at ref to w with a best-guess content type.
func (led *Ledger) streamPhoto(w http.ResponseWriter, r *http.Request, ref string) {
	ctx := r.Context()

	rc, err := led.blobs.Open(ctx, ref)
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	defer func() { _ = rc.Close() }()

	ct := mime.TypeByExtension(path.Ext(ref))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	if _, err := io.Copy(w, rc); err != nil {
		// Headers are out, nothing more to tell the client.
		global.Log().Error(ctx, "streaming photo",
			zap.String("photo_ref", ref),
			zap.Error(err),
		)
	}
}

// RetrievePhoto handles GET /api/submissions/{id}/photo.
func (led *Ledger) RetrievePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sub, err := led.Retrieve(ctx, r.PathValue("id"))
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	if sub.PhotoRef == "" {
		common.RespondError(ctx, w, &errs.ErrBlobExist{Exist: false})
		return
	}
	led.streamPhoto(w, r, sub.PhotoRef)
}

// ServeRawPhoto handles GET /photos/{photoPath}, serving a blob directly
// by reference. Malformed references never reach the filesystem.
func (led *Ledger) ServeRawPhoto(w http.ResponseWriter, r *http.Request) {
	led.streamPhoto(w, r, r.PathValue("photoPath"))
}
