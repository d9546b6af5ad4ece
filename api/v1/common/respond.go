package common

import (
	"context"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hunt-ops/hunt-manager/global"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
)

// statusFromError normalizes internal errors into HTTP status codes so
// handlers can forward meaningful codes/messages to clients.
func statusFromError(err error) int {
	switch e := err.(type) {
	case *errs.ErrStartedHuntExist:
		if e.Exist {
			return http.StatusConflict
		}
		return http.StatusNotFound
	case *errs.ErrTeamExist:
		if e.Exist {
			return http.StatusConflict
		}
		return http.StatusNotFound
	case *errs.ErrSubmissionExist:
		if e.Exist {
			return http.StatusConflict
		}
		return http.StatusNotFound
	case *errs.ErrBlobExist:
		if e.Exist {
			return http.StatusConflict
		}
		return http.StatusNotFound
	case *errs.ErrValidationFailed:
		return http.StatusBadRequest
	case *errs.ErrInvalidID:
		return http.StatusBadRequest
	case *errs.ErrStorage:
		return http.StatusInternalServerError
	case *errs.ErrInternal:
		return http.StatusInternalServerError
	}

	switch {
	case errors.Is(err, errs.ErrLockUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrInternalNoSub):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}

// RespondJSON writes v as a JSON body with the given status code.
func RespondJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		global.Log().Error(ctx, "encoding response",
			zap.Error(err),
		)
	}
}

// RespondError maps err to an HTTP status and writes an {"error": ...}
// body. Internal failures are logged with their cause but surfaced to the
// client with the generic message only.
func RespondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFromError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		global.Log().Error(ctx, "internal failure",
			zap.Error(err),
		)
		msg = errs.ErrInternalNoSub.Error()
	}
	RespondJSON(ctx, w, status, map[string]string{
		"error": msg,
	})
}
