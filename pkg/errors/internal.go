package errors

import "github.com/pkg/errors"

// ErrInternalNoSub is what clients see in place of an ErrInternal: the
// underlying cause stays in the logs only.
var ErrInternalNoSub = errors.New("internal server error")

// ErrInternal carries an unexpected failure. Its cause must not leak to
// clients, so responders log it and answer with ErrInternalNoSub.
type ErrInternal struct {
	Sub error
}

func (err ErrInternal) Error() string {
	// Avoid stuttering when an internal error got wrapped twice.
	if sub, ok := err.Sub.(*ErrInternal); ok {
		return sub.Error()
	}
	return errors.Wrap(err.Sub, ErrInternalNoSub.Error()).Error()
}
