package errors

import "fmt"

// ErrInvalidID signals that an identifier is not in the store's expected
// format, before any lookup took place.
type ErrInvalidID struct {
	ID string
}

func (err ErrInvalidID) Error() string {
	return fmt.Sprintf("invalid identifier %q", err.ID)
}
