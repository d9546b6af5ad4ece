package errors

import "fmt"

// ErrStorage wraps unexpected record-store or filesystem failures for
// clearer messaging.
type ErrStorage struct {
	Op  string
	Sub error
}

func (err ErrStorage) Error() string {
	if err.Sub == nil {
		return "storage error"
	}
	if err.Op != "" {
		return fmt.Sprintf("storage error during %s: %v", err.Op, err.Sub)
	}
	return fmt.Sprintf("storage error: %v", err.Sub)
}

func (err ErrStorage) Unwrap() error {
	return err.Sub
}
