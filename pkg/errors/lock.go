package errors

import "errors"

// ErrLockUnavailable signals that a started hunt lock could not be
// acquired, typically because the etcd session broke. Retryable.
var ErrLockUnavailable = errors.New("resource is locked, try again")
