package lock

import (
	"context"

	"github.com/hunt-ops/hunt-manager/global"
)

// Lock provides mutual exclusion on a key shared by all request handlers,
// and by all replicas when an etcd cluster is configured.
//
// It serializes multi-record sequences the record store cannot make atomic
// on its own, such as count-then-insert team creation and whole-session
// cascades. Single-record operations do not need it.
type Lock interface {
	// Key the lock was built for.
	Key() string

	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error

	// Close releases the resources the lock held (e.g. an etcd lease).
	// It does not unlock.
	Close() error
}

// NewLock builds a lock for the given key, routing to the etcd backend when
// an endpoint is configured and to in-process mutexes otherwise.
func NewLock(ctx context.Context, key string) (Lock, error) {
	if global.Conf.Etcd.Endpoint != "" {
		return NewEtcdLock(ctx, key)
	}
	return NewLocalLock(key)
}
