package lock

import (
	"context"

	"go.etcd.io/etcd/client/v3/concurrency"

	"github.com/hunt-ops/hunt-manager/global"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
)

// EtcdLock is the distributed backend, required when multiple replicas
// share the record store and the photos volume. An in-process mutex cannot
// exclude another Pod, so exclusion is delegated to an etcd mutex under a
// lease-backed session.
//
// It assumes the network is reliable. It is unfair: waiters are not served
// FIFO.
type EtcdLock struct {
	key string
	s   *concurrency.Session
	mx  *concurrency.Mutex
}

var _ Lock = (*EtcdLock)(nil)

func NewEtcdLock(ctx context.Context, key string) (Lock, error) {
	s, err := global.GetEtcdManager().NewConcurrencySession(ctx)
	if err != nil {
		return nil, errs.ErrLockUnavailable
	}

	return &EtcdLock{
		key: key,
		s:   s,
		mx:  concurrency.NewMutex(s, "/hunt-manager/"+key),
	}, nil
}

func (lock *EtcdLock) Key() string {
	return lock.key
}

func (lock *EtcdLock) Lock(ctx context.Context) error {
	return lock.mx.Lock(ctx)
}

func (lock *EtcdLock) Unlock(ctx context.Context) error {
	// Unlocking must not be skipped on context cancelation, else the mutex
	// leaks until the lease expires.
	return lock.mx.Unlock(context.WithoutCancel(ctx))
}

func (lock *EtcdLock) Close() error {
	return lock.s.Close()
}
