package lock

import (
	"context"
	"sync"
)

var (
	localLocks sync.Map
)

// LocalLock is the single-replica backend: a process-wide mutex per key.
// Entries are never evicted; keys are bounded by the number of live hunts,
// which is small.
type LocalLock struct {
	key string
	mx  *sync.Mutex
}

var _ Lock = (*LocalLock)(nil)

func NewLocalLock(key string) (Lock, error) {
	mx, _ := localLocks.LoadOrStore(key, &sync.Mutex{})
	return &LocalLock{
		key: key,
		mx:  mx.(*sync.Mutex),
	}, nil
}

func (lock *LocalLock) Key() string {
	return lock.key
}

func (lock *LocalLock) Lock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lock.mx.Lock()
	return nil
}

func (lock *LocalLock) Unlock(ctx context.Context) error {
	lock.mx.Unlock()
	return nil
}

func (lock *LocalLock) Close() error {
	return nil
}
