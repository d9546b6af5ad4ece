package common

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hunt-ops/hunt-manager/global"
	"github.com/hunt-ops/hunt-manager/pkg/lock"
)

// LockStartedHunt grabs the exclusive lock guarding a started hunt.
// Team numbering and the end-of-hunt cascade both serialize on it.
func LockStartedHunt(ctx context.Context, huntID string) (lock.Lock, error) {
	return lock.NewLock(ctx, filepath.Join("hunt", huntID))
}

// LClose is a helper that logs any error during the lock close call.
func LClose(lock lock.Lock) {
	logger := global.Log()
	if err := lock.Close(); err != nil {
		logger.Error(context.Background(), "lock close",
			zap.Error(err),
			zap.String("key", lock.Key()),
		)
	}
}
