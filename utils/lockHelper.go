package utils

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
)

// ObtainBatchLock serializes long-running batch operations (sales imports)
// on a named key.
//
// Redis is a best-effort guard: when the lock client is not ready the batch
// proceeds with a warning. Batches that outlive the TTL lose the guard, not
// correctness of their own writes.
func ObtainBatchLock(ctx context.Context, key string, moduleName string, functionName string) (func(), error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		logger.WithFields(logrus.Fields{
			"module":   moduleName,
			"funcName": functionName,
			"lockKey":  key,
		}).Warn("redis lock not ready; proceeding without batch lock")
		return func() {}, nil
	}

	lockKey := fmt.Sprintf("lock:%s", key)
	lock, err := locker.Obtain(ctx, lockKey, 5*time.Minute, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(250*time.Millisecond), 8),
	})
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain batch lock", key, err)
		return nil, fmt.Errorf("another import batch is already running")
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining batch lock", key, err)
		return nil, err
	}

	return func() { _ = lock.Release(ctx) }, nil
}
