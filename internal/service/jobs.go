package service

import (
	"context"
	"time"

	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/repository/redis"

	"github.com/google/uuid"
)

// runExclusive lock 为空时直接执行；拿不到锁说明其他实例在跑，本轮跳过
func runExclusive(ctx context.Context, lock *redis.DistLock, name string, ttl time.Duration, fn func(ctx context.Context)) {
	if lock == nil {
		fn(ctx)
		return
	}
	token := uuid.NewString()
	ok, err := lock.Acquire(ctx, name, token, ttl)
	if err != nil {
		pkg.Logger.WarnContext(ctx, "job lock acquire failed", "job", name, "error", err)
		return
	}
	if !ok {
		return
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx), name, token); err != nil {
			pkg.Logger.WarnContext(ctx, "job lock release failed", "job", name, "error", err)
		}
	}()
	fn(ctx)
}
