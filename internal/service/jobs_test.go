package service

import (
	"context"
	"testing"
	"time"

	"Lee_Forum/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExclusive(t *testing.T) {
	ctx := context.Background()
	calls := 0
	job := func(context.Context) { calls++ }

	runExclusive(ctx, nil, "job", time.Minute, job)
	assert.Equal(t, 1, calls)

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	lock := &redis.DistLock{RDB: rdb}

	runExclusive(ctx, lock, "job", time.Minute, job)
	assert.Equal(t, 2, calls)
	assert.False(t, mr.Exists("lock:job:job"))

	// 其他实例持有锁时跳过
	ok, err := lock.Acquire(ctx, "job", "other", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	runExclusive(ctx, lock, "job", time.Minute, job)
	assert.Equal(t, 2, calls)
}
