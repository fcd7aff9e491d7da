package pkg

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// WorkerPool 限制 CPU 密集任务（密码哈希）的并发数，避免登录洪峰拖垮其他请求
type WorkerPool struct {
	sem *semaphore.Weighted
}

func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	return &WorkerPool{sem: semaphore.NewWeighted(int64(size))}
}

// Submit 在池中执行 fn；ctx 取消时立即返回，fn 仍在后台跑完并归还名额
func Submit[T any](ctx context.Context, p *WorkerPool, fn func() (T, error)) (T, error) {
	var zero T
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer p.sem.Release(1)
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
