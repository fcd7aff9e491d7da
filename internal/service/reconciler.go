package service

import (
	"context"
	"time"

	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/repository/mysql"
	"Lee_Forum/internal/repository/redis"

	"gorm.io/gorm"
)

// PostCountReconciler 主题帖子数对账，兜底修正 number_posts 与未删除帖子数不一致的情况
type PostCountReconciler struct {
	repo      *mysql.PostCountReconcilerRepo
	lock      *redis.DistLock
	batchSize int
	interval  time.Duration
}

func NewPostCountReconciler(db *gorm.DB) *PostCountReconciler {
	return &PostCountReconciler{
		repo:      &mysql.PostCountReconcilerRepo{DB: db},
		batchSize: 500,             // 设置一次对账的大小
		interval:  5 * time.Minute, // 对账的间隔时间
	}
}

// WithLock 多实例部署时传入分布式锁
func (r *PostCountReconciler) WithLock(lock *redis.DistLock) *PostCountReconciler {
	r.lock = lock
	return r
}

// Run 对账定时任务启动器
func (r *PostCountReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			runExclusive(ctx, r.lock, "reconcile_post_count", r.interval, func(ctx context.Context) {
				r.reconcileOnce(ctx)
			})
		}
	}
}

// reconcileOnce 按 id 游标扫完所有主题，返回修正的主题数
func (r *PostCountReconciler) reconcileOnce(ctx context.Context) int {
	var lastID uint64
	fixed := 0
	for {
		topics, next, err := r.repo.ReconcileList(ctx, r.batchSize, lastID)
		if err != nil {
			pkg.Logger.ErrorContext(ctx, "reconcile list failed", "error", err)
			return fixed
		}
		if len(topics) == 0 {
			return fixed
		}
		for _, t := range topics {
			changed, err := r.repo.ReconcilePostCount(ctx, t.ID)
			if err != nil {
				pkg.Logger.WarnContext(ctx, "reconcile update failed", "topic_id", t.ID, "error", err)
				continue
			}
			if changed {
				pkg.Logger.InfoContext(ctx, "topic post count corrected", "topic_id", t.ID, "from", t.NumberPosts)
				fixed++
			}
		}
		lastID = next
	}
}
