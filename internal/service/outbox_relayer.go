package service

import (
	"context"
	"time"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/repository/mysql"
	"Lee_Forum/internal/repository/redis"

	"gorm.io/gorm"
)

type Sender func(ctx context.Context, ob *model.ForumOutbox) error

// OutboxRelayer 轮询 forum_outbox，把事件交给 sender
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
	lock      *redis.DistLock
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// WithLock 多实例部署时只允许一个实例投递，避免重复发送
func (r *OutboxRelayer) WithLock(lock *redis.DistLock) *OutboxRelayer {
	r.lock = lock
	return r
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			runExclusive(ctx, r.lock, "outbox_relay", time.Minute, r.drainOnce)
		}
	}
}

// drainOnce 投递一批，失败的记重试次数
func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		pkg.Logger.ErrorContext(ctx, "outbox query failed", "error", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			pkg.OutboxPublished.WithLabelValues("failure").Inc()
			pkg.Logger.WarnContext(ctx, "outbox send failed", "id", ob.ID, "retry", ob.Retry, "error", err)
			if err = r.repo.RetryUpdate(ctx, ob.ID); err != nil {
				pkg.Logger.ErrorContext(ctx, "outbox retry update failed", "id", ob.ID, "error", err)
			}
			continue
		}
		pkg.OutboxPublished.WithLabelValues("success").Inc()
		if err = r.repo.SuccessUpdate(ctx, ob.ID); err != nil {
			pkg.Logger.ErrorContext(ctx, "outbox success update failed", "id", ob.ID, "error", err)
		}
	}
}

// LogSender 未配置 kafka 时使用，只打日志
func LogSender(ctx context.Context, ob *model.ForumOutbox) error {
	pkg.Logger.InfoContext(ctx, "outbox event",
		"type", ob.EventType, "aggregate_id", ob.AggregateID, "actor", ob.ActorID, "payload", ob.Payload)
	return nil
}

// KafkaSender 以 aggregate id 为分区 key 发送
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.ForumOutbox) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ob.AggregateID), ob.EventType, []byte(ob.Payload))
	}
}
