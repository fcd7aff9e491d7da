package mysql

import (
	"context"
	"encoding/json"
	"time"

	"Lee_Forum/internal/model"

	"gorm.io/gorm"
)

// MaxOutboxRetry 超过次数的失败事件不再投递，留给人工处理
const MaxOutboxRetry = 5

type OutboxRepository struct {
	DB *gorm.DB
}

// insertOutbox 在业务事务内写入事件
func insertOutbox(tx *gorm.DB, event string, aggregateID, actorID uint64, fields map[string]any) error {
	body := map[string]any{
		"event":      event,
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"id":         aggregateID,
		"actor":      actorID,
	}
	for k, v := range fields {
		body[k] = v
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return tx.Create(&model.ForumOutbox{
		EventType:   event,
		AggregateID: aggregateID,
		ActorID:     actorID,
		Payload:     string(payload),
		Status:      model.OutboxPending,
	}).Error
}

// List 查询待投递和可重试的事件
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.ForumOutbox, error) {
	var list []model.ForumOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = ? OR (status = ? AND retry < ?)", model.OutboxPending, model.OutboxFailed, MaxOutboxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate 投递失败，记录重试次数
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ForumOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxFailed, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate 投递成功
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ForumOutbox{}).Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}
