package mysql

import (
	"context"
	"errors"
	"time"

	"Lee_Forum/internal/model"

	"gorm.io/gorm"
)

// ErrDigestCollision 摘要主键冲突，不能静默成功
var ErrDigestCollision = errors.New("session digest collision")

type SessionRepository struct {
	DB *gorm.DB
}

func (r *SessionRepository) Insert(ctx context.Context, s *model.Session) error {
	err := r.DB.WithContext(ctx).Create(s).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDigestCollision
	}
	return err
}

// Find 按 (摘要, user_id) 查询，不判断过期
func (r *SessionRepository) Find(ctx context.Context, digest []byte, userID uint64) (*model.Session, error) {
	var s model.Session
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", digest, userID).
		Take(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete 幂等删除，返回删除行数
func (r *SessionRepository) Delete(ctx context.Context, digest []byte, userID uint64) (int64, error) {
	tx := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", digest, userID).
		Delete(&model.Session{})
	return tx.RowsAffected, tx.Error
}

// DeleteExpired 清理 expires_at <= now 的会话
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := r.DB.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Delete(&model.Session{})
	return tx.RowsAffected, tx.Error
}
