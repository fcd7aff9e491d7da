package mysql

import (
	"context"
	"errors"
	"time"

	"Lee_Forum/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAlreadyModerator = errors.New("user is already a moderator")
	ErrNotModerator     = errors.New("user is not a moderator")
)

type ModeratorRepository struct {
	DB *gorm.DB
}

// Assign 提升为版主
func (r *ModeratorRepository) Assign(ctx context.Context, userID, actorID uint64, at time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&model.Moderator{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyModerator
		}
		if err := tx.Create(&model.Moderator{UserID: userID, AssignedAt: at}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyModerator
			}
			return err
		}
		return insertOutbox(tx, model.EventModeratorAssigned, userID, actorID, nil)
	})
}

// Unassign 撤销版主，同一事务写入 past_moderators
func (r *ModeratorRepository) Unassign(ctx context.Context, userID, actorID uint64, reason string, at time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&model.Moderator{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotModerator
		}
		if err := tx.Create(&model.PastModerator{
			UserID:       userID,
			UnassignedAt: at,
			Reason:       reason,
		}).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventModeratorUnassigned, userID, actorID, map[string]any{"reason": reason})
	})
}

// ListPast 某用户的历任记录
func (r *ModeratorRepository) ListPast(ctx context.Context, userID uint64) ([]model.PastModerator, error) {
	var list []model.PastModerator
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&list).Error
	return list, err
}

// SetMutedUntil until 为空表示解除禁言
func (r *ModeratorRepository) SetMutedUntil(ctx context.Context, userID, actorID uint64, until *time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}
		if err := tx.Model(&model.User{}).Where("id = ?", userID).
			UpdateColumn("muted_until", until).Error; err != nil {
			return err
		}
		fields := map[string]any{"muted_until": nil}
		if until != nil {
			fields["muted_until"] = until.UTC().Format(time.RFC3339)
		}
		return insertOutbox(tx, model.EventUserMuted, userID, actorID, fields)
	})
}

// SetBannedAt at 为空表示解封
func (r *ModeratorRepository) SetBannedAt(ctx context.Context, userID, actorID uint64, at *time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}
		if err := tx.Model(&model.User{}).Where("id = ?", userID).
			UpdateColumn("banned_at", at).Error; err != nil {
			return err
		}
		event := model.EventUserBanned
		if at == nil {
			event = model.EventUserUnbanned
		}
		return insertOutbox(tx, event, userID, actorID, nil)
	})
}

// lockUser select for update，用户不存在时返回 gorm.ErrRecordNotFound
func lockUser(tx *gorm.DB, userID uint64) error {
	var u model.User
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", userID).
		Take(&u).Error
}
