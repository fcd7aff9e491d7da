package mysql

import (
	"context"
	"time"

	"Lee_Forum/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

// Credential 登录校验所需的最少字段
type Credential struct {
	ID       uint64
	Password *string
}

// ModerationStatus 角色计算所需的三列
type ModerationStatus struct {
	BannedAt            *time.Time
	MutedUntil          *time.Time
	ModeratorAssignedAt *time.Time
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	return &user, err
}

// FindCredential 按用户名查 id 和哈希串
func (r *UserRepository) FindCredential(ctx context.Context, name string) (*Credential, error) {
	var cred Credential
	err := r.DB.WithContext(ctx).Model(&model.User{}).
		Select("id", "password").
		Where("name = ?", name).
		Take(&cred).Error
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// FindModerationStatus 关联 moderators 表读取封禁/禁言/版主时间
func (r *UserRepository) FindModerationStatus(ctx context.Context, id uint64) (*ModerationStatus, error) {
	var st ModerationStatus
	res := r.DB.WithContext(ctx).Model(&model.User{}).
		Select("users.banned_at, users.muted_until, moderators.assigned_at AS moderator_assigned_at").
		Joins("LEFT JOIN moderators ON moderators.user_id = users.id").
		Where("users.id = ?", id).
		Scan(&st)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &st, nil
}

func (r *UserRepository) TouchLastSeen(ctx context.Context, id uint64, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("last_seen_at", at).Error
}

// UpdatePassword 登录成功后升级哈希，只在旧哈希未变时写入
func (r *UserRepository) UpdatePassword(ctx context.Context, id uint64, oldHash, newHash string) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND password = ?", id, oldHash).
		UpdateColumn("password", newHash).Error
}
