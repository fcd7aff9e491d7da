package service

import (
	"context"
	"errors"
	"time"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/repository/mysql"

	"gorm.io/gorm"
)

// ResolveRole 按 封禁 > 禁言 > 版主 > 作者 的优先级计算角色，1 号用户恒为管理员
func ResolveRole(userID uint64, st *mysql.ModerationStatus, now time.Time) model.Role {
	if userID == model.AdminUserID {
		return model.RoleAdmin
	}
	if st == nil {
		return model.RoleAuthor
	}
	switch {
	case st.BannedAt != nil && st.BannedAt.Before(now):
		return model.RoleBanned
	case st.MutedUntil != nil && now.Before(*st.MutedUntil):
		return model.RoleViewer
	case st.ModeratorAssignedAt != nil && st.ModeratorAssignedAt.Before(now):
		return model.RoleModerator
	default:
		return model.RoleAuthor
	}
}

type RoleResolver struct {
	users *mysql.UserRepository
}

func NewRoleResolver(db *gorm.DB) *RoleResolver {
	return &RoleResolver{users: &mysql.UserRepository{DB: db}}
}

// Resolve 同一请求内应传入同一个 now
func (r *RoleResolver) Resolve(ctx context.Context, userID uint64, now time.Time) (model.Role, error) {
	if userID == model.AdminUserID {
		return model.RoleAdmin, nil
	}
	st, err := r.users.FindModerationStatus(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", model.NewNotFoundError("user", userID)
	}
	if err != nil {
		return "", model.NewInternalError(err)
	}
	return ResolveRole(userID, st, now), nil
}
