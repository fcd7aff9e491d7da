package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/repository/mysql"

	"gorm.io/gorm"
)

type ModerationService struct {
	mods *mysql.ModeratorRepository
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{mods: &mysql.ModeratorRepository{DB: db}}
}

// Promote 仅管理员可任命版主
func (s *ModerationService) Promote(ctx context.Context, h *SessionHandle, userID uint64, now time.Time) error {
	actor, err := requireAdmin(h, "moderators")
	if err != nil {
		return err
	}
	if userID == model.AdminUserID {
		return model.NewConflictError("admin cannot be promoted")
	}
	return mapModerationErr(s.mods.Assign(ctx, userID, actor, now), userID)
}

// Demote 撤销版主，reason 写入 past_moderators
func (s *ModerationService) Demote(ctx context.Context, h *SessionHandle, userID uint64, reason string, now time.Time) error {
	actor, err := requireAdmin(h, "moderators")
	if err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return model.NewInvalidError("reason is required")
	}
	return mapModerationErr(s.mods.Unassign(ctx, userID, actor, reason, now), userID)
}

// Mute until 为空表示解除禁言
func (s *ModerationService) Mute(ctx context.Context, h *SessionHandle, userID uint64, until *time.Time) error {
	actor, err := requireModerator(h, userID)
	if err != nil {
		return err
	}
	return mapModerationErr(s.mods.SetMutedUntil(ctx, userID, actor, until), userID)
}

func (s *ModerationService) Ban(ctx context.Context, h *SessionHandle, userID uint64, now time.Time) error {
	actor, err := requireModerator(h, userID)
	if err != nil {
		return err
	}
	return mapModerationErr(s.mods.SetBannedAt(ctx, userID, actor, &now), userID)
}

func (s *ModerationService) Unban(ctx context.Context, h *SessionHandle, userID uint64) error {
	actor, err := requireModerator(h, userID)
	if err != nil {
		return err
	}
	return mapModerationErr(s.mods.SetBannedAt(ctx, userID, actor, nil), userID)
}

// History 历任版主记录
func (s *ModerationService) History(ctx context.Context, h *SessionHandle, userID uint64) ([]model.PastModerator, error) {
	if _, err := requireModerator(h, 0); err != nil {
		return nil, err
	}
	list, err := s.mods.ListPast(ctx, userID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	return list, nil
}

func requireAdmin(h *SessionHandle, resource string) (uint64, error) {
	uid, ok := h.UserID()
	if !ok {
		return 0, model.NewNotLoggedInError()
	}
	if !h.IsAdmin() {
		return 0, model.NewForbiddenError(h.String(), resource)
	}
	return uid, nil
}

// requireModerator 版主或管理员，且不能处理 1 号用户
func requireModerator(h *SessionHandle, target uint64) (uint64, error) {
	uid, ok := h.UserID()
	if !ok {
		return 0, model.NewNotLoggedInError()
	}
	if !h.IsAdmin() && !h.IsModerator() {
		return 0, model.NewForbiddenError(h.String(), "moderation")
	}
	if target == model.AdminUserID {
		return 0, model.NewForbiddenError(h.String(), "admin")
	}
	return uid, nil
}

func mapModerationErr(err error, userID uint64) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.NewNotFoundError("user", userID)
	case errors.Is(err, mysql.ErrAlreadyModerator):
		return model.NewConflictError("user is already a moderator")
	case errors.Is(err, mysql.ErrNotModerator):
		return model.NewConflictError("user is not a moderator")
	default:
		return model.NewInternalError(err)
	}
}
