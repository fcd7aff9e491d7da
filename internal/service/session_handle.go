package service

import (
	"context"
	"time"

	"Lee_Forum/internal/model"
)

// SessionHandle 单个请求持有的会话状态，data 为空即匿名
type SessionHandle struct {
	store *SessionStore
	data  *model.SessionData
}

// NewSessionHandle data 为空表示匿名
func NewSessionHandle(store *SessionStore, data *model.SessionData) *SessionHandle {
	h := &SessionHandle{store: store}
	if data != nil {
		d := *data
		h.data = &d
	}
	return h
}

// Insert 先清掉当前会话再签发新会话
func (h *SessionHandle) Insert(ctx context.Context, userID uint64, expiresAt *time.Time, now time.Time) error {
	if err := h.Purge(ctx); err != nil {
		return err
	}
	data, err := h.store.Insert(ctx, userID, expiresAt, now)
	if err != nil {
		return err
	}
	h.data = &data
	return nil
}

// Purge 删除当前会话行并转为匿名，匿名时什么也不做
func (h *SessionHandle) Purge(ctx context.Context) error {
	if h.data == nil {
		return nil
	}
	if _, err := h.store.Remove(ctx, *h.data); err != nil {
		return err
	}
	h.data = nil
	return nil
}

func (h *SessionHandle) Verify(ctx context.Context, now time.Time) (bool, error) {
	if h.data == nil {
		return false, nil
	}
	return h.store.Verify(ctx, *h.data, now)
}

// Renew 预留，目前不延长 expires_at
func (h *SessionHandle) Renew(ctx context.Context) error {
	return nil
}

// Forget 只丢弃内存中的会话数据，不动数据库
func (h *SessionHandle) Forget() {
	h.data = nil
}

func (h *SessionHandle) UserID() (uint64, bool) {
	if h.data == nil {
		return 0, false
	}
	return h.data.UserID, true
}

// Data 返回副本
func (h *SessionHandle) Data() (model.SessionData, bool) {
	if h.data == nil {
		return model.SessionData{}, false
	}
	return *h.data, true
}

func (h *SessionHandle) IsAnonymous() bool { return h.data == nil }
func (h *SessionHandle) IsBanned() bool    { return h.is(model.RoleBanned) }
func (h *SessionHandle) IsViewer() bool    { return h.is(model.RoleViewer) }
func (h *SessionHandle) IsAuthor() bool    { return h.is(model.RoleAuthor) }
func (h *SessionHandle) IsModerator() bool { return h.is(model.RoleModerator) }
func (h *SessionHandle) IsAdmin() bool     { return h.is(model.RoleAdmin) }

func (h *SessionHandle) CanPost() bool {
	return h.IsAuthor() || h.IsModerator() || h.IsAdmin()
}

func (h *SessionHandle) is(role model.Role) bool {
	return h.data != nil && h.data.Role == role
}

func (h *SessionHandle) String() string {
	if h.data == nil {
		return "Anonymous"
	}
	return h.data.String()
}
