package model

import (
	"fmt"
	"time"
)

// Session 会话表只保存 session id 的 sha256 摘要
type Session struct {
	ID        []byte     `gorm:"primaryKey;size:32"`
	UserID    uint64     `gorm:"not null;index"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ExpiresAt *time.Time `gorm:"index"`
}

type Role string

const (
	RoleBanned    Role = "Banned"    // 被封禁
	RoleViewer    Role = "Viewer"    // 禁言中，只读
	RoleAuthor    Role = "Author"    // 可发帖回帖
	RoleModerator Role = "Moderator" // 可处理他人内容
	RoleAdmin     Role = "Admin"
)

// Valid 判断是否为已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleBanned, RoleViewer, RoleAuthor, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// SessionData 写入签名 cookie 的会话内容，SessionID 为明文 id
type SessionData struct {
	UserID    uint64 `json:"user_id"`
	SessionID string `json:"session_id"`
	Role      Role   `json:"role"`
}

func (d SessionData) String() string {
	return fmt.Sprintf("user %d (%s)", d.UserID, d.Role)
}
