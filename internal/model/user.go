package model

import "time"

type User struct {
	ID         uint64     `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Password   *string    `gorm:"size:255" json:"-"` // PHC 编码的哈希串，可为空（无法登录）
	Signature  *string    `gorm:"type:text" json:"signature,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	LastPostAt *time.Time `json:"last_post_at,omitempty"`
	MutedUntil *time.Time `json:"muted_until,omitempty"`
	BannedAt   *time.Time `json:"banned_at,omitempty"`
}

// AdminUserID 1 号用户恒为管理员
const AdminUserID uint64 = 1
