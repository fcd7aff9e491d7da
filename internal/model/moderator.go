package model

import "time"

// Moderator 在任版主，降级时删除并写入 PastModerator
type Moderator struct {
	UserID     uint64    `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AssignedAt time.Time `gorm:"not null" json:"assigned_at"`
}

// PastModerator 只追加，不删除
type PastModerator struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	UserID       uint64    `gorm:"not null;index" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE" json:"-"`
	UnassignedAt time.Time `gorm:"not null" json:"unassigned_at"`
	Reason       string    `gorm:"type:text;not null" json:"reason"`
}
