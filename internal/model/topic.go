package model

import "time"

type Topic struct {
	ID             uint64     `gorm:"primaryKey" json:"id"`
	AuthorUserID   uint64     `gorm:"not null;index" json:"author_user_id"`
	Author         User       `gorm:"foreignKey:AuthorUserID;constraint:OnDelete:CASCADE" json:"-"`
	Title          string     `gorm:"type:text;not null" json:"title"`
	NumberPosts    int64      `gorm:"not null;default:0" json:"number_posts"` // 未软删除的帖子数
	Public         *bool      `gorm:"not null;default:true" json:"public"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `gorm:"index" json:"deleted_at,omitempty"`
	LastUpdatedBy  *uint64    `json:"last_updated_by,omitempty"`
	ViewsFromUsers int64      `gorm:"not null;default:0" json:"views_from_users"`
}

// IsPublic 未设置时按库表默认值 true 处理
func (t *Topic) IsPublic() bool {
	return t.Public == nil || *t.Public
}
