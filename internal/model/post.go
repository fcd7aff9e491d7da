package model

import "time"

type Post struct {
	ID            uint64     `gorm:"primaryKey" json:"id"`
	TopicID       uint64     `gorm:"not null;uniqueIndex:uk_topic_post_number,priority:1" json:"topic_id"`
	Topic         Topic      `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorUserID  uint64     `gorm:"not null;index" json:"author_user_id"`
	Author        User       `gorm:"foreignKey:AuthorUserID;constraint:OnDelete:CASCADE" json:"-"`
	Body          string     `gorm:"type:text;not null" json:"body"`
	PostNumber    int64      `gorm:"not null;uniqueIndex:uk_topic_post_number,priority:2" json:"post_number"` // 主题内从 1 开始连续
	Public        *bool      `gorm:"not null;default:true" json:"public"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	LastUpdatedBy *uint64    `json:"last_updated_by,omitempty"`
}

func (p *Post) IsPublic() bool {
	return p.Public == nil || *p.Public
}
