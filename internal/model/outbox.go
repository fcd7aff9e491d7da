package model

import "time"

const (
	EventTopicCreated        = "topic_created"
	EventTopicDeleted        = "topic_deleted"
	EventPostCreated         = "post_created"
	EventPostDeleted         = "post_deleted"
	EventModeratorAssigned   = "moderator_assigned"
	EventModeratorUnassigned = "moderator_unassigned"
	EventUserMuted           = "user_muted"
	EventUserBanned          = "user_banned"
	EventUserUnbanned        = "user_unbanned"
)

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// ForumOutbox 论坛事件表，和业务写入处于同一事务
type ForumOutbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:32;not null"`
	AggregateID uint64 `gorm:"not null"` // topic/post/user id，作为 kafka 分区 key
	ActorID     uint64 `gorm:"not null"`
	Payload     string `gorm:"type:text;not null"`
	Status      int8   `gorm:"not null;default:0;index"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ForumOutbox) TableName() string { return "forum_outbox" }
