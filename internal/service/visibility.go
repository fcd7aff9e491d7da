package service

import (
	"time"

	"Lee_Forum/internal/model"
)

// Viewer 可见性判断只需要的调用者信息
type Viewer interface {
	UserID() (uint64, bool)
	IsAdmin() bool
	IsModerator() bool
}

// Visible 软删除内容只对管理员和版主可见；非公开内容额外对作者本人可见
func Visible(author uint64, public bool, deletedAt *time.Time, v Viewer) bool {
	privileged := v.IsAdmin() || v.IsModerator()
	if deletedAt != nil {
		return privileged
	}
	if !public {
		uid, ok := v.UserID()
		return privileged || (ok && uid == author)
	}
	return true
}

func TopicVisible(t *model.Topic, v Viewer) bool {
	return Visible(t.AuthorUserID, t.IsPublic(), t.DeletedAt, v)
}

// PostVisible 帖子与所在主题都可见才可见
func PostVisible(p *model.Post, t *model.Topic, v Viewer) bool {
	return TopicVisible(t, v) && Visible(p.AuthorUserID, p.IsPublic(), p.DeletedAt, v)
}
