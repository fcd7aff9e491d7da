package mysql

import (
	"context"
	"time"

	"Lee_Forum/internal/model"

	"gorm.io/gorm"
)

type TopicRepository struct {
	DB *gorm.DB
}

// CreateWithFirstPost 主题与 1 楼在同一事务内写入，任一失败整体回滚
func (r *TopicRepository) CreateWithFirstPost(ctx context.Context, topic *model.Topic, post *model.Post) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		topic.NumberPosts = 0
		if err := tx.Create(topic).Error; err != nil {
			return err
		}

		post.TopicID = topic.ID
		post.AuthorUserID = topic.AuthorUserID
		post.PostNumber = 1
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Topic{}).Where("id = ?", topic.ID).
			UpdateColumn("number_posts", gorm.Expr("number_posts + ?", 1)).Error; err != nil {
			return err
		}
		topic.NumberPosts = 1

		if err := touchLastPost(tx, topic.AuthorUserID, post.CreatedAt); err != nil {
			return err
		}
		return insertOutbox(tx, model.EventTopicCreated, topic.ID, topic.AuthorUserID, map[string]any{
			"title":   topic.Title,
			"public":  topic.IsPublic(),
			"post_id": post.ID,
		})
	})
}

func (r *TopicRepository) FindByID(ctx context.Context, id uint64) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.WithContext(ctx).First(&topic, id).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// AddView 登录用户浏览计数
func (r *TopicRepository) AddView(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.Topic{}).Where("id = ?", id).
		UpdateColumn("views_from_users", gorm.Expr("views_from_users + ?", 1)).Error
}

// SoftDelete 幂等软删除，返回本次是否真正删除
func (r *TopicRepository) SoftDelete(ctx context.Context, id, actorID uint64, at time.Time) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Topic{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Updates(map[string]any{"deleted_at": at, "updated_at": at, "last_updated_by": actorID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return insertOutbox(tx, model.EventTopicDeleted, id, actorID, nil)
	})
	return changed, err
}

func touchLastPost(tx *gorm.DB, userID uint64, at time.Time) error {
	return tx.Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("last_post_at", at).Error
}
