package mysql

import (
	"context"
	"time"

	"Lee_Forum/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListByTopic 按楼层分页，可见性由调用方过滤
func (r *PostRepository) ListByTopic(ctx context.Context, topicID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("post_number ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// Reply 锁住主题行后分配下一个楼层号，保证楼层连续
func (r *PostRepository) Reply(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topic model.Topic
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", post.TopicID).
			Take(&topic).Error; err != nil {
			return err
		}

		var last int64
		if err := tx.Model(&model.Post{}).
			Where("topic_id = ?", post.TopicID).
			Select("COALESCE(MAX(post_number), 0)").
			Scan(&last).Error; err != nil {
			return err
		}
		post.PostNumber = last + 1
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Topic{}).Where("id = ?", post.TopicID).
			UpdateColumn("number_posts", gorm.Expr("number_posts + ?", 1)).Error; err != nil {
			return err
		}
		if err := touchLastPost(tx, post.AuthorUserID, post.CreatedAt); err != nil {
			return err
		}
		return insertOutbox(tx, model.EventPostCreated, post.ID, post.AuthorUserID, map[string]any{
			"topic_id":    post.TopicID,
			"post_number": post.PostNumber,
		})
	})
}

// SoftDelete 幂等软删除并同步主题帖子数
func (r *PostRepository) SoftDelete(ctx context.Context, id, actorID uint64, at time.Time) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "topic_id", "deleted_at").
			Where("id = ?", id).
			Take(&post).Error; err != nil {
			return err
		}
		if post.DeletedAt != nil {
			return nil
		}
		if err := tx.Model(&model.Post{}).Where("id = ?", id).
			Updates(map[string]any{"deleted_at": at, "updated_at": at, "last_updated_by": actorID}).Error; err != nil {
			return err
		}
		// 计数防负数
		if err := tx.Model(&model.Topic{}).Where("id = ?", post.TopicID).
			UpdateColumn("number_posts", gorm.Expr("CASE WHEN number_posts > 0 THEN number_posts - 1 ELSE 0 END")).Error; err != nil {
			return err
		}
		changed = true
		return insertOutbox(tx, model.EventPostDeleted, id, actorID, map[string]any{"topic_id": post.TopicID})
	})
	return changed, err
}
