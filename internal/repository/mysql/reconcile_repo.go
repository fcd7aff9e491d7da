package mysql

import (
	"context"

	"Lee_Forum/internal/model"

	"gorm.io/gorm"
)

// PostCountReconcilerRepo 主题帖子数对账
type PostCountReconcilerRepo struct {
	DB *gorm.DB
}

// TopicCount 对账用的主题计数
type TopicCount struct {
	ID          uint64
	NumberPosts int64
}

// ReconcileList 按 id 游标批量读取主题，返回下一批的起点
func (r *PostCountReconcilerRepo) ReconcileList(ctx context.Context, batchSize int, lastID uint64) ([]TopicCount, uint64, error) {
	var list []TopicCount
	if err := r.DB.WithContext(ctx).Model(&model.Topic{}).
		Select("id", "number_posts").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

// livePostCount 未软删除帖子数的关联子查询
func (r *PostCountReconcilerRepo) livePostCount() *gorm.DB {
	return r.DB.Model(&model.Post{}).
		Select("COUNT(*)").
		Where("posts.topic_id = topics.id AND posts.deleted_at IS NULL")
}

// ReconcilePostCount 计数和回写在同一条 UPDATE 里完成，不会覆盖并发回复的自增；返回是否有修正
func (r *PostCountReconcilerRepo) ReconcilePostCount(ctx context.Context, topicID uint64) (bool, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Topic{}).
		Where("id = ? AND number_posts <> (?)", topicID, r.livePostCount()).
		UpdateColumn("number_posts", gorm.Expr("(?)", r.livePostCount()))
	return tx.RowsAffected > 0, tx.Error
}
