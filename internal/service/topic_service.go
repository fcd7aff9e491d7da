package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/repository/mysql"

	"gorm.io/gorm"
)

const MaxTitleLen = 200

type TopicService struct {
	topics *mysql.TopicRepository
	posts  *mysql.PostRepository
}

func NewTopicService(db *gorm.DB) *TopicService {
	return &TopicService{
		topics: &mysql.TopicRepository{DB: db},
		posts:  &mysql.PostRepository{DB: db},
	}
}

// TopicView 主题详情：主题本身加上当前页中调用者可见的帖子
type TopicView struct {
	Topic *model.Topic `json:"topic"`
	Posts []model.Post `json:"posts"`
	Page  int          `json:"page"`
}

// CreateTopic 同一事务写入主题和 1 楼
func (s *TopicService) CreateTopic(ctx context.Context, h *SessionHandle, title string, public bool, body string, now time.Time) (*model.Topic, *model.Post, error) {
	if !h.CanPost() {
		return nil, nil, model.NewForbiddenError(h.String(), "topics")
	}
	uid, ok := h.UserID()
	if !ok {
		return nil, nil, model.NewInternalError(errors.New("authenticated session without user id"))
	}
	title = strings.TrimSpace(title)
	if title == "" || len(title) > MaxTitleLen {
		return nil, nil, model.NewInvalidError("title must be 1-200 characters")
	}
	if strings.TrimSpace(body) == "" {
		return nil, nil, model.NewInvalidError("body is required")
	}

	topic := &model.Topic{AuthorUserID: uid, Title: title, Public: &public, CreatedAt: now}
	post := &model.Post{AuthorUserID: uid, Body: body, Public: &public, CreatedAt: now}
	if err := s.topics.CreateWithFirstPost(ctx, topic, post); err != nil {
		return nil, nil, model.NewInternalError(err)
	}
	return topic, post, nil
}

// GetTopic 不可见返回 Forbidden，不存在返回 NotFound
func (s *TopicService) GetTopic(ctx context.Context, h *SessionHandle, id uint64, page pkg.Pagination) (*TopicView, error) {
	topic, err := s.findTopic(ctx, id)
	if err != nil {
		return nil, err
	}
	if !TopicVisible(topic, h) {
		return nil, model.NewForbiddenError(h.String(), "topic")
	}

	list, err := s.posts.ListByTopic(ctx, id, page.Offset(), page.Limit())
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	visible := make([]model.Post, 0, len(list))
	for i := range list {
		if PostVisible(&list[i], topic, h) {
			visible = append(visible, list[i])
		}
	}

	if !h.IsAnonymous() {
		if err = s.topics.AddView(ctx, id); err != nil {
			pkg.Logger.WarnContext(ctx, "topic view count failed", "topic_id", id, "error", err)
		}
	}
	return &TopicView{Topic: topic, Posts: visible, Page: page.Page}, nil
}

func (s *TopicService) GetPost(ctx context.Context, h *SessionHandle, id uint64) (*model.Post, error) {
	post, topic, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !PostVisible(post, topic, h) {
		return nil, model.NewForbiddenError(h.String(), "post")
	}
	return post, nil
}

// Reply 楼层号由仓储在事务内分配
func (s *TopicService) Reply(ctx context.Context, h *SessionHandle, topicID uint64, body string, public bool, now time.Time) (*model.Post, error) {
	if !h.CanPost() {
		return nil, model.NewForbiddenError(h.String(), "replies")
	}
	uid, _ := h.UserID()
	if strings.TrimSpace(body) == "" {
		return nil, model.NewInvalidError("body is required")
	}
	topic, err := s.findTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if !TopicVisible(topic, h) || topic.DeletedAt != nil {
		return nil, model.NewForbiddenError(h.String(), "topic")
	}

	post := &model.Post{TopicID: topicID, AuthorUserID: uid, Body: body, Public: &public, CreatedAt: now}
	if err = s.posts.Reply(ctx, post); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NewNotFoundError("topic", topicID)
		}
		return nil, model.NewInternalError(err)
	}
	return post, nil
}

// DeletePost 作者本人、版主、管理员可删，重复删除直接成功
func (s *TopicService) DeletePost(ctx context.Context, h *SessionHandle, id uint64, now time.Time) error {
	uid, ok := h.UserID()
	if !ok {
		return model.NewNotLoggedInError()
	}
	post, _, err := s.findPost(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(h, post.AuthorUserID) {
		return model.NewForbiddenError(h.String(), "post")
	}
	if _, err = s.posts.SoftDelete(ctx, id, uid, now); err != nil {
		return model.NewInternalError(err)
	}
	return nil
}

func (s *TopicService) DeleteTopic(ctx context.Context, h *SessionHandle, id uint64, now time.Time) error {
	uid, ok := h.UserID()
	if !ok {
		return model.NewNotLoggedInError()
	}
	topic, err := s.findTopic(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(h, topic.AuthorUserID) {
		return model.NewForbiddenError(h.String(), "topic")
	}
	if _, err = s.topics.SoftDelete(ctx, id, uid, now); err != nil {
		return model.NewInternalError(err)
	}
	return nil
}

func canModify(h *SessionHandle, author uint64) bool {
	if h.IsAdmin() || h.IsModerator() {
		return true
	}
	uid, ok := h.UserID()
	return ok && uid == author && !h.IsBanned()
}

func (s *TopicService) findTopic(ctx context.Context, id uint64) (*model.Topic, error) {
	topic, err := s.topics.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.NewNotFoundError("topic", id)
	}
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	return topic, nil
}

func (s *TopicService) findPost(ctx context.Context, id uint64) (*model.Post, *model.Topic, error) {
	post, err := s.posts.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, model.NewNotFoundError("post", id)
	}
	if err != nil {
		return nil, nil, model.NewInternalError(err)
	}
	topic, err := s.topics.FindByID(ctx, post.TopicID)
	if err != nil {
		return nil, nil, model.NewInternalError(err)
	}
	return post, topic, nil
}
