package mysql

import (
	"context"
	"sync"
	"testing"
	"time"

	"Lee_Forum/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPostRepositoryReplyNumbering(t *testing.T) {
	db := newTestDB(t)
	topics := &TopicRepository{DB: db}
	posts := &PostRepository{DB: db}
	ctx := context.Background()
	u := seedUser(t, db, "alice")
	topic, first := newTopic(u.ID, true)
	require.NoError(t, topics.CreateWithFirstPost(ctx, topic, first))

	for i := 0; i < 4; i++ {
		p := &model.Post{TopicID: topic.ID, AuthorUserID: u.ID, Body: "reply", CreatedAt: time.Now().UTC()}
		require.NoError(t, posts.Reply(ctx, p))
		assert.EqualValues(t, i+2, p.PostNumber)
	}

	list, err := posts.ListByTopic(ctx, topic.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, p := range list {
		assert.EqualValues(t, i+1, p.PostNumber)
	}

	stored, err := topics.FindByID(ctx, topic.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, stored.NumberPosts)

	page, err := posts.ListByTopic(ctx, topic.ID, 3, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.EqualValues(t, 4, page[0].PostNumber)
}

func TestPostRepositoryReplyConcurrent(t *testing.T) {
	db := newTestDB(t)
	topics := &TopicRepository{DB: db}
	posts := &PostRepository{DB: db}
	ctx := context.Background()
	u := seedUser(t, db, "alice")
	topic, first := newTopic(u.ID, true)
	require.NoError(t, topics.CreateWithFirstPost(ctx, topic, first))

	// sqlite 单写者，串行化后楼层仍需连续
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := &model.Post{TopicID: topic.ID, AuthorUserID: u.ID, Body: "r", CreatedAt: time.Now().UTC()}
			assert.NoError(t, posts.Reply(ctx, p))
		}()
	}
	wg.Wait()

	list, err := posts.ListByTopic(ctx, topic.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, list, 9)
	for i, p := range list {
		assert.EqualValues(t, i+1, p.PostNumber)
	}
}

func TestPostRepositoryReplyMissingTopic(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "alice")
	err := (&PostRepository{DB: db}).Reply(context.Background(),
		&model.Post{TopicID: 42, AuthorUserID: u.ID, Body: "r", CreatedAt: time.Now().UTC()})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostRepositorySoftDelete(t *testing.T) {
	db := newTestDB(t)
	topics := &TopicRepository{DB: db}
	posts := &PostRepository{DB: db}
	ctx := context.Background()
	u := seedUser(t, db, "alice")
	topic, first := newTopic(u.ID, true)
	require.NoError(t, topics.CreateWithFirstPost(ctx, topic, first))

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	changed, err := posts.SoftDelete(ctx, first.ID, u.ID, at)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = posts.SoftDelete(ctx, first.ID, u.ID, at)
	require.NoError(t, err)
	assert.False(t, changed)

	stored, err := topics.FindByID(ctx, topic.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stored.NumberPosts)

	p, err := posts.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, p.DeletedAt)

	_, err = posts.SoftDelete(ctx, 999, u.ID, at)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var events []model.ForumOutbox
	require.NoError(t, db.Where("event_type = ?", model.EventPostDeleted).Find(&events).Error)
	assert.Len(t, events, 1)
}
