package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"Lee_Forum/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTopic(author uint64, public bool) (*model.Topic, *model.Post) {
	now := time.Now().UTC()
	return &model.Topic{AuthorUserID: author, Title: "hello", Public: &public, CreatedAt: now},
		&model.Post{AuthorUserID: author, Body: "first", Public: &public, CreatedAt: now}
}

func TestTopicRepositoryCreateWithFirstPost(t *testing.T) {
	db := newTestDB(t)
	repo := &TopicRepository{DB: db}
	ctx := context.Background()
	u := seedUser(t, db, "alice")

	topic, post := newTopic(u.ID, false)
	require.NoError(t, repo.CreateWithFirstPost(ctx, topic, post))
	assert.NotZero(t, topic.ID)
	assert.EqualValues(t, 1, topic.NumberPosts)
	assert.Equal(t, topic.ID, post.TopicID)
	assert.EqualValues(t, 1, post.PostNumber)

	stored, err := repo.FindByID(ctx, topic.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.NumberPosts)
	assert.False(t, stored.IsPublic())

	var outbox []model.ForumOutbox
	require.NoError(t, db.Find(&outbox).Error)
	require.Len(t, outbox, 1)
	assert.Equal(t, model.EventTopicCreated, outbox[0].EventType)
	assert.Equal(t, topic.ID, outbox[0].AggregateID)

	author, err := (&UserRepository{DB: db}).FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, author.LastPostAt)
}

func TestTopicRepositoryCreateRollsBackOnPostFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `topics`")).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `posts`")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	topic, post := newTopic(7, true)
	err = (&TopicRepository{DB: db}).CreateWithFirstPost(context.Background(), topic, post)
	assert.EqualError(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepositoryRollbackLeavesNoRows(t *testing.T) {
	db := newTestDB(t)
	repo := &TopicRepository{DB: db}
	u := seedUser(t, db, "alice")

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("fail_posts", func(tx *gorm.DB) {
		if tx.Statement.Table == "posts" {
			_ = tx.AddError(errors.New("injected"))
		}
	}))

	topic, post := newTopic(u.ID, true)
	err := repo.CreateWithFirstPost(context.Background(), topic, post)
	require.Error(t, err)

	var topics, posts, events int64
	require.NoError(t, db.Model(&model.Topic{}).Count(&topics).Error)
	require.NoError(t, db.Model(&model.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&model.ForumOutbox{}).Count(&events).Error)
	assert.Zero(t, topics)
	assert.Zero(t, posts)
	assert.Zero(t, events)
}

func TestTopicRepositorySoftDelete(t *testing.T) {
	db := newTestDB(t)
	repo := &TopicRepository{DB: db}
	ctx := context.Background()
	u := seedUser(t, db, "alice")
	topic, post := newTopic(u.ID, true)
	require.NoError(t, repo.CreateWithFirstPost(ctx, topic, post))

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	changed, err := repo.SoftDelete(ctx, topic.ID, u.ID, at)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.SoftDelete(ctx, topic.ID, u.ID, at.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, changed)

	stored, err := repo.FindByID(ctx, topic.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DeletedAt)
	assert.True(t, stored.DeletedAt.Equal(at))
	require.NotNil(t, stored.LastUpdatedBy)
	assert.Equal(t, u.ID, *stored.LastUpdatedBy)
}

func TestTopicRepositoryAddView(t *testing.T) {
	db := newTestDB(t)
	repo := &TopicRepository{DB: db}
	ctx := context.Background()
	u := seedUser(t, db, "alice")
	topic, post := newTopic(u.ID, true)
	require.NoError(t, repo.CreateWithFirstPost(ctx, topic, post))

	require.NoError(t, repo.AddView(ctx, topic.ID))
	require.NoError(t, repo.AddView(ctx, topic.ID))
	stored, err := repo.FindByID(ctx, topic.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stored.ViewsFromUsers)
}

func TestTopicPublicDefaultsToTrue(t *testing.T) {
	db := newTestDB(t)
	repo := &TopicRepository{DB: db}
	ctx := context.Background()
	u := seedUser(t, db, "alice")

	topic := &model.Topic{AuthorUserID: u.ID, Title: "untagged", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.CreateWithFirstPost(ctx, topic, &model.Post{AuthorUserID: u.ID, Body: "b", CreatedAt: time.Now().UTC()}))
	stored, err := repo.FindByID(ctx, topic.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Public)
	assert.True(t, *stored.Public)

	// 列默认值在库表上，不依赖 gorm
	require.NoError(t, db.Exec("INSERT INTO topics (author_user_id, title, created_at) VALUES (?, ?, ?)",
		u.ID, "raw", time.Now().UTC()).Error)
	var raw model.Topic
	require.NoError(t, db.Where("title = ?", "raw").Take(&raw).Error)
	require.NotNil(t, raw.Public)
	assert.True(t, *raw.Public)
	assert.EqualValues(t, 0, raw.NumberPosts)
}
