package mysql

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"Lee_Forum/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func digest(s string) []byte {
	sum := sha256.Sum256([]byte(s))
	return sum[:]
}

func TestSessionRepositoryInsertFindDelete(t *testing.T) {
	db := newTestDB(t)
	repo := &SessionRepository{DB: db}
	ctx := context.Background()
	u := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")

	d := digest("session-a")
	require.NoError(t, repo.Insert(ctx, &model.Session{ID: d, UserID: u.ID}))

	s, err := repo.Find(ctx, d, u.ID)
	require.NoError(t, err)
	assert.Equal(t, d, s.ID)
	assert.Nil(t, s.ExpiresAt)

	// 摘要相同但用户不同视为不存在
	_, err = repo.Find(ctx, d, other.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	n, err := repo.Delete(ctx, d, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.Delete(ctx, d, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestSessionRepositoryDigestCollision(t *testing.T) {
	db := newTestDB(t)
	repo := &SessionRepository{DB: db}
	ctx := context.Background()
	u := seedUser(t, db, "alice")

	d := digest("same")
	require.NoError(t, repo.Insert(ctx, &model.Session{ID: d, UserID: u.ID}))
	err := repo.Insert(ctx, &model.Session{ID: d, UserID: u.ID})
	assert.ErrorIs(t, err, ErrDigestCollision)
}

func TestSessionRepositoryDeleteExpired(t *testing.T) {
	db := newTestDB(t)
	repo := &SessionRepository{DB: db}
	ctx := context.Background()
	u := seedUser(t, db, "alice")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	require.NoError(t, repo.Insert(ctx, &model.Session{ID: digest("old"), UserID: u.ID, ExpiresAt: &past}))
	require.NoError(t, repo.Insert(ctx, &model.Session{ID: digest("new"), UserID: u.ID, ExpiresAt: &future}))
	require.NoError(t, repo.Insert(ctx, &model.Session{ID: digest("forever"), UserID: u.ID}))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = repo.Find(ctx, digest("old"), u.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.Find(ctx, digest("new"), u.ID)
	assert.NoError(t, err)
	_, err = repo.Find(ctx, digest("forever"), u.ID)
	assert.NoError(t, err)
}

func TestSessionCascadesWithUser(t *testing.T) {
	db := newTestDB(t)
	repo := &SessionRepository{DB: db}
	ctx := context.Background()
	u := seedUser(t, db, "alice")
	require.NoError(t, repo.Insert(ctx, &model.Session{ID: digest("x"), UserID: u.ID}))

	require.NoError(t, db.Delete(&model.User{}, u.ID).Error)
	_, err := repo.Find(ctx, digest("x"), u.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
