package mysql

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"Lee_Forum/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forum.db")
	db, err := Open(Options{Driver: "sqlite", DSN: "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, (&UserRepository{DB: db}).Create(context.Background(), u))
	return u
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Options{Driver: "oracle", DSN: "x"})
	require.Error(t, err)
}
