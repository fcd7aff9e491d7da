package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/repository/mysql"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fastPassword = pkg.PasswordConfig{Memory: 1024, Time: 1, Parallelism: 1}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forum.db")
	db, err := mysql.Open(mysql.Options{Driver: "sqlite", DSN: "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"})
	require.NoError(t, err)
	require.NoError(t, mysql.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// createUser 第一个创建的用户 id 为 1，即管理员
func createUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}

func handleFor(userID uint64, role model.Role) *SessionHandle {
	return NewSessionHandle(nil, &model.SessionData{UserID: userID, SessionID: "test", Role: role})
}

func anonymous() *SessionHandle {
	return NewSessionHandle(nil, nil)
}
