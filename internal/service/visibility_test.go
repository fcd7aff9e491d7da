package service

import (
	"testing"
	"time"

	"Lee_Forum/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestVisible(t *testing.T) {
	deleted := time.Now()
	const author = 7

	viewers := map[string]*SessionHandle{
		"anonymous": anonymous(),
		"author":    handleFor(author, model.RoleAuthor),
		"other":     handleFor(8, model.RoleAuthor),
		"moderator": handleFor(9, model.RoleModerator),
		"admin":     handleFor(1, model.RoleAdmin),
		"banned":    handleFor(author, model.RoleBanned),
	}

	tests := []struct {
		name      string
		public    bool
		deletedAt *time.Time
		want      map[string]bool
	}{
		{"public", true, nil, map[string]bool{
			"anonymous": true, "author": true, "other": true, "moderator": true, "admin": true, "banned": true,
		}},
		{"private", false, nil, map[string]bool{
			"anonymous": false, "author": true, "other": false, "moderator": true, "admin": true, "banned": true,
		}},
		{"deleted public", true, &deleted, map[string]bool{
			"anonymous": false, "author": false, "other": false, "moderator": true, "admin": true, "banned": false,
		}},
		{"deleted private", false, &deleted, map[string]bool{
			"anonymous": false, "author": false, "other": false, "moderator": true, "admin": true, "banned": false,
		}},
	}
	for _, tt := range tests {
		for name, v := range viewers {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				assert.Equal(t, tt.want[name], Visible(author, tt.public, tt.deletedAt, v))
			})
		}
	}
}

func TestPostVisibleRequiresTopic(t *testing.T) {
	deleted := time.Now()
	topic := &model.Topic{AuthorUserID: 7, Public: new(bool)}
	post := &model.Post{AuthorUserID: 8}

	// 8 能看自己的公开帖，但看不到 7 的私有主题
	assert.False(t, PostVisible(post, topic, handleFor(8, model.RoleAuthor)))
	assert.True(t, PostVisible(post, topic, handleFor(7, model.RoleAuthor)))
	assert.True(t, PostVisible(post, topic, handleFor(9, model.RoleModerator)))

	topic.Public = nil
	post.DeletedAt = &deleted
	assert.False(t, PostVisible(post, topic, handleFor(8, model.RoleAuthor)))
	assert.True(t, PostVisible(post, topic, handleFor(1, model.RoleAdmin)))
	assert.False(t, PostVisible(post, topic, anonymous()))
}
