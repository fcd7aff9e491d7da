package mysql

import (
	"context"
	"encoding/json"
	"testing"

	"Lee_Forum/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRepositoryLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := &OutboxRepository{DB: db}
	ctx := context.Background()

	require.NoError(t, insertOutbox(db, model.EventPostCreated, 3, 7, map[string]any{"topic_id": 1}))
	require.NoError(t, insertOutbox(db, model.EventPostDeleted, 3, 7, nil))

	list, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(list[0].Payload), &body))
	assert.Equal(t, model.EventPostCreated, body["event"])
	assert.EqualValues(t, 1, body["topic_id"])
	assert.EqualValues(t, 7, body["actor"])

	require.NoError(t, repo.SuccessUpdate(ctx, list[0].ID))
	for i := 0; i < MaxOutboxRetry; i++ {
		list, err = repo.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.NoError(t, repo.RetryUpdate(ctx, list[0].ID))
	}

	list, err = repo.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}
