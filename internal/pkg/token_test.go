package pkg

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionIDIsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := NewSessionID()
		require.NoError(t, err)
		assert.Len(t, id, 43)
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestSessionDigest(t *testing.T) {
	id, err := NewSessionID()
	require.NoError(t, err)

	d := SessionDigest(id)
	assert.Len(t, d, sha256.Size)
	assert.Equal(t, d, SessionDigest(id))
	assert.NotEqual(t, []byte(id), d)

	other, err := NewSessionID()
	require.NoError(t, err)
	assert.NotEqual(t, d, SessionDigest(other))
}
