package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lalith-99/taskdeck/internal/models"
	"github.com/lalith-99/taskdeck/internal/repository/memory"
)

func TestSessionResolver(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.PutUser(models.User{ID: "u1", Name: "Una"})
	store.PutSession("tok", "u1", time.Now().Add(time.Hour))
	store.PutSession("old", "u1", time.Now().Add(-time.Hour))

	r := NewSessionResolver(store.Repos().Sessions)

	u, err := r.Resolve(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	for _, token := range []string{"", "old", "missing"} {
		u, err := r.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Nil(t, u, "token %q", token)
	}
}

func TestJWTResolver(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.PutUser(models.User{ID: "u1", Name: "Una"})

	r := NewJWTResolver(testSecret, store.Repos().Users, zap.NewNop())

	token, err := GenerateToken("u1", "u1@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	u, err := r.Resolve(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Una", u.Name)

	ghost, err := GenerateToken("ghost", "g@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	u, err = r.Resolve(ctx, ghost)
	require.NoError(t, err)
	assert.Nil(t, u, "token for a deleted user")

	u, err = r.Resolve(ctx, "garbage")
	require.NoError(t, err)
	assert.Nil(t, u)
}
