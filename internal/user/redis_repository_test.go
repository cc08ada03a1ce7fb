package user

import (
	"context"
	"testing"

	"user_portal/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserKey(t *testing.T) {
	assert.Equal(t, "user:alice", UserKey("alice"))
	assert.Equal(t, "user:Alice", UserKey("Alice"))
}

func TestRedisUserRepository_StoresDocumentPerCreate(t *testing.T) {
	client, srv := testutil.NewRedisClient(t)
	repo := NewRedisUserRepository(client, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("Bob", "bob", "pw2", RoleUser)))
	require.NoError(t, repo.Create(ctx, newTestUser("Bob", "bob", "pw2", RoleUser)))

	docs, err := srv.List(UserKey("bob"))
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	members, err := srv.Members(usernamesKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, members)
}

func TestRedisUserRepository_ServerDown(t *testing.T) {
	client, srv := testutil.NewRedisClient(t)
	repo := NewRedisUserRepository(client, nil)
	ctx := context.Background()

	srv.Close()

	got, err := repo.GetByUsername(ctx, "alice")
	assert.Error(t, err)
	assert.Nil(t, got)

	err = repo.Create(ctx, newTestUser("Alice", "alice", "pw1", RoleAdmin))
	assert.Error(t, err)

	users, err := repo.List(ctx)
	assert.Error(t, err)
	assert.Nil(t, users)

	assert.Error(t, repo.Ping(ctx))
}

func TestRedisUserRepository_CorruptDocument(t *testing.T) {
	client, srv := testutil.NewRedisClient(t)
	repo := NewRedisUserRepository(client, nil)

	_, err := srv.Lpush(UserKey("mallory"), "not-json")
	require.NoError(t, err)

	got, err := repo.GetByUsername(context.Background(), "mallory")
	assert.Error(t, err)
	assert.Nil(t, got)
}
