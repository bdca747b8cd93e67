package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "Reader@Example.com", "hash")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "reader@example.com", user.Email)

	_, err = repo.CreateUser(ctx, "reader@example.com", "other-hash")
	assert.True(t, errors.Is(err, ErrDuplicate), "expected ErrDuplicate, got %v", err)

	found, err := repo.GetUserByEmail(ctx, "READER@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "hash", found.PasswordHash)

	missing, err := repo.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	count, err := repo.GetUserCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFavoriteRepository(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewFavoriteRepository(db)
	ctx := context.Background()

	alice, err := users.CreateUser(ctx, "alice@example.com", "hash")
	require.NoError(t, err)
	bob, err := users.CreateUser(ctx, "bob@example.com", "hash")
	require.NoError(t, err)

	base := time.Date(2025, 10, 6, 9, 0, 0, 0, time.UTC)
	for i, link := range []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"} {
		_, err := repo.InsertFavorite(ctx, Favorite{
			UserID:    alice.ID,
			Title:     "Title",
			Link:      link,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	_, err = repo.InsertFavorite(ctx, Favorite{UserID: bob.ID, Title: "Bob", Link: "https://example.com/1"})
	require.NoError(t, err, "the same link may be saved by different users")

	favorites, err := repo.ListFavorites(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 3)
	assert.Equal(t, "https://example.com/3", favorites[0].Link, "newest first")
	assert.Equal(t, "https://example.com/1", favorites[2].Link)
	assert.Equal(t, base.Add(2*time.Minute), favorites[0].CreatedAt)

	_, err = repo.InsertFavorite(ctx, Favorite{UserID: alice.ID, Title: "Again", Link: "https://example.com/2"})
	assert.True(t, errors.Is(err, ErrDuplicate), "expected ErrDuplicate, got %v", err)

	favorites, err = repo.ListFavorites(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, favorites, 3, "duplicate insert must not change the list")

	count, err := repo.GetFavoriteCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	affected, err := repo.DeleteFavorite(ctx, alice.ID, "https://example.com/2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.DeleteFavorite(ctx, alice.ID, "https://example.com/2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	bobFavorites, err := repo.ListFavorites(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobFavorites, 1)
}

func TestFavoriteRepositoryRejectsUnknownUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewFavoriteRepository(db)

	_, err := repo.InsertFavorite(context.Background(), Favorite{UserID: "ghost", Title: "Title", Link: "https://example.com"})
	assert.Error(t, err, "favorites must reference an existing user")
	assert.False(t, errors.Is(err, ErrDuplicate))
}

func TestListFavoritesEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewFavoriteRepository(db)

	favorites, err := repo.ListFavorites(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, favorites)
	assert.Empty(t, favorites)
}
