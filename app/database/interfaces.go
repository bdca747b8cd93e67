package database

import (
	"context"
	"errors"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

type UserRepository interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserCount(ctx context.Context) (int, error)
}

type FavoriteRepository interface {
	ListFavorites(ctx context.Context, userID string) ([]Favorite, error)
	InsertFavorite(ctx context.Context, favorite Favorite) (*Favorite, error)
	DeleteFavorite(ctx context.Context, userID, link string) (int64, error)
	GetFavoriteCount(ctx context.Context) (int, error)
}
