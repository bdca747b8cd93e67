package auth

import (
	"context"
	"time"
)

// Principal is an authenticated user. AccessToken is the provider token
// used for row level security and sign-out; it may be empty.
type Principal struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token,omitempty"`
}

// Identity is the result of a sign-up. Existing reports a provider response
// that looks successful but describes an account that was already there.
type Identity struct {
	ID       string
	Email    string
	Existing bool
}

type Favorite struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Summary     string    `json:"summary"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"created_at"`
}

type FavoriteInput struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
}

// Stats are store totals reported on the health endpoint.
type Stats struct {
	Users     int `json:"users"`
	Favorites int `json:"favorites"`
}

// statsBackend is implemented by backends that can count their records.
type statsBackend interface {
	Stats(ctx context.Context) (Stats, error)
}

// Backend performs the raw identity and record store calls. Failures
// should be reported as *ProviderError where the provider gives detail.
type Backend interface {
	Name() string
	SignUp(ctx context.Context, email, password string) (Identity, error)
	SignIn(ctx context.Context, email, password string) (Principal, error)
	SignOut(ctx context.Context, principal Principal) error
	ListFavorites(ctx context.Context, principal Principal) ([]Favorite, error)
	InsertFavorite(ctx context.Context, principal Principal, favorite Favorite) (Favorite, error)
	DeleteFavorite(ctx context.Context, principal Principal, link string) error
}
