package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"

	"golang.org/x/crypto/bcrypt"

	"github.com/lysyi3m/newsbrief/app/database"
)

// LocalBackend keeps accounts and favorites in the local SQLite database.
// It reports failures with the same provider codes the hosted backend uses.
type LocalBackend struct {
	users      database.UserRepository
	favorites  database.FavoriteRepository
	bcryptCost int
}

var (
	_ Backend      = (*LocalBackend)(nil)
	_ statsBackend = (*LocalBackend)(nil)
)

func NewLocalBackend(users database.UserRepository, favorites database.FavoriteRepository) *LocalBackend {
	return &LocalBackend{
		users:      users,
		favorites:  favorites,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (b *LocalBackend) Name() string {
	return "local"
}

func (b *LocalBackend) SignUp(ctx context.Context, email, password string) (Identity, error) {
	address, err := mail.ParseAddress(email)
	if err != nil || address.Address != email {
		return Identity{}, &ProviderError{
			Status:  http.StatusBadRequest,
			Code:    "email_address_invalid",
			Message: "Unable to validate email address: invalid format",
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.bcryptCost)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := b.users.CreateUser(ctx, email, string(hash))
	if errors.Is(err, database.ErrDuplicate) {
		return Identity{}, &ProviderError{
			Status:  http.StatusUnprocessableEntity,
			Code:    "user_already_exists",
			Message: "User already registered",
		}
	}
	if err != nil {
		return Identity{}, err
	}

	return Identity{ID: user.ID, Email: user.Email}, nil
}

func (b *LocalBackend) SignIn(ctx context.Context, email, password string) (Principal, error) {
	user, err := b.users.GetUserByEmail(ctx, email)
	if err != nil {
		return Principal{}, err
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Principal{}, &ProviderError{
			Status:  http.StatusBadRequest,
			Code:    "invalid_credentials",
			Message: "Invalid login credentials",
		}
	}

	return Principal{UserID: user.ID, Email: user.Email}, nil
}

// SignOut has nothing to revoke: local sessions are the only credential.
func (b *LocalBackend) SignOut(ctx context.Context, principal Principal) error {
	return nil
}

func (b *LocalBackend) ListFavorites(ctx context.Context, principal Principal) ([]Favorite, error) {
	rows, err := b.favorites.ListFavorites(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	favorites := make([]Favorite, 0, len(rows))
	for _, row := range rows {
		favorites = append(favorites, fromRow(row))
	}
	return favorites, nil
}

func (b *LocalBackend) InsertFavorite(ctx context.Context, principal Principal, favorite Favorite) (Favorite, error) {
	row, err := b.favorites.InsertFavorite(ctx, database.Favorite{
		UserID:      principal.UserID,
		Title:       favorite.Title,
		Description: favorite.Description,
		Summary:     favorite.Summary,
		Link:        favorite.Link,
		CreatedAt:   favorite.CreatedAt,
	})
	if errors.Is(err, database.ErrDuplicate) {
		return Favorite{}, &ProviderError{
			Status:  http.StatusConflict,
			Code:    "23505",
			Message: "duplicate key value violates unique constraint on (user_id, link)",
		}
	}
	if err != nil {
		return Favorite{}, err
	}

	return fromRow(*row), nil
}

func (b *LocalBackend) DeleteFavorite(ctx context.Context, principal Principal, link string) error {
	_, err := b.favorites.DeleteFavorite(ctx, principal.UserID, link)
	return err
}

func (b *LocalBackend) Stats(ctx context.Context) (Stats, error) {
	users, err := b.users.GetUserCount(ctx)
	if err != nil {
		return Stats{}, err
	}

	favorites, err := b.favorites.GetFavoriteCount(ctx)
	if err != nil {
		return Stats{}, err
	}

	return Stats{Users: users, Favorites: favorites}, nil
}

func fromRow(row database.Favorite) Favorite {
	return Favorite{
		ID:          row.ID,
		UserID:      row.UserID,
		Title:       row.Title,
		Description: row.Description,
		Summary:     row.Summary,
		Link:        row.Link,
		CreatedAt:   row.CreatedAt,
	}
}
