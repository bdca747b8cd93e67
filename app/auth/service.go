package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

const MinPasswordLength = 6

// Service validates requests and maps backend failures onto the sentinel
// errors of this package. Every returned error matches exactly one of them.
type Service struct {
	backend Backend
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

func (s *Service) BackendName() string {
	return s.backend.Name()
}

// Stats returns store totals. ok is false when the backend cannot count.
func (s *Service) Stats(ctx context.Context) (stats Stats, ok bool, err error) {
	counter, ok := s.backend.(statsBackend)
	if !ok {
		return Stats{}, false, nil
	}

	stats, err = counter.Stats(ctx)
	if err != nil {
		return Stats{}, true, err
	}
	return stats, true, nil
}

func (s *Service) Register(ctx context.Context, email, password, confirm string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" || confirm == "" {
		return ErrEmptyFields
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	identity, err := s.backend.SignUp(ctx, email, password)
	if err != nil {
		err = classifySignUp(err)
		s.logFailure("register", err, "email", email)
		return err
	}

	if identity.Existing {
		slog.Info("Registration for existing account", "backend", s.backend.Name(), "email", email)
		return ErrAlreadyRegistered
	}

	slog.Info("User registered", "backend", s.backend.Name(), "user_id", identity.ID)
	return nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Principal{}, ErrEmptyFields
	}

	principal, err := s.backend.SignIn(ctx, email, password)
	if err != nil {
		err = classifySignIn(err)
		s.logFailure("login", err, "email", email)
		return Principal{}, err
	}

	slog.Info("User logged in", "backend", s.backend.Name(), "user_id", principal.UserID)
	return principal, nil
}

// Logout signs the principal out of the provider. Provider failures are
// logged and otherwise ignored.
func (s *Service) Logout(ctx context.Context, principal Principal) {
	if err := s.backend.SignOut(ctx, principal); err != nil {
		slog.Warn("Provider sign-out failed", "backend", s.backend.Name(), "user_id", principal.UserID, "error", err)
		return
	}
	slog.Info("User logged out", "backend", s.backend.Name(), "user_id", principal.UserID)
}

func (s *Service) ListFavorites(ctx context.Context, principal Principal) ([]Favorite, error) {
	favorites, err := s.backend.ListFavorites(ctx, principal)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrUnknown, err)
		s.logFailure("list_favorites", err, "user_id", principal.UserID)
		return nil, err
	}
	if favorites == nil {
		favorites = []Favorite{}
	}
	return favorites, nil
}

func (s *Service) AddFavorite(ctx context.Context, principal Principal, input FavoriteInput) (Favorite, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Link = strings.TrimSpace(input.Link)
	if input.Title == "" || input.Link == "" {
		return Favorite{}, ErrMissingFields
	}

	favorite, err := s.backend.InsertFavorite(ctx, principal, Favorite{
		UserID:      principal.UserID,
		Title:       input.Title,
		Description: input.Description,
		Summary:     input.Summary,
		Link:        input.Link,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		err = classifyInsert(err)
		s.logFailure("add_favorite", err, "user_id", principal.UserID, "link", input.Link)
		return Favorite{}, err
	}

	return favorite, nil
}

func (s *Service) RemoveFavorite(ctx context.Context, principal Principal, link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return ErrMissingLink
	}

	if err := s.backend.DeleteFavorite(ctx, principal, link); err != nil {
		err = fmt.Errorf("%w: %w", ErrUnknown, err)
		s.logFailure("remove_favorite", err, "user_id", principal.UserID, "link", link)
		return err
	}

	return nil
}

// logFailure logs unexpected failures as errors and classified ones at info.
func (s *Service) logFailure(operation string, err error, attrs ...any) {
	args := append([]any{"operation", operation, "backend", s.backend.Name(), "error", err}, attrs...)
	if errors.Is(err, ErrUnknown) {
		slog.Error("Identity store error", args...)
		return
	}
	slog.Info("Identity store request rejected", args...)
}
