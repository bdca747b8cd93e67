package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// SQLiteUserRepository handles database operations for local accounts
type SQLiteUserRepository struct {
	db *DB
}

var _ UserRepository = (*SQLiteUserRepository)(nil)

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// CreateUser inserts a new account. Returns ErrDuplicate when the email is taken.
func (r *SQLiteUserRepository) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	user := User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	query, args, err := sq.Insert("users").
		Columns("id", "email", "password_hash", "created_at").
		Values(user.ID, user.Email, user.PasswordHash, user.CreatedAt.UnixNano()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert user query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create user: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GetUserByEmail retrieves an account by email, nil when absent
func (r *SQLiteUserRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query, args, err := sq.Select("id", "email", "password_hash", "created_at").
		From("users").
		Where(sq.Eq{"email": strings.ToLower(email)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select user query: %w", err)
	}

	var user User
	var createdAt int64
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.Email, &user.PasswordHash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	user.CreatedAt = time.Unix(0, createdAt).UTC()

	return &user, nil
}

// GetUserCount returns the total number of accounts
func (r *SQLiteUserRepository) GetUserCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get user count: %w", err)
	}
	return count, nil
}
