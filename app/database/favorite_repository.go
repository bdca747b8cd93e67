package database

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// SQLiteFavoriteRepository handles database operations for saved articles
type SQLiteFavoriteRepository struct {
	db *DB
}

var _ FavoriteRepository = (*SQLiteFavoriteRepository)(nil)

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *DB) *SQLiteFavoriteRepository {
	return &SQLiteFavoriteRepository{db: db}
}

// ListFavorites returns a user's favorites, newest first
func (r *SQLiteFavoriteRepository) ListFavorites(ctx context.Context, userID string) ([]Favorite, error) {
	query, args, err := sq.Select("id", "user_id", "title", "description", "summary", "link", "created_at").
		From("favorites").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "rowid DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list favorites query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []Favorite{}
	for rows.Next() {
		var favorite Favorite
		var createdAt int64
		err := rows.Scan(
			&favorite.ID, &favorite.UserID, &favorite.Title, &favorite.Description,
			&favorite.Summary, &favorite.Link, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		favorite.CreatedAt = time.Unix(0, createdAt).UTC()
		favorites = append(favorites, favorite)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorite rows: %w", err)
	}

	return favorites, nil
}

// InsertFavorite stores a new favorite. Returns ErrDuplicate when the user
// already saved the same link; existing rows are never overwritten.
func (r *SQLiteFavoriteRepository) InsertFavorite(ctx context.Context, favorite Favorite) (*Favorite, error) {
	favorite.ID = uuid.NewString()
	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = time.Now().UTC()
	}

	query, args, err := sq.Insert("favorites").
		Columns("id", "user_id", "title", "description", "summary", "link", "created_at").
		Values(favorite.ID, favorite.UserID, favorite.Title, favorite.Description,
			favorite.Summary, favorite.Link, favorite.CreatedAt.UnixNano()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert favorite query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to insert favorite: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to insert favorite: %w", err)
	}

	return &favorite, nil
}

// DeleteFavorite removes a user's favorite by link and reports the affected rows
func (r *SQLiteFavoriteRepository) DeleteFavorite(ctx context.Context, userID, link string) (int64, error) {
	query, args, err := sq.Delete("favorites").
		Where(sq.Eq{"user_id": userID, "link": link}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete favorite query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete favorite: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected, nil
}

// GetFavoriteCount returns the total number of saved favorites
func (r *SQLiteFavoriteRepository) GetFavoriteCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM favorites").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get favorite count: %w", err)
	}
	return count, nil
}
