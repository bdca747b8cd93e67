package database

import (
	"time"
)

type User struct {
	ID           string // UUID
	Email        string // Stored lowercased, unique
	PasswordHash string // bcrypt
	CreatedAt    time.Time
}

type Favorite struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Summary     string
	Link        string // Unique per user
	CreatedAt   time.Time
}
