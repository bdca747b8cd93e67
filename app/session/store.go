package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	CookieName = "newsbrief_session"
	keyPrefix  = "session:"
)

type Session struct {
	Token       string    `json:"-"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Store keeps sessions in badger, one key per token. Expiry is enforced by
// badger's TTL and checked again on read.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

// NewStore opens a store at dir. An empty dir keeps sessions in memory.
func NewStore(dir string, ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}

	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = &badgerLogger{logger: slog.Default().With("component", "badger")}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	return &Store{db: db, ttl: ttl}, nil
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create issues a new session with a fresh random token.
func (s *Store) Create(userID, email, accessToken string) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		Token:       uuid.NewString(),
		UserID:      userID,
		Email:       email,
		AccessToken: accessToken,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	value, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(sessionKey(sess.Token), value).WithTTL(s.ttl))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return sess, nil
}

// Get returns the session for token, nil when absent or expired.
func (s *Store) Get(token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	var sess Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(token))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if !time.Now().Before(sess.ExpiresAt) {
		return nil, nil
	}

	sess.Token = token
	return &sess, nil
}

// Destroy removes a session. Unknown tokens are not an error.
func (s *Store) Destroy(token string) error {
	if token == "" {
		return nil
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(token))
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func sessionKey(token string) []byte {
	return []byte(keyPrefix + token)
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
