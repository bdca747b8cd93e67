package api

import (
	"context"
	"time"

	"github.com/lysyi3m/newsbrief/app/auth"
	"github.com/lysyi3m/newsbrief/app/search"
	"github.com/lysyi3m/newsbrief/app/session"
)

type PipelineInterface interface {
	Run(ctx context.Context, query, display string) search.Result
}

type SessionStoreInterface interface {
	Create(userID, email, accessToken string) (*session.Session, error)
	Get(token string) (*session.Session, error)
	Destroy(token string) error
	TTL() time.Duration
}

var (
	_ PipelineInterface     = (*search.Pipeline)(nil)
	_ SessionStoreInterface = (*session.Store)(nil)
)

// Handler serves the HTML pages and the favorites JSON API.
type Handler struct {
	pipeline      PipelineInterface
	auth          *auth.Service
	sessions      SessionStoreInterface
	secureCookies bool
	newsProvider  string
	version       string
}

// response is the JSON envelope of the favorites API.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type removeFavoriteRequest struct {
	Link string `json:"link"`
}
