package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const favoritesTable = "favorites"

// SupabaseBackend talks to a hosted Supabase project: GoTrue for identity
// and PostgREST for the favorites table.
type SupabaseBackend struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

var _ Backend = (*SupabaseBackend)(nil)

func NewSupabaseBackend(httpClient *http.Client, baseURL, apiKey string) *SupabaseBackend {
	return &SupabaseBackend{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

func (b *SupabaseBackend) Name() string {
	return "supabase"
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type gotrueUser struct {
	ID         string             `json:"id"`
	Email      string             `json:"email"`
	Identities *[]json.RawMessage `json:"identities"`
}

type gotrueSession struct {
	AccessToken string      `json:"access_token"`
	User        *gotrueUser `json:"user"`
}

type signUpResponse struct {
	gotrueUser
	gotrueSession
}

type favoriteRow struct {
	ID          json.RawMessage `json:"id,omitempty"`
	UserID      string          `json:"user_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Summary     string          `json:"summary"`
	Link        string          `json:"link"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
}

func (b *SupabaseBackend) SignUp(ctx context.Context, email, password string) (Identity, error) {
	var resp signUpResponse
	if err := b.do(ctx, http.MethodPost, "/auth/v1/signup", nil, "", credentials{email, password}, nil, &resp); err != nil {
		return Identity{}, err
	}

	// With email confirmation on, the user object comes back bare; with
	// auto-confirm it is nested in a session.
	user := resp.gotrueUser
	if resp.gotrueSession.User != nil {
		user = *resp.gotrueSession.User
	}

	return Identity{
		ID:       user.ID,
		Email:    user.Email,
		Existing: user.Identities != nil && len(*user.Identities) == 0,
	}, nil
}

func (b *SupabaseBackend) SignIn(ctx context.Context, email, password string) (Principal, error) {
	query := url.Values{"grant_type": {"password"}}

	var session gotrueSession
	if err := b.do(ctx, http.MethodPost, "/auth/v1/token", query, "", credentials{email, password}, nil, &session); err != nil {
		return Principal{}, err
	}

	if session.User == nil || session.AccessToken == "" {
		return Principal{}, fmt.Errorf("sign-in response without session")
	}

	return Principal{
		UserID:      session.User.ID,
		Email:       session.User.Email,
		AccessToken: session.AccessToken,
	}, nil
}

func (b *SupabaseBackend) SignOut(ctx context.Context, principal Principal) error {
	if principal.AccessToken == "" {
		return nil
	}
	return b.do(ctx, http.MethodPost, "/auth/v1/logout", nil, principal.AccessToken, nil, nil, nil)
}

func (b *SupabaseBackend) ListFavorites(ctx context.Context, principal Principal) ([]Favorite, error) {
	query := url.Values{
		"select":  {"*"},
		"user_id": {"eq." + principal.UserID},
		"order":   {"created_at.desc"},
	}

	var rows []favoriteRow
	if err := b.do(ctx, http.MethodGet, "/rest/v1/"+favoritesTable, query, principal.AccessToken, nil, nil, &rows); err != nil {
		return nil, err
	}

	favorites := make([]Favorite, 0, len(rows))
	for _, row := range rows {
		favorites = append(favorites, row.toFavorite())
	}
	return favorites, nil
}

func (b *SupabaseBackend) InsertFavorite(ctx context.Context, principal Principal, favorite Favorite) (Favorite, error) {
	row := favoriteRow{
		UserID:      principal.UserID,
		Title:       favorite.Title,
		Description: favorite.Description,
		Summary:     favorite.Summary,
		Link:        favorite.Link,
	}
	headers := http.Header{"Prefer": {"return=representation"}}

	var rows []favoriteRow
	if err := b.do(ctx, http.MethodPost, "/rest/v1/"+favoritesTable, nil, principal.AccessToken, []favoriteRow{row}, headers, &rows); err != nil {
		return Favorite{}, err
	}

	if len(rows) == 0 {
		return row.toFavorite(), nil
	}
	return rows[0].toFavorite(), nil
}

func (b *SupabaseBackend) DeleteFavorite(ctx context.Context, principal Principal, link string) error {
	query := url.Values{
		"user_id": {"eq." + principal.UserID},
		"link":    {"eq." + link},
	}
	return b.do(ctx, http.MethodDelete, "/rest/v1/"+favoritesTable, query, principal.AccessToken, nil, nil, nil)
}

func (r favoriteRow) toFavorite() Favorite {
	favorite := Favorite{
		ID:          strings.Trim(string(r.ID), `"`),
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Summary:     r.Summary,
		Link:        r.Link,
	}
	if r.CreatedAt != nil {
		favorite.CreatedAt = *r.CreatedAt
	}
	return favorite
}

// do sends a request to the project. The bearer is the user's access token
// when present, otherwise the project key.
func (b *SupabaseBackend) do(ctx context.Context, method, path string, query url.Values, accessToken string, body any, headers http.Header, out any) error {
	endpoint := b.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	bearer := accessToken
	if bearer == "" {
		bearer = b.apiKey
	}
	req.Header.Set("apikey", b.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeProviderError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

type providerErrorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

// decodeProviderError understands GoTrue ({error_code, msg} and the older
// {error, error_description}) and PostgREST ({code, message}) error bodies.
func decodeProviderError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	providerErr := &ProviderError{Status: resp.StatusCode}

	var body providerErrorBody
	if err := json.Unmarshal(data, &body); err != nil {
		providerErr.Message = strings.TrimSpace(string(data))
		if providerErr.Message == "" {
			providerErr.Message = resp.Status
		}
		return providerErr
	}

	var textCode string
	_ = json.Unmarshal(body.Code, &textCode)

	for _, code := range []string{body.ErrorCode, textCode, body.Error} {
		if code != "" {
			providerErr.Code = code
			break
		}
	}
	for _, message := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
		if message != "" {
			providerErr.Message = message
			break
		}
	}
	if providerErr.Message == "" {
		providerErr.Message = resp.Status
	}

	return providerErr
}
