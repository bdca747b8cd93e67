package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSupabaseTest(t *testing.T, handler http.HandlerFunc) *SupabaseBackend {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewSupabaseBackend(server.Client(), server.URL+"/", "anon-key")
}

func TestSupabaseSignUp(t *testing.T) {
	backend := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		var creds credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "a@example.com", creds.Email)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"user-1","email":"a@example.com","identities":[{"id":"x"}]}`)
	})

	identity, err := backend.SignUp(context.Background(), "a@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.ID)
	assert.False(t, identity.Existing)
}

func TestSupabaseSignUpSessionShape(t *testing.T) {
	backend := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"access_token":"tok","user":{"id":"user-2","email":"b@example.com","identities":[{}]}}`)
	})

	identity, err := backend.SignUp(context.Background(), "b@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "user-2", identity.ID)
	assert.False(t, identity.Existing)
}

func TestSupabaseSignUpEmptyIdentitiesMeansExisting(t *testing.T) {
	backend := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":"user-1","email":"a@example.com","identities":[]}`)
	})

	service := NewService(backend)
	err := service.Register(context.Background(), "a@example.com", "secret1", "secret1")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestSupabaseSignUpErrorBodies(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"error_code", http.StatusUnprocessableEntity, `{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`, ErrAlreadyRegistered},
		{"legacy msg", http.StatusBadRequest, `{"code":400,"msg":"Unable to validate email address: invalid format"}`, ErrInvalidEmail},
		{"oauth style", http.StatusUnprocessableEntity, `{"error":"weak_password","error_description":"Password should be at least 6 characters"}`, ErrPasswordTooShort},
		{"not json", http.StatusBadGateway, `upstream unavailable`, ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			err := NewService(backend).Register(context.Background(), "a@example.com", "secret1", "secret1")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSupabaseSignIn(t *testing.T) {
	backend := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		io.WriteString(w, `{"access_token":"user-token","user":{"id":"user-1","email":"a@example.com"}}`)
	})

	principal, err := backend.SignIn(context.Background(), "a@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: "user-1", Email: "a@example.com", AccessToken: "user-token"}, principal)
}

func TestSupabaseSignInInvalidCredentials(t *testing.T) {
	backend := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
	})

	_, err := NewService(backend).Login(context.Background(), "a@example.com", "bad")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSupabaseSignOut(t *testing.T) {
	calls := 0
	backend := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, backend.SignOut(context.Background(), Principal{}))
	assert.Zero(t, calls, "no request without an access token")

	require.NoError(t, backend.SignOut(context.Background(), Principal{AccessToken: "user-token"}))
	assert.Equal(t, 1, calls)
}

func TestSupabaseFavorites(t *testing.T) {
	principal := Principal{UserID: "user-1", AccessToken: "user-token"}

	backend := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/favorites", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))

		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "eq.user-1", r.URL.Query().Get("user_id"))
			assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
			io.WriteString(w, `[{"id":2,"user_id":"user-1","title":"B","link":"https://b","created_at":"2024-05-02T10:00:00+00:00"},`+
				`{"id":1,"user_id":"user-1","title":"A","link":"https://a","created_at":"2024-05-01T10:00:00+00:00"}]`)
		case http.MethodPost:
			assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
			var rows []favoriteRow
			if assert.NoError(t, json.NewDecoder(r.Body).Decode(&rows)) && assert.Len(t, rows, 1) {
				assert.Equal(t, "user-1", rows[0].UserID)
				assert.Empty(t, rows[0].ID)
			}
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `[{"id":"abc","user_id":"user-1","title":"A","link":"https://a"}]`)
		case http.MethodDelete:
			assert.Equal(t, "eq.https://a", r.URL.Query().Get("link"))
			w.WriteHeader(http.StatusNoContent)
		}
	})

	favorites, err := backend.ListFavorites(context.Background(), principal)
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, "2", favorites[0].ID)
	assert.Equal(t, "B", favorites[0].Title)
	assert.Equal(t, 2024, favorites[0].CreatedAt.Year())

	saved, err := backend.InsertFavorite(context.Background(), principal, Favorite{Title: "A", Link: "https://a"})
	require.NoError(t, err)
	assert.Equal(t, "abc", saved.ID)

	require.NoError(t, backend.DeleteFavorite(context.Background(), principal, "https://a"))
}

func TestSupabaseInsertDuplicate(t *testing.T) {
	backend := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"code":"23505","details":null,"hint":null,"message":"duplicate key value violates unique constraint \"favorites_user_id_link_key\""}`)
	})

	_, err := NewService(backend).AddFavorite(context.Background(), Principal{UserID: "user-1"}, FavoriteInput{Title: "A", Link: "https://a"})
	assert.ErrorIs(t, err, ErrDuplicate)
}
