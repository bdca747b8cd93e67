package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/newsbrief/app/auth"
	"github.com/lysyi3m/newsbrief/app/news"
	"github.com/lysyi3m/newsbrief/app/search"
	"github.com/lysyi3m/newsbrief/app/session"
)

const (
	messageRegistered     = "회원가입이 완료되었습니다. 로그인해주세요."
	messageBadRequest     = "잘못된 요청입니다."
	messageFavoriteAdded  = "즐겨찾기에 추가되었습니다."
	messageFavoriteRemove = "즐겨찾기에서 삭제되었습니다."
)

// NewHandler creates the handler set for pages, the favorites API and health.
func NewHandler(pipeline PipelineInterface, authService *auth.Service, sessions SessionStoreInterface,
	secureCookies bool, newsProvider, version string) *Handler {
	return &Handler{
		pipeline:      pipeline,
		auth:          authService,
		sessions:      sessions,
		secureCookies: secureCookies,
		newsProvider:  newsProvider,
		version:       version,
	}
}

func (h *Handler) GetHome(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", page(h.currentEmail(c), nil))
}

func (h *Handler) GetRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", page("", nil))
}

// PostRegister creates an account and sends the user to the login form.
func (h *Handler) PostRegister(c *gin.Context) {
	email := c.PostForm("email")

	err := h.auth.Register(c.Request.Context(), email, c.PostForm("password"), c.PostForm("password_confirm"))
	if err != nil {
		c.HTML(statusFor(err), "register.html", page("", gin.H{
			"Error": auth.Message(err),
			"Email": email,
		}))
		return
	}

	c.Redirect(http.StatusFound, "/login?registered=1")
}

func (h *Handler) GetLogin(c *gin.Context) {
	next := safeNext(c.Query("next"))

	if h.currentSession(c) != nil {
		c.Redirect(http.StatusFound, next)
		return
	}

	data := page("", gin.H{"Next": next})
	if c.Query("registered") != "" {
		data["Notice"] = messageRegistered
	}
	c.HTML(http.StatusOK, "login.html", data)
}

// PostLogin starts a session and redirects to the local next path.
func (h *Handler) PostLogin(c *gin.Context) {
	email := c.PostForm("email")
	next := safeNext(c.PostForm("next"))

	principal, err := h.auth.Login(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		c.HTML(statusFor(err), "login.html", page("", gin.H{
			"Error": auth.Message(err),
			"Email": email,
			"Next":  next,
		}))
		return
	}

	sess, err := h.sessions.Create(principal.UserID, principal.Email, principal.AccessToken)
	if err != nil {
		slog.Error("Session store error", "operation", "create_session", "user_id", principal.UserID, "error", err)
		c.HTML(http.StatusInternalServerError, "login.html", page("", gin.H{
			"Error": auth.Message(err),
			"Email": email,
			"Next":  next,
		}))
		return
	}

	h.setSessionCookie(c, sess.Token)
	c.Redirect(http.StatusFound, next)
}

// GetLogout always drops the local session, whatever the provider says.
func (h *Handler) GetLogout(c *gin.Context) {
	noCache(c)

	if token, err := c.Cookie(session.CookieName); err == nil && token != "" {
		if sess, err := h.sessions.Get(token); err == nil && sess != nil {
			h.auth.Logout(c.Request.Context(), auth.Principal{
				UserID:      sess.UserID,
				Email:       sess.Email,
				AccessToken: sess.AccessToken,
			})
		}
		if err := h.sessions.Destroy(token); err != nil {
			slog.Error("Session store error", "operation", "destroy_session", "error", err)
		}
	}

	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

// GetSearch runs the search pipeline. An empty query re-renders the home page.
func (h *Handler) GetSearch(c *gin.Context) {
	principal := principalFrom(c)

	result := h.pipeline.Run(c.Request.Context(), c.Query("query"), c.Query("display"))
	if result.State == search.StateInputError {
		c.HTML(http.StatusOK, "home.html", page(principal.Email, gin.H{
			"Error": result.Message,
		}))
		return
	}

	c.HTML(http.StatusOK, "results.html", page(principal.Email, gin.H{
		"Keyword": result.Keyword,
		"Display": result.Display,
		"Items":   result.Items,
		"Error":   result.Message,
	}))
}

func (h *Handler) GetFavorites(c *gin.Context) {
	principal := principalFrom(c)

	favorites, err := h.auth.ListFavorites(c.Request.Context(), principal)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "favorites.html", page(principal.Email, gin.H{
			"Favorites": []auth.Favorite{},
			"Error":     auth.Message(err),
		}))
		return
	}

	c.HTML(http.StatusOK, "favorites.html", page(principal.Email, gin.H{
		"Favorites": favorites,
	}))
}

// APIAddFavorite saves an article. A duplicate link answers 409.
func (h *Handler) APIAddFavorite(c *gin.Context) {
	var input auth.FavoriteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response{Message: messageBadRequest})
		return
	}

	favorite, err := h.auth.AddFavorite(c.Request.Context(), principalFrom(c), input)
	if err != nil {
		c.JSON(statusFor(err), response{Message: auth.Message(err)})
		return
	}

	c.JSON(http.StatusOK, response{Success: true, Message: messageFavoriteAdded, Data: favorite})
}

func (h *Handler) APIRemoveFavorite(c *gin.Context) {
	var req removeFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{Message: messageBadRequest})
		return
	}

	if err := h.auth.RemoveFavorite(c.Request.Context(), principalFrom(c), req.Link); err != nil {
		c.JSON(statusFor(err), response{Message: auth.Message(err)})
		return
	}

	c.JSON(http.StatusOK, response{Success: true, Message: messageFavoriteRemove})
}

// GetHealth reports version, configured providers and, for the local store, record totals.
func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":     time.Now().In(time.Local).Format(time.RFC3339),
		"version":       h.version,
		"auth_backend":  h.auth.BackendName(),
		"news_provider": h.newsProvider,
	}

	stats, ok, err := h.auth.Stats(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
	} else if ok {
		health["users"] = stats.Users
		health["favorites"] = stats.Favorites
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) currentEmail(c *gin.Context) string {
	if sess := h.currentSession(c); sess != nil {
		return sess.Email
	}
	return ""
}

var displayOptions = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

// page fills in every key the shared templates read, then applies data.
func page(user string, data gin.H) gin.H {
	out := gin.H{
		"User":           user,
		"Keyword":        "",
		"Display":        news.DefaultDisplay,
		"DisplayOptions": displayOptions,
		"Error":          "",
		"Notice":         "",
		"Email":          "",
		"Next":           "/",
	}
	for key, value := range data {
		out[key] = value
	}
	return out
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, auth.ErrUnknown):
		return http.StatusInternalServerError
	case errors.Is(err, auth.ErrEmptyFields), errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, auth.ErrPasswordTooShort), errors.Is(err, auth.ErrAlreadyRegistered),
		errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrMissingFields), errors.Is(err, auth.ErrMissingLink):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
