package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/newsbrief/app/auth"
	"github.com/lysyi3m/newsbrief/app/session"
)

const (
	principalKey = "principal"

	messageLoginRequired = "로그인이 필요합니다."
)

// noCache keeps browsers from showing protected pages from cache after logout.
func noCache(c *gin.Context) {
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}

// requireSession admits requests carrying a live session cookie. Pages are
// redirected to the login form, JSON endpoints get a 401.
func (h *Handler) requireSession(jsonAPI bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		noCache(c)

		sess := h.currentSession(c)
		if sess == nil {
			if jsonAPI {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response{Message: messageLoginRequired})
				return
			}
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		c.Set(principalKey, auth.Principal{
			UserID:      sess.UserID,
			Email:       sess.Email,
			AccessToken: sess.AccessToken,
		})
		c.Next()
	}
}

// currentSession returns the session named by the request cookie, if any.
func (h *Handler) currentSession(c *gin.Context) *session.Session {
	token, err := c.Cookie(session.CookieName)
	if err != nil || token == "" {
		return nil
	}

	sess, err := h.sessions.Get(token)
	if err != nil {
		slog.Error("Session store error", "operation", "get_session", "error", err)
		return nil
	}
	return sess
}

func principalFrom(c *gin.Context) auth.Principal {
	if value, ok := c.Get(principalKey); ok {
		if principal, ok := value.(auth.Principal); ok {
			return principal
		}
	}
	return auth.Principal{}
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", h.secureCookies, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", h.secureCookies, true)
}

// safeNext returns target when it is a path on this site, "/" otherwise.
func safeNext(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}

	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return "/"
	}
	return target
}
