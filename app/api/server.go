package api

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health"},
	}))

	r.Use(gin.Recovery())

	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")))

	setupRoutes(r, handler)

	return r
}

// setupRoutes configures all the application routes. Search and favorites
// pages plus the JSON API sit behind the session gate.
func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/", handler.GetHome)
	r.GET("/register", handler.GetRegister)
	r.POST("/register", handler.PostRegister)
	r.GET("/login", handler.GetLogin)
	r.POST("/login", handler.PostLogin)
	r.GET("/logout", handler.GetLogout)

	r.GET("/health", handler.GetHealth)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	pages := r.Group("")
	pages.Use(handler.requireSession(false))
	{
		pages.GET("/search", handler.GetSearch)
		pages.GET("/favorites", handler.GetFavorites)
	}

	api := r.Group("/api")
	api.Use(handler.requireSession(true))
	{
		api.POST("/favorites/add", handler.APIAddFavorite)
		api.POST("/favorites/remove", handler.APIRemoveFavorite)
	}
}
