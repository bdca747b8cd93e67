package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/newsbrief/app/api"
	"github.com/lysyi3m/newsbrief/app/auth"
	"github.com/lysyi3m/newsbrief/app/cfg"
	"github.com/lysyi3m/newsbrief/app/database"
	"github.com/lysyi3m/newsbrief/app/news"
	"github.com/lysyi3m/newsbrief/app/search"
	"github.com/lysyi3m/newsbrief/app/session"
	"github.com/lysyi3m/newsbrief/app/summary"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := run(appCfg); err != nil {
		slog.Error("News Brief stopped with error", "error", err)
		os.Exit(1)
	}
}

// run wires the application and serves until a signal or a server error.
// Resources opened here are released before it returns.
func run(appCfg *cfg.Cfg) error {
	slog.Info("Starting News Brief", "version", appCfg.Version, "port", appCfg.Port)

	httpClient := &http.Client{Timeout: appCfg.HTTPTimeout}

	searcher := newSearcher(appCfg, httpClient)

	prompt := summary.DefaultPromptConfig()
	prompt.MaxTokens = appCfg.OpenAIMaxTokens
	prompt, err := summary.LoadPromptConfig(appCfg.PromptFile, prompt)
	if err != nil {
		return fmt.Errorf("failed to load prompt config %s: %w", appCfg.PromptFile, err)
	}
	if appCfg.OpenAIKey == "" {
		slog.Warn("OPENAI_KEY is not set, summaries will use the fallback text")
	}
	summarizer := summary.NewClient(httpClient, appCfg.OpenAIEndpoint, appCfg.OpenAIKey, appCfg.OpenAIModel, prompt)

	backend, closeBackend, err := newBackend(appCfg, httpClient)
	if err != nil {
		return fmt.Errorf("failed to initialize %s identity backend: %w", appCfg.AuthBackend, err)
	}
	defer closeBackend()

	sessions, err := session.NewStore(appCfg.SessionDir, appCfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("failed to open session store %s: %w", appCfg.SessionDir, err)
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			slog.Error("Session store close error", "error", err)
		}
	}()

	pipeline := search.NewPipeline(searcher, summarizer, prompt.Placeholder)
	handler := api.NewHandler(pipeline, auth.NewService(backend), sessions,
		appCfg.SecureCookies(), appCfg.NewsProvider, appCfg.Version)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening",
			"addr", httpServer.Addr,
			"news_provider", appCfg.NewsProvider,
			"auth_backend", backend.Name())

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case serveErr = <-serverErrChan:
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("News Brief shutdown complete")
	return serveErr
}

func newSearcher(appCfg *cfg.Cfg, httpClient *http.Client) news.Searcher {
	if appCfg.NewsProvider == cfg.NewsProviderRSS {
		return news.NewRSSClient(httpClient, appCfg.RSSSearchURL, appCfg.UserAgent)
	}
	return news.NewNaverClient(httpClient, appCfg.NaverURL, appCfg.NaverClientID, appCfg.NaverClientSecret, appCfg.UserAgent)
}

// newBackend builds the identity backend. The returned func releases its resources.
func newBackend(appCfg *cfg.Cfg, httpClient *http.Client) (auth.Backend, func(), error) {
	if appCfg.AuthBackend == cfg.AuthBackendSupabase {
		return auth.NewSupabaseBackend(httpClient, appCfg.SupabaseURL, appCfg.SupabaseKey), func() {}, nil
	}

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	backend := auth.NewLocalBackend(database.NewUserRepository(db), database.NewFavoriteRepository(db))
	return backend, func() { db.Close() }, nil
}
