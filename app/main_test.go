package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lysyi3m/newsbrief/app/cfg"
	"github.com/lysyi3m/newsbrief/app/database"
)

func testConfig(t *testing.T) *cfg.Cfg {
	t.Helper()

	dir := t.TempDir()
	return &cfg.Cfg{
		Port:            "0",
		HTTPTimeout:     time.Second,
		NewsProvider:    cfg.NewsProviderRSS,
		RSSSearchURL:    "http://127.0.0.1:1/?q=%s",
		OpenAIEndpoint:  "http://127.0.0.1:1/",
		OpenAIModel:     "gpt-4o-mini",
		OpenAIMaxTokens: 80,
		AuthBackend:     cfg.AuthBackendLocal,
		DBPath:          filepath.Join(dir, "newsbrief.db"),
		SessionDir:      filepath.Join(dir, "sessions"),
		SessionTTL:      time.Hour,
	}
}

func TestRunReturnsPromptError(t *testing.T) {
	appCfg := testConfig(t)
	appCfg.PromptFile = filepath.Join(t.TempDir(), "missing.yml")

	if err := run(appCfg); err == nil {
		t.Error("Expected error for a missing prompt file")
	}
}

func TestRunReleasesDatabaseOnSessionStoreError(t *testing.T) {
	appCfg := testConfig(t)

	// A regular file where the session directory should be
	if err := os.WriteFile(appCfg.SessionDir, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := run(appCfg); err == nil {
		t.Fatal("Expected error when the session store cannot be opened")
	}

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		t.Fatalf("Expected database to be reusable after run returned: %v", err)
	}
	defer db.Close()

	version, _, err := database.RunMigrations(db)
	if err != nil {
		t.Fatal(err)
	}
	if version != 2 {
		t.Errorf("Expected migrated schema version 2, got %d", version)
	}
}
