package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

const (
	NewsProviderNaver = "naver"
	NewsProviderRSS   = "rss"

	AuthBackendSupabase = "supabase"
	AuthBackendLocal    = "local"
)

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Server configuration
	Port        string `long:"port" env:"PORT" default:"5000" description:"HTTP server port"`
	BaseUrl     string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://news.example.com)"`
	HTTPTimeout int    `long:"http-timeout" env:"HTTP_TIMEOUT" default:"10" description:"Timeout in seconds for outbound provider calls"`

	// News search provider
	NewsProvider      string `long:"news-provider" env:"NEWS_PROVIDER" default:"naver" description:"News search backend"`
	NaverClientID     string `long:"naver-client-id" env:"CLIENT_ID" description:"Naver Open API client id"`
	NaverClientSecret string `long:"naver-client-secret" env:"CLIENT_SECRET" description:"Naver Open API client secret"`
	NaverURL          string `long:"naver-url" env:"NAVER_URL" default:"https://openapi.naver.com/v1/search/news.json" description:"Naver news search endpoint"`
	RSSSearchURL      string `long:"rss-search-url" env:"RSS_SEARCH_URL" default:"https://news.google.com/rss/search?q=%s&hl=ko&gl=KR&ceid=KR:ko" description:"RSS search URL template, %s is replaced by the escaped keyword"`

	// Summarization provider
	OpenAIKey       string `long:"openai-key" env:"OPENAI_KEY" description:"API key for the text generation provider"`
	OpenAIEndpoint  string `long:"openai-endpoint" env:"OPENAI_ENDPOINT" default:"https://api.openai.com/v1/chat/completions" description:"Chat completions endpoint"`
	OpenAIModel     string `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4o-mini" description:"Model used for summaries"`
	OpenAIMaxTokens int    `long:"openai-max-tokens" env:"OPENAI_MAX_TOKENS" default:"80" description:"Upper bound on summary length in tokens"`
	PromptFile      string `long:"prompt-file" env:"PROMPT_FILE" description:"Optional YAML file overriding summary prompt settings"`

	// Identity and favorites store
	AuthBackend string `long:"auth-backend" env:"AUTH_BACKEND" description:"Identity backend (defaults to supabase when SUPABASE_URL is set, local otherwise)"`
	SupabaseURL string `long:"supabase-url" env:"SUPABASE_URL" description:"Hosted identity/data project URL"`
	SupabaseKey string `long:"supabase-key" env:"SUPABASE_KEY" description:"Hosted identity/data project API key"`
	DBPath      string `long:"db-path" env:"DB_PATH" default:"./newsbrief.db" description:"SQLite database path for the local backend"`

	// Sessions
	SessionDir string `long:"session-dir" env:"SESSION_DIR" default:"./sessions" description:"Session store directory (empty keeps sessions in memory)"`
	SessionTTL int    `long:"session-ttl" env:"SESSION_TTL" default:"86400" description:"Session lifetime in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"News Brief/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"Asia/Seoul" description:"Timezone for timestamps (e.g., UTC, Asia/Seoul)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses the given command-line arguments together with the environment.
// A nil config and nil error mean help was requested.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		HTTPTimeout:       time.Duration(raw.HTTPTimeout) * time.Second,
		NewsProvider:      raw.NewsProvider,
		NaverClientID:     raw.NaverClientID,
		NaverClientSecret: raw.NaverClientSecret,
		NaverURL:          raw.NaverURL,
		RSSSearchURL:      raw.RSSSearchURL,
		OpenAIKey:         raw.OpenAIKey,
		OpenAIEndpoint:    raw.OpenAIEndpoint,
		OpenAIModel:       raw.OpenAIModel,
		OpenAIMaxTokens:   raw.OpenAIMaxTokens,
		PromptFile:        raw.PromptFile,
		AuthBackend:       raw.AuthBackend,
		SupabaseURL:       raw.SupabaseURL,
		SupabaseKey:       raw.SupabaseKey,
		DBPath:            raw.DBPath,
		SessionDir:        raw.SessionDir,
		SessionTTL:        time.Duration(raw.SessionTTL) * time.Second,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if cfg.AuthBackend == "" {
		cfg.AuthBackend = AuthBackendLocal
		if cfg.SupabaseURL != "" {
			cfg.AuthBackend = AuthBackendSupabase
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func validate(cfg *Cfg) error {
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if cfg.OpenAIMaxTokens <= 0 {
		return fmt.Errorf("openai max tokens must be positive")
	}

	switch cfg.NewsProvider {
	case NewsProviderNaver:
		if cfg.NaverClientID == "" || cfg.NaverClientSecret == "" {
			return fmt.Errorf("naver provider requires CLIENT_ID and CLIENT_SECRET")
		}
	case NewsProviderRSS:
		if cfg.RSSSearchURL == "" {
			return fmt.Errorf("rss provider requires a search URL")
		}
	default:
		return fmt.Errorf("unknown news provider: %s", cfg.NewsProvider)
	}

	switch cfg.AuthBackend {
	case AuthBackendSupabase:
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			return fmt.Errorf("supabase backend requires SUPABASE_URL and SUPABASE_KEY")
		}
	case AuthBackendLocal:
		if cfg.DBPath == "" {
			return fmt.Errorf("local backend requires a database path")
		}
	default:
		return fmt.Errorf("unknown auth backend: %s", cfg.AuthBackend)
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
