package cfg

import (
	"strings"
	"time"
)

type Cfg struct {
	// Server configuration
	Port        string
	BaseUrl     string
	HTTPTimeout time.Duration

	// News search provider
	NewsProvider      string
	NaverClientID     string
	NaverClientSecret string
	NaverURL          string
	RSSSearchURL      string

	// Summarization provider
	OpenAIKey       string
	OpenAIEndpoint  string
	OpenAIModel     string
	OpenAIMaxTokens int
	PromptFile      string

	// Identity and favorites store
	AuthBackend string
	SupabaseURL string
	SupabaseKey string
	DBPath      string

	// Sessions
	SessionDir string
	SessionTTL time.Duration

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

// SecureCookies reports whether session cookies should carry the Secure flag.
func (c *Cfg) SecureCookies() bool {
	return strings.HasPrefix(c.BaseUrl, "https://")
}
