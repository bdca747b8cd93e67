package news

import "context"

// Article is a single search result. Summary is filled in after summarization.
type Article struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Link         string `json:"link"`
	OriginalLink string `json:"original_link,omitempty"`
	PubDate      string `json:"pub_date,omitempty"`
	Summary      string `json:"summary"`
}

// Searcher looks up articles for a keyword. Implementations never return
// errors: provider failures are logged and reported as an empty result.
type Searcher interface {
	Search(ctx context.Context, keyword string, count int) []Article
}
