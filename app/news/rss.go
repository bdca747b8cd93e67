package news

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// maxFeedSize caps how much of a search feed is read.
const maxFeedSize = 2 << 20

// RSSClient searches a provider that answers keyword queries with an RSS feed.
// urlTemplate must contain a single %s for the escaped keyword.
type RSSClient struct {
	httpClient  *http.Client
	parser      *gofeed.Parser
	urlTemplate string
	userAgent   string
}

var _ Searcher = (*RSSClient)(nil)

func NewRSSClient(httpClient *http.Client, urlTemplate, userAgent string) *RSSClient {
	return &RSSClient{
		httpClient:  httpClient,
		parser:      gofeed.NewParser(),
		urlTemplate: urlTemplate,
		userAgent:   userAgent,
	}
}

func (c *RSSClient) Search(ctx context.Context, keyword string, count int) []Article {
	count = ClampDisplay(count)

	data, err := c.fetch(ctx, fmt.Sprintf(c.urlTemplate, url.QueryEscape(keyword)))
	if err != nil {
		slog.Error("News search failed", "provider", "rss", "keyword", keyword, "error", err)
		return []Article{}
	}

	feed, err := c.parser.Parse(bytes.NewReader(data))
	if err != nil {
		slog.Error("News search failed", "provider", "rss", "keyword", keyword, "error", fmt.Errorf("failed to parse feed: %w", err))
		return []Article{}
	}

	articles := make([]Article, 0, min(count, len(feed.Items)))
	for _, item := range feed.Items {
		if len(articles) == count {
			break
		}

		article := Article{
			Title:       StripMarkup(item.Title),
			Description: StripMarkup(item.Description),
			Link:        item.Link,
		}
		if item.PublishedParsed != nil {
			article.PubDate = item.PublishedParsed.Format(time.RFC1123Z)
		}
		articles = append(articles, article)
	}

	slog.Debug("News search completed", "provider", "rss", "keyword", keyword, "results", len(articles))

	return articles
}

func (c *RSSClient) fetch(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, strings.TrimSpace(resp.Status))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > maxFeedSize {
		return nil, fmt.Errorf("feed exceeds %d bytes", maxFeedSize)
	}

	return data, nil
}
