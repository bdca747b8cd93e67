package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const NaverNewsURL = "https://openapi.naver.com/v1/search/news.json"

type naverResponse struct {
	Total int         `json:"total"`
	Items []naverItem `json:"items"`
}

type naverItem struct {
	Title        string `json:"title"`
	OriginalLink string `json:"originallink"`
	Link         string `json:"link"`
	Description  string `json:"description"`
	PubDate      string `json:"pubDate"`
}

// NaverClient searches the Naver news API ordered by relevance.
type NaverClient struct {
	httpClient   *http.Client
	endpoint     string
	clientID     string
	clientSecret string
	userAgent    string
}

var _ Searcher = (*NaverClient)(nil)

func NewNaverClient(httpClient *http.Client, endpoint, clientID, clientSecret, userAgent string) *NaverClient {
	if endpoint == "" {
		endpoint = NaverNewsURL
	}
	return &NaverClient{
		httpClient:   httpClient,
		endpoint:     endpoint,
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
	}
}

func (c *NaverClient) Search(ctx context.Context, keyword string, count int) []Article {
	count = ClampDisplay(count)

	items, err := c.fetch(ctx, keyword, count)
	if err != nil {
		slog.Error("News search failed", "provider", "naver", "keyword", keyword, "error", err)
		return []Article{}
	}

	if len(items) > count {
		items = items[:count]
	}

	articles := make([]Article, 0, len(items))
	for _, item := range items {
		articles = append(articles, Article{
			Title:        StripMarkup(item.Title),
			Description:  StripMarkup(item.Description),
			Link:         item.Link,
			OriginalLink: item.OriginalLink,
			PubDate:      item.PubDate,
		})
	}

	slog.Debug("News search completed", "provider", "naver", "keyword", keyword, "results", len(articles))

	return articles
}

func (c *NaverClient) fetch(ctx context.Context, keyword string, count int) ([]naverItem, error) {
	params := url.Values{}
	params.Set("query", keyword)
	params.Set("display", strconv.Itoa(count))
	params.Set("sort", "sim")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call news API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("HTTP error: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload naverResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return payload.Items, nil
}
