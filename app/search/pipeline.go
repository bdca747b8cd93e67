package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/lysyi3m/newsbrief/app/news"
	"github.com/lysyi3m/newsbrief/app/summary"
)

const (
	MessageEmptyQuery = "검색어를 입력해주세요."
	MessageNoResults  = "검색 결과가 없습니다."
)

type State string

const (
	StateOK         State = "ok"
	StateInputError State = "input_error"
	StateEmpty      State = "empty"
)

// Result is the view model of one search request.
type Result struct {
	State   State
	Keyword string
	Display int
	Items   []news.Article
	Message string
}

// Pipeline runs a keyword search and attaches a summary to every result.
type Pipeline struct {
	searcher    news.Searcher
	summarizer  summary.Summarizer
	placeholder string
}

func NewPipeline(searcher news.Searcher, summarizer summary.Summarizer, placeholder string) *Pipeline {
	if placeholder == "" {
		placeholder = summary.DefaultPlaceholder
	}
	return &Pipeline{
		searcher:    searcher,
		summarizer:  summarizer,
		placeholder: placeholder,
	}
}

// Run executes the search flow for the raw query and display parameters.
// Summaries are generated one article at a time, in result order.
func (p *Pipeline) Run(ctx context.Context, query, display string) Result {
	keyword := news.NormalizeKeyword(query)
	if keyword == "" {
		return Result{State: StateInputError, Message: MessageEmptyQuery}
	}

	count := news.ParseDisplay(display)
	result := Result{Keyword: keyword, Display: count}

	started := time.Now()
	items := p.searcher.Search(ctx, keyword, count)
	if len(items) == 0 {
		result.State = StateEmpty
		result.Items = []news.Article{}
		result.Message = MessageNoResults
		return result
	}
	if len(items) > count {
		items = items[:count]
	}

	for i := range items {
		if items[i].Description == "" {
			items[i].Summary = p.placeholder
			continue
		}
		items[i].Summary = p.summarizer.Summarize(ctx, items[i].Description)
	}

	slog.Info("Search completed",
		"keyword", keyword,
		"display", count,
		"results", len(items),
		"duration", time.Since(started))

	result.State = StateOK
	result.Items = items
	return result
}
