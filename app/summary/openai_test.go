package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func completionJSON(text string) string {
	b, _ := json.Marshal(map[string]any{
		"id": "chatcmpl-test",
		"choices": []map[string]any{
			{"index": 0, "message": map[string]string{"role": "assistant", "content": text}},
		},
	})
	return string(b)
}

func TestClientSummarize(t *testing.T) {
	var got chatRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		fmt.Fprint(w, completionJSON("  정부가 기후변화 대응 예산을 늘렸다.\n"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "test-key", "gpt-4o-mini", DefaultPromptConfig())
	result := client.Summarize(context.Background(), "<b>정부</b>가 기후변화 대응 예산을 &quot;대폭&quot; 늘렸다")

	if result != "정부가 기후변화 대응 예산을 늘렸다." {
		t.Errorf("Expected trimmed summary, got %q", result)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer authorization, got '%s'", gotAuth)
	}
	if got.Model != "gpt-4o-mini" {
		t.Errorf("Expected model 'gpt-4o-mini', got '%s'", got.Model)
	}
	if got.MaxTokens != 80 {
		t.Errorf("Expected max tokens 80, got %d", got.MaxTokens)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Fatalf("Expected a single user message, got %+v", got.Messages)
	}
	prompt := got.Messages[0].Content
	if strings.Contains(prompt, "<b>") || strings.Contains(prompt, "&quot;") {
		t.Errorf("Expected markup to be stripped from prompt, got %q", prompt)
	}
	if !strings.HasPrefix(prompt, "다음 뉴스를 한 문장으로") {
		t.Errorf("Expected instruction prefix, got %q", prompt)
	}
	if !strings.HasSuffix(prompt, `정부가 기후변화 대응 예산을 "대폭" 늘렸다`) {
		t.Errorf("Expected cleaned article text at the end of prompt, got %q", prompt)
	}
}

func TestClientSummarizeFallback(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"quota exceeded", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota"}}`)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"choices": [`)
		}},
		{"no choices", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"choices": []}`)
		}},
		{"blank content", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, completionJSON("   "))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.Client(), server.URL, "test-key", "gpt-4o-mini", DefaultPromptConfig())
			if got := client.Summarize(context.Background(), "내용"); got != DefaultFallback {
				t.Errorf("Expected fallback %q, got %q", DefaultFallback, got)
			}
		})
	}
}

func TestClientSummarizeWithoutKey(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "", "gpt-4o-mini", DefaultPromptConfig())
	if got := client.Summarize(context.Background(), "내용"); got != DefaultFallback {
		t.Errorf("Expected fallback, got %q", got)
	}
	if calls != 0 {
		t.Errorf("Expected no API calls without a key, got %d", calls)
	}
}

func TestClientSummarizeTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	prompt := DefaultPromptConfig()
	prompt.Fallback = "custom fallback"

	client := NewClient(http.DefaultClient, endpoint, "test-key", "gpt-4o-mini", prompt)
	if got := client.Summarize(context.Background(), "내용"); got != "custom fallback" {
		t.Errorf("Expected configured fallback, got %q", got)
	}
}
