package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"SecurityNewsMonitor/internal/config"
	"SecurityNewsMonitor/internal/domain"
)

func chatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		var payload struct {
			Model string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.Model == "" {
			t.Error("request is missing the model")
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": reply}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(srv *httptest.Server) *Client {
	return NewClient(config.TogetherConfig{
		Endpoint:      srv.URL,
		DedupeModel:   "dedupe-model",
		AnalysisModel: "analysis-model",
		APIKey:        "test-key",
	})
}

func candidates() []domain.ArticleRecord {
	return []domain.ArticleRecord{
		{Source: "TheHackerNews", Title: "Fortinet flaw exploited", Summary: "short"},
		{Source: "BleepingComputer", Title: "Fortinet bug under attack", Summary: "a much longer writeup"},
	}
}

func TestChooseRepresentative(t *testing.T) {
	srv := chatServer(t, "2")
	idx, err := testClient(srv).ChooseRepresentative(context.Background(), candidates())
	if err != nil {
		t.Fatalf("ChooseRepresentative: %v", err)
	}
	if idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
}

func TestChooseRepresentativeNoisyReply(t *testing.T) {
	srv := chatServer(t, "2.")
	idx, err := testClient(srv).ChooseRepresentative(context.Background(), candidates())
	if err != nil {
		t.Fatalf("ChooseRepresentative: %v", err)
	}
	if idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
}

func TestChooseRepresentativeDifferent(t *testing.T) {
	srv := chatServer(t, "DIFFERENT")
	if _, err := testClient(srv).ChooseRepresentative(context.Background(), candidates()); err == nil {
		t.Fatal("expected an error for a DIFFERENT verdict")
	}
}

func TestChooseRepresentativeOutOfRange(t *testing.T) {
	srv := chatServer(t, "7")
	if _, err := testClient(srv).ChooseRepresentative(context.Background(), candidates()); err == nil {
		t.Fatal("expected an error for an out-of-range choice")
	}
}

func TestChooseRepresentativeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	if _, err := testClient(srv).ChooseRepresentative(context.Background(), candidates()); err == nil {
		t.Fatal("expected an error on HTTP failure")
	}
}

func TestAssessParsesFencedJSON(t *testing.T) {
	srv := chatServer(t, "Here is my assessment:\n```json\n{\"risk_level\": \"high\", \"risk_score\": 72, \"recommendation\": \"Patch now\"}\n```")

	assessment, err := testClient(srv).Assess(context.Background(), domain.ArticleRecord{
		Title:          "Fortinet flaw exploited",
		MatchedVendors: []string{"fortinet"},
	})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if assessment.Level != domain.RiskHigh {
		t.Fatalf("expected high risk, got %s", assessment.Level)
	}
	if assessment.Score != 72 {
		t.Fatalf("expected score 72, got %v", assessment.Score)
	}
	if assessment.Recommendation != "Patch now" {
		t.Fatalf("unexpected recommendation %q", assessment.Recommendation)
	}
}

func TestAssessRejectsUnknownLevel(t *testing.T) {
	srv := chatServer(t, `{"risk_level": "apocalyptic", "risk_score": 99}`)
	if _, err := testClient(srv).Assess(context.Background(), domain.ArticleRecord{Title: "x"}); err == nil {
		t.Fatal("expected an error for an unknown risk level")
	}
}

func TestAnalyzeReport(t *testing.T) {
	srv := chatServer(t, `{"summary": "Two active campaigns.", "priority_items": ["Patch Fortinet"], "recommendations": ["Review firewall logs"]}`)

	analysis, err := testClient(srv).AnalyzeReport(context.Background(), candidates())
	if err != nil {
		t.Fatalf("AnalyzeReport: %v", err)
	}
	if analysis.Summary != "Two active campaigns." {
		t.Fatalf("unexpected summary %q", analysis.Summary)
	}
	if len(analysis.PriorityItems) != 1 || analysis.PriorityItems[0] != "Patch Fortinet" {
		t.Fatalf("unexpected priority items %v", analysis.PriorityItems)
	}
	if len(analysis.Recommendations) != 1 {
		t.Fatalf("unexpected recommendations %v", analysis.Recommendations)
	}
}

func TestChatMisconfigured(t *testing.T) {
	c := NewClient(config.TogetherConfig{})
	if _, err := c.ChooseRepresentative(context.Background(), candidates()); err == nil {
		t.Fatal("expected error without an API key")
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no lang", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", `Sure thing: {"a":1} hope that helps`, `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := string(extractJSON(tc.reply)); got != tc.want {
				t.Fatalf("extractJSON(%q) = %q, want %q", tc.reply, got, tc.want)
			}
		})
	}
}
