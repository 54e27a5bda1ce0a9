// Package llm implements the judgment and risk-assessment capabilities on
// top of the Together AI chat-completions API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"SecurityNewsMonitor/internal/config"
	"SecurityNewsMonitor/internal/domain"
	"SecurityNewsMonitor/internal/ports"
)

// Client talks to an OpenAI-compatible chat endpoint. Every method is
// best-effort; callers own the deterministic fallback.
type Client struct {
	endpoint      string
	dedupeModel   string
	analysisModel string
	apiKey        string
	httpClient    *http.Client
}

var _ ports.Judge = (*Client)(nil)
var _ ports.RiskAssessor = (*Client)(nil)
var _ ports.ReportAnalyzer = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.TogetherConfig) *Client {
	return &Client{
		endpoint:      cfg.Endpoint,
		dedupeModel:   cfg.DedupeModel,
		analysisModel: cfg.AnalysisModel,
		apiKey:        cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ChooseRepresentative asks the model which same-story candidate carries the
// most detailed coverage. The reply must be a bare 1-based number; anything
// else, including a "DIFFERENT" verdict, is an error the caller resolves
// deterministically.
func (c *Client) ChooseRepresentative(ctx context.Context, candidates []domain.ArticleRecord) (int, error) {
	if len(candidates) == 0 {
		return 0, fmt.Errorf("no candidates")
	}

	reply, err := c.chat(ctx, c.dedupeModel, choosePrompt(candidates), 50, 0.3)
	if err != nil {
		return 0, err
	}

	reply = strings.ToUpper(strings.TrimSpace(reply))
	if strings.Contains(reply, "DIFFERENT") {
		return 0, fmt.Errorf("model judged candidates as different stories")
	}

	fields := strings.Fields(reply)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty model reply")
	}
	choice, err := strconv.Atoi(strings.Trim(fields[0], ".)"))
	if err != nil {
		return 0, fmt.Errorf("unparseable model reply %q", reply)
	}
	idx := choice - 1
	if idx < 0 || idx >= len(candidates) {
		return 0, fmt.Errorf("model chose out-of-range article %d of %d", choice, len(candidates))
	}
	return idx, nil
}

// Assess requests a risk verdict for one article.
func (c *Client) Assess(ctx context.Context, article domain.ArticleRecord) (domain.Assessment, error) {
	reply, err := c.chat(ctx, c.analysisModel, assessPrompt(article), 300, 0)
	if err != nil {
		return domain.Assessment{}, err
	}

	var parsed struct {
		RiskLevel      string  `json:"risk_level"`
		RiskScore      float64 `json:"risk_score"`
		Recommendation string  `json:"recommendation"`
	}
	if err := json.Unmarshal(extractJSON(reply), &parsed); err != nil {
		return domain.Assessment{}, fmt.Errorf("decode assessment: %w", err)
	}

	level, ok := domain.ParseRiskLevel(parsed.RiskLevel)
	if !ok {
		return domain.Assessment{}, fmt.Errorf("unknown risk level %q", parsed.RiskLevel)
	}
	return domain.Assessment{
		Level:          level,
		Score:          parsed.RiskScore,
		Recommendation: parsed.Recommendation,
	}, nil
}

// AnalyzeReport requests the report-level summary, priorities and
// recommendations for the final article set.
func (c *Client) AnalyzeReport(ctx context.Context, articles []domain.ArticleRecord) (domain.Analysis, error) {
	reply, err := c.chat(ctx, c.analysisModel, analyzePrompt(articles), 1024, 0)
	if err != nil {
		return domain.Analysis{}, err
	}

	var parsed struct {
		Summary         string   `json:"summary"`
		PriorityItems   []string `json:"priority_items"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal(extractJSON(reply), &parsed); err != nil {
		return domain.Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	return domain.Analysis{
		Summary:         parsed.Summary,
		PriorityItems:   parsed.PriorityItems,
		Recommendations: parsed.Recommendations,
	}, nil
}

func (c *Client) chat(ctx context.Context, model, prompt string, maxTokens int, temperature float64) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || model == "" {
		return "", fmt.Errorf("llm client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  maxTokens,
		"temperature": temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chat error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func choosePrompt(candidates []domain.ArticleRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are analyzing security news articles that appear to cover the same incident.\n\nHere are %d articles:\n", len(candidates))
	for i, a := range candidates {
		fmt.Fprintf(&b, "\nArticle %d (Source: %s):\nTitle: %s\nDescription: %s\n", i+1, a.Source, a.Title, a.Summary)
	}
	b.WriteString(`
Task: return the article number (1, 2, 3, ...) with the MOST DETAILED and COMPREHENSIVE information.
If the articles clearly cover DIFFERENT stories, return the word "DIFFERENT" instead.

Respond with ONLY the number or the word "DIFFERENT".`)
	return b.String()
}

func assessPrompt(article domain.ArticleRecord) string {
	var b strings.Builder
	b.WriteString("You are a cybersecurity analyst. Assess the risk of this security news article.\n\n")
	fmt.Fprintf(&b, "Title: %s\nVendors affected: %s\nDescription: %s\n", article.Title, strings.Join(article.MatchedVendors, ", "), article.Summary)
	b.WriteString(`
Provide a JSON response with:
{
  "risk_level": "critical/high/medium/low",
  "risk_score": <number between 0 and 100>,
  "recommendation": "one-line recommended action"
}

Return ONLY valid JSON.`)
	return b.String()
}

func analyzePrompt(articles []domain.ArticleRecord) string {
	var b strings.Builder
	b.WriteString("You are a cybersecurity analyst. Analyze these security news articles and provide a risk assessment.\n")
	for i, a := range articles {
		fmt.Fprintf(&b, "\n%d. **%s**\n   Vendors: %s\n   Description: %s\n   Link: %s\n",
			i+1, a.Title, strings.Join(a.MatchedVendors, ", "), a.Summary, a.URL)
	}
	b.WriteString(`
Provide a JSON response with:
{
  "summary": "Brief summary of the threats",
  "priority_items": ["List of most critical items"],
  "recommendations": ["List of recommended actions"]
}

Return ONLY valid JSON.`)
	return b.String()
}

var jsonFence = regexp.MustCompile("(?is)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// extractJSON pulls the JSON object out of a reply that may wrap it in a
// markdown fence or surrounding prose.
func extractJSON(reply string) []byte {
	if m := jsonFence.FindStringSubmatch(reply); m != nil {
		return []byte(m[1])
	}
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start >= 0 && end > start {
		return []byte(reply[start : end+1])
	}
	return []byte(reply)
}
