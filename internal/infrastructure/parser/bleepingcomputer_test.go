package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"SecurityNewsMonitor/internal/scanner"
)

func TestBleepingComputerScan(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
		<article>
		  <h4><a href="/news/security/windows-zero-day/">Windows Zero-Day Actively Exploited</a></h4>
		  <p>Microsoft confirmed in-the-wild exploitation.</p>
		  <time>February 10, 2025</time>
		</article>
		<div class="bc_latest_news_text">
		  <h4>Listing without a link</h4>
		</div>`))
	}))
	defer server.Close()

	sc := NewBleepingComputerScanner(server.Client())

	articles, err := sc.Scan(context.Background(), scanner.Request{SiteName: "BleepingComputer", URL: server.URL})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}

	a := articles[0]
	if a.Title != "Windows Zero-Day Actively Exploited" {
		t.Fatalf("unexpected title: %s", a.Title)
	}
	if a.URL != server.URL+"/news/security/windows-zero-day/" {
		t.Fatalf("relative link not resolved: %s", a.URL)
	}
	if a.RawDate != "February 10, 2025" {
		t.Fatalf("unexpected raw date: %s", a.RawDate)
	}
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		base, href, want string
	}{
		{"https://www.bleepingcomputer.com/", "/news/x/", "https://www.bleepingcomputer.com/news/x/"},
		{"https://www.securityweek.com/", "https://other.example/y", "https://other.example/y"},
		{"https://site.example/", "", ""},
	}
	for _, c := range cases {
		if got := resolveURL(c.base, c.href); got != c.want {
			t.Fatalf("resolveURL(%q, %q) = %q, want %q", c.base, c.href, got, c.want)
		}
	}
}

func TestTruncateSummary(t *testing.T) {
	t.Parallel()

	long := make([]rune, 0, 400)
	for i := 0; i < 400; i++ {
		long = append(long, 'x')
	}
	if got := truncateSummary(string(long)); len([]rune(got)) != summaryLimit {
		t.Fatalf("expected %d runes, got %d", summaryLimit, len([]rune(got)))
	}
	if got := truncateSummary("short"); got != "short" {
		t.Fatalf("short summaries must pass through, got %q", got)
	}
}
