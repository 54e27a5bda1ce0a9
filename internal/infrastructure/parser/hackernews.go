package parser

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SecurityNewsMonitor/internal/domain"
	"SecurityNewsMonitor/internal/scanner"
)

// HackerNewsScanner extracts the front-page article listing of
// TheHackerNews.
type HackerNewsScanner struct {
	client *http.Client
}

var _ scanner.Scanner = (*HackerNewsScanner)(nil)

// NewHackerNewsScanner wires an HTTP client; nil gets a default one.
func NewHackerNewsScanner(client *http.Client) *HackerNewsScanner {
	if client == nil {
		client = defaultClient()
	}
	return &HackerNewsScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (h *HackerNewsScanner) Name() string {
	return "hackernews"
}

// Scan returns every listed article with its raw date string; the date
// filter downstream decides what counts as today.
func (h *HackerNewsScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawArticle, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("no url configured for site %s", req.SiteName)
	}

	doc, err := fetchDocument(ctx, h.client, req.URL)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
	}

	containers := doc.Find("div.body-post")
	if containers.Length() == 0 {
		containers = doc.Find("article")
	}

	var results []domain.RawArticle
	seen := map[string]struct{}{}

	containers.Each(func(_ int, post *goquery.Selection) {
		titleElem := post.Find("h2.home-title").First()
		if titleElem.Length() == 0 {
			titleElem = post.Find("h2").First()
		}
		title := strings.TrimSpace(titleElem.Text())
		if title == "" {
			return
		}

		href, _ := titleElem.Find("a").First().Attr("href")
		if href == "" {
			href, _ = post.Find("a").First().Attr("href")
		}
		link := resolveURL(req.URL, href)
		if link == "" {
			return
		}
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}

		results = append(results, domain.RawArticle{
			Source:  req.SiteName,
			Title:   title,
			URL:     link,
			Summary: truncateSummary(firstText(post, "div.home-desc", "p")),
			RawDate: firstText(post, "span.h-datetime", "time"),
		})
	})

	return results, nil
}
