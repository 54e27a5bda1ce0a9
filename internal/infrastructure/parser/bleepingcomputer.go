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

// BleepingComputerScanner extracts the latest-news listing of
// BleepingComputer. Article links there are site-relative.
type BleepingComputerScanner struct {
	client *http.Client
}

var _ scanner.Scanner = (*BleepingComputerScanner)(nil)

// NewBleepingComputerScanner wires an HTTP client; nil gets a default one.
func NewBleepingComputerScanner(client *http.Client) *BleepingComputerScanner {
	if client == nil {
		client = defaultClient()
	}
	return &BleepingComputerScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (b *BleepingComputerScanner) Name() string {
	return "bleepingcomputer"
}

// Scan returns every listed article with its raw date string.
func (b *BleepingComputerScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawArticle, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("no url configured for site %s", req.SiteName)
	}

	doc, err := fetchDocument(ctx, b.client, req.URL)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
	}

	containers := doc.Find("article")
	if containers.Length() == 0 {
		containers = doc.Find("div.bc_latest_news_text")
	}

	var results []domain.RawArticle
	seen := map[string]struct{}{}

	containers.Each(func(_ int, post *goquery.Selection) {
		titleElem := post.Find("h4").First()
		if titleElem.Length() == 0 {
			titleElem = post.Find("h2").First()
		}
		if titleElem.Length() == 0 {
			titleElem = post.Find("h3").First()
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
			Summary: truncateSummary(firstText(post, "p")),
			RawDate: firstText(post, "time", "li.bc_news_date", "li.bc_date"),
		})
	})

	return results, nil
}
