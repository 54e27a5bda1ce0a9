package parser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"SecurityNewsMonitor/internal/config"
	"SecurityNewsMonitor/internal/domain"
	"SecurityNewsMonitor/internal/ports"
	"SecurityNewsMonitor/internal/scanner"
)

// MultiSource implements ArticleSource over the scanner registry, fetching
// every configured site concurrently. Each site works on its own result
// slice; nothing is shared until all fetches finish or time out. A failing
// site contributes zero articles and the run continues.
type MultiSource struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	timeout  time.Duration
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*MultiSource)(nil)

// NewMultiSource wires the scanner registry with config-defined sites.
func NewMultiSource(reg *scanner.Registry, sites []config.SiteConfig, timeout time.Duration, log *slog.Logger) *MultiSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MultiSource{
		registry: reg,
		sites:    sites,
		timeout:  timeout,
		logger:   log,
	}
}

// FetchToday fans out one fetch per site and merges the per-site results in
// configuration order. An error is returned only when every site failed.
func (s *MultiSource) FetchToday(ctx context.Context) ([]domain.RawArticle, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}
	if len(s.sites) == 0 {
		return nil, fmt.Errorf("no sites configured")
	}

	type siteResult struct {
		articles []domain.RawArticle
		err      error
	}
	results := make([]siteResult, len(s.sites))

	var wg sync.WaitGroup
	for i, site := range s.sites {
		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			results[i].err = err
			s.warn("site skipped", "site", site.Name, "error", err)
			continue
		}

		wg.Add(1)
		go func(i int, site config.SiteConfig, strategy scanner.Scanner) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			articles, err := strategy.Scan(fetchCtx, scanner.Request{
				SiteName: site.Name,
				URL:      site.URL,
				Options:  site.Options,
			})
			if err != nil {
				results[i].err = err
				s.warn("source fetch failed, continuing without it", "site", site.Name, "error", err)
				return
			}
			results[i].articles = articles
			s.debug("site produced articles", "site", site.Name, "count", len(articles))
		}(i, site, strategy)
	}
	wg.Wait()

	var merged []domain.RawArticle
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			continue
		}
		merged = append(merged, r.articles...)
	}

	if failed == len(s.sites) {
		return nil, fmt.Errorf("no source responded (%d of %d failed)", failed, len(s.sites))
	}

	s.debug("multi source done", "total_articles", len(merged), "failed_sites", failed)
	return merged, nil
}

func (s *MultiSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *MultiSource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
