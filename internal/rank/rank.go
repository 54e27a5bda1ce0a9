// Package rank orders the deduplicated, vendor-matched articles by priority
// and derives the report-level risk.
package rank

import (
	"regexp"
	"sort"

	"SecurityNewsMonitor/internal/domain"
)

const vendorWeight = 10

// Severity keywords boost an article's priority when they appear in its
// title or summary.
var keywordBoosts = []struct {
	pattern *regexp.Regexp
	boost   float64
}{
	{regexp.MustCompile(`(?i)\bzero-day\b`), 25},
	{regexp.MustCompile(`(?i)\bactively exploited\b`), 25},
	{regexp.MustCompile(`(?i)\brce\b`), 20},
	{regexp.MustCompile(`(?i)\bcritical\b`), 15},
}

// Score computes the priority of a single article.
func Score(article domain.ArticleRecord) float64 {
	score := float64(vendorWeight * len(article.MatchedVendors))
	text := article.Title + " " + article.Summary
	for _, kw := range keywordBoosts {
		if kw.pattern.MatchString(text) {
			score += kw.boost
		}
	}
	return score + article.RiskScore
}

// Rank drops articles without any vendor match, sorts the rest by priority
// (score descending, then published date descending, then title ascending)
// and returns them with the overall report risk. The overall level is the
// maximum enriched level, or medium when matches exist but no enrichment
// succeeded; a sent report always states a level.
func Rank(articles []domain.ArticleRecord) ([]domain.ArticleRecord, domain.RiskLevel) {
	ranked := make([]domain.ArticleRecord, 0, len(articles))
	for _, a := range articles {
		if len(a.MatchedVendors) > 0 {
			ranked = append(ranked, a)
		}
	}
	if len(ranked) == 0 {
		return nil, ""
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := Score(ranked[i]), Score(ranked[j])
		if si != sj {
			return si > sj
		}
		if !ranked[i].PublishedDate.Equal(ranked[j].PublishedDate) {
			return ranked[i].PublishedDate.After(ranked[j].PublishedDate)
		}
		return ranked[i].Title < ranked[j].Title
	})

	overall := domain.RiskLevel("")
	for _, a := range ranked {
		overall = domain.MaxRisk(overall, a.RiskLevel)
	}
	if overall == "" {
		overall = domain.RiskMedium
	}
	return ranked, overall
}
