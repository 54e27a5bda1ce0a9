// Package match tags articles with the monitored vendors they mention.
package match

import (
	"regexp"
	"sort"
	"strings"

	"SecurityNewsMonitor/internal/domain"
)

// Matcher holds the vendor list compiled into word-boundary patterns. Build
// one per run; the vendor snapshot is immutable for the run's duration.
type Matcher struct {
	vendors  []domain.VendorEntry
	patterns []*regexp.Regexp
}

// NewMatcher compiles case-insensitive word-boundary patterns for every
// vendor name. Word boundaries keep "AD" from matching inside
// "advertisement"; multi-word names match as a contiguous phrase.
func NewMatcher(vendors []domain.VendorEntry) *Matcher {
	m := &Matcher{
		vendors:  vendors,
		patterns: make([]*regexp.Regexp, len(vendors)),
	}
	for i, v := range vendors {
		m.patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(v.Name) + `\b`)
	}
	return m
}

// Annotate populates MatchedVendors from the article's title and summary.
// The set only grows: vendors already present are kept. An empty result is
// valid and means "not relevant".
func (m *Matcher) Annotate(article domain.ArticleRecord) domain.ArticleRecord {
	text := article.Title + " " + article.Summary

	found := map[string]bool{}
	for _, v := range article.MatchedVendors {
		found[v] = true
	}
	for i, pattern := range m.patterns {
		if pattern.MatchString(text) {
			found[m.vendors[i].Name] = true
		}
	}

	if len(found) == 0 {
		return article
	}

	matched := make([]string, 0, len(found))
	for name := range found {
		matched = append(matched, name)
	}
	sort.Strings(matched)
	article.MatchedVendors = matched
	return article
}

// AnnotateAll runs Annotate over the whole working set.
func (m *Matcher) AnnotateAll(articles []domain.ArticleRecord) []domain.ArticleRecord {
	out := make([]domain.ArticleRecord, len(articles))
	for i, a := range articles {
		out[i] = m.Annotate(a)
	}
	return out
}

// SameVendors reports whether two sorted vendor sets are equal,
// case-insensitively.
func SameVendors(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
