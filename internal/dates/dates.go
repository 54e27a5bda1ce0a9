// Package dates resolves the wildly inconsistent date strings the news sites
// publish and keeps only articles from the run's reference day.
package dates

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"SecurityNewsMonitor/internal/domain"
)

var (
	agoExpr       = regexp.MustCompile(`(?i)\b(\d+)\s*(minute|min|hour|hr)s?\s+ago\b`)
	oneAgoExpr    = regexp.MustCompile(`(?i)\ban?\s+(minute|hour)\s+ago\b`)
	todayExpr     = regexp.MustCompile(`(?i)\b(today|just now|moments?\s+ago)\b`)
	yesterdayExpr = regexp.MustCompile(`(?i)\byesterday\b`)
)

// Formats dateparse occasionally refuses but the monitored sites emit.
var fallbackLayouts = []string{
	"2 January 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006-01-02",
}

// Resolve turns a raw source date string into a day-granular time in loc.
// Relative phrases are resolved against now and reported as inferred;
// anything unparseable comes back as ConfidenceUnknown with a zero time.
func Resolve(raw string, now time.Time, loc *time.Location) (time.Time, domain.ParseConfidence) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, domain.ConfidenceUnknown
	}

	if m := agoExpr.FindStringSubmatch(trimmed); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			unit := time.Minute
			if strings.HasPrefix(strings.ToLower(m[2]), "h") {
				unit = time.Hour
			}
			return day(now.Add(-time.Duration(n)*unit), loc), domain.ConfidenceInferred
		}
	}

	if m := oneAgoExpr.FindStringSubmatch(trimmed); m != nil {
		unit := time.Minute
		if strings.HasPrefix(strings.ToLower(m[1]), "h") {
			unit = time.Hour
		}
		return day(now.Add(-unit), loc), domain.ConfidenceInferred
	}

	if todayExpr.MatchString(trimmed) {
		return day(now, loc), domain.ConfidenceInferred
	}

	if yesterdayExpr.MatchString(trimmed) {
		return day(now.AddDate(0, 0, -1), loc), domain.ConfidenceInferred
	}

	if t, err := dateparse.ParseIn(trimmed, loc); err == nil {
		return day(t, loc), domain.ConfidenceExact
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return day(t, loc), domain.ConfidenceExact
		}
	}

	return time.Time{}, domain.ConfidenceUnknown
}

// FilterToday retains only articles whose resolved calendar date equals the
// run's reference day. Unparseable dates drop the article; the drop is
// counted, never an error.
func FilterToday(raw []domain.RawArticle, now time.Time, loc *time.Location, logger *slog.Logger) ([]domain.ArticleRecord, int) {
	today := day(now, loc)

	kept := make([]domain.ArticleRecord, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		published, confidence := Resolve(r.RawDate, now, loc)
		if confidence == domain.ConfidenceUnknown {
			skipped++
			if logger != nil {
				logger.Debug("dropping article with unparseable date",
					"source", r.Source, "raw_date", r.RawDate, "title", r.Title)
			}
			continue
		}
		if !published.Equal(today) {
			continue
		}
		kept = append(kept, domain.ArticleRecord{
			Title:           r.Title,
			URL:             r.URL,
			Summary:         r.Summary,
			Source:          r.Source,
			PublishedDate:   published,
			ParseConfidence: confidence,
		})
	}
	return kept, skipped
}

func day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
