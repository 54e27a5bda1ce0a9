package rank_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"SecurityNewsMonitor/internal/domain"
	"SecurityNewsMonitor/internal/rank"
)

var day = time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)

func matched(title string, published time.Time, vendors ...string) domain.ArticleRecord {
	return domain.ArticleRecord{
		Title:          title,
		URL:            "https://example.com/" + title,
		Source:         "TheHackerNews",
		PublishedDate:  published,
		MatchedVendors: vendors,
	}
}

func TestRankDropsUnmatchedArticles(t *testing.T) {
	in := []domain.ArticleRecord{
		matched("Cisco flaw", day, "cisco"),
		matched("General tech news", day),
	}

	ranked, overall := rank.Rank(in)
	require.Len(t, ranked, 1)
	require.Equal(t, "Cisco flaw", ranked[0].Title)
	require.Equal(t, domain.RiskMedium, overall)
}

func TestRankAllUnmatchedYieldsEmpty(t *testing.T) {
	ranked, overall := rank.Rank([]domain.ArticleRecord{matched("Nothing relevant", day)})
	require.Empty(t, ranked)
	require.Equal(t, domain.RiskLevel(""), overall)
}

func TestRankKeywordBoosts(t *testing.T) {
	plain := matched("Vendor ships routine update", day, "cisco")
	urgent := matched("Vendor zero-day actively exploited", day, "cisco")

	require.Greater(t, rank.Score(urgent), rank.Score(plain))

	// "RCE" only boosts as a whole word.
	forced := matched("Task force assembles for review", day, "cisco")
	require.Equal(t, rank.Score(plain), rank.Score(forced))
}

func TestRankMoreVendorsScoreHigher(t *testing.T) {
	one := matched("Single vendor story", day, "cisco")
	two := matched("Double vendor story", day, "cisco", "microsoft")

	ranked, _ := rank.Rank([]domain.ArticleRecord{one, two})
	require.Equal(t, "Double vendor story", ranked[0].Title)
}

func TestRankEnrichmentScoreCounts(t *testing.T) {
	cold := matched("Assessed mild", day, "cisco")
	hot := matched("Assessed severe", day, "cisco")
	hot.RiskScore = 80
	hot.RiskLevel = domain.RiskHigh

	ranked, overall := rank.Rank([]domain.ArticleRecord{cold, hot})
	require.Equal(t, "Assessed severe", ranked[0].Title)
	require.Equal(t, domain.RiskHigh, overall)
}

func TestRankTieBreaksDeterministically(t *testing.T) {
	older := matched("B story", day.AddDate(0, 0, -1), "cisco")
	newer := matched("C story", day, "cisco")
	sameDay := matched("A story", day, "cisco")

	ranked, _ := rank.Rank([]domain.ArticleRecord{older, newer, sameDay})

	// Equal scores: later date first, then title ascending.
	require.Equal(t, []string{"A story", "C story", "B story"}, titles(ranked))
}

func TestRankOverallIsMaxLevel(t *testing.T) {
	high := matched("High one", day, "cisco")
	high.RiskLevel = domain.RiskHigh
	critical := matched("Critical one", day, "microsoft")
	critical.RiskLevel = domain.RiskCritical
	critical.RiskScore = 90

	_, overall := rank.Rank([]domain.ArticleRecord{high, critical})
	require.Equal(t, domain.RiskCritical, overall)
}

func titles(articles []domain.ArticleRecord) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.Title
	}
	return out
}
