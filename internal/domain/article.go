package domain

import "time"

// RawArticle is an article exactly as a source scanner discovered it, before
// date resolution. The date stays a string because every site formats it
// differently ("Nov 01, 2025", "2 hours ago", ISO timestamps).
type RawArticle struct {
	Source  string
	Title   string
	URL     string
	Summary string
	RawDate string
}

// ParseConfidence records how the publication date was obtained.
type ParseConfidence string

const (
	ConfidenceExact    ParseConfidence = "exact"
	ConfidenceInferred ParseConfidence = "inferred"
	ConfidenceUnknown  ParseConfidence = "unknown"
)

// RiskLevel classifies the severity of an article or a whole report.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var riskOrder = map[RiskLevel]int{
	RiskLow:      1,
	RiskMedium:   2,
	RiskHigh:     3,
	RiskCritical: 4,
}

// Rank returns the ordering weight of the level; the zero value ranks below
// every real level.
func (r RiskLevel) Rank() int {
	return riskOrder[r]
}

// MaxRisk returns the more severe of the two levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// ParseRiskLevel maps free-form model output ("High", "CRITICAL") onto a level.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(normalizeLevel(s)) {
	case RiskLow:
		return RiskLow, true
	case RiskMedium:
		return RiskMedium, true
	case RiskHigh:
		return RiskHigh, true
	case RiskCritical:
		return RiskCritical, true
	}
	return "", false
}

func normalizeLevel(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if r == ' ' || r == '\t' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// ArticleRecord is the canonical in-memory form of one discovered article.
type ArticleRecord struct {
	Title   string
	URL     string
	Summary string
	Source  string

	PublishedDate   time.Time // day granular, in the run's reference location
	ParseConfidence ParseConfidence

	// MatchedVendors only grows; an empty set means "not relevant", not an
	// error. Kept sorted.
	MatchedVendors []string

	// AlsoSeenIn attributes every source that covered the same story when
	// duplicates were collapsed into this record.
	AlsoSeenIn []string

	// Enrichment output; RiskLevel is empty when the AI capability was
	// unavailable.
	RiskScore      float64
	RiskLevel      RiskLevel
	Recommendation string
}

// Assessed reports whether AI enrichment populated this record.
func (a ArticleRecord) Assessed() bool {
	return a.RiskLevel != ""
}

// VendorEntry is one monitored vendor from the vendor store snapshot.
type VendorEntry struct {
	Name    string
	AddedAt time.Time
}

// Assessment is the per-article output of the risk-enrichment capability.
type Assessment struct {
	Level          RiskLevel
	Score          float64
	Recommendation string
}

// Analysis is the report-level AI output attached to an outgoing report.
type Analysis struct {
	Summary         string
	PriorityItems   []string
	Recommendations []string
}

// RunReport is assembled once per run and handed to the dispatcher.
type RunReport struct {
	GeneratedAt    time.Time
	OverallRisk    RiskLevel
	Articles       []ArticleRecord
	VendorSnapshot []VendorEntry
	Analysis       *Analysis
}
