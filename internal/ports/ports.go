package ports

import (
	"context"
	"time"

	"SecurityNewsMonitor/internal/domain"
)

// ArticleSource pulls raw article candidates from all configured news sites.
// Per-site failures are absorbed inside the implementation; an error is
// returned only when no site responded at all.
type ArticleSource interface {
	FetchToday(ctx context.Context) ([]domain.RawArticle, error)
}

// Judge picks the most detailed representative among same-story candidates.
// Implementations are fallible; callers must treat any error or out-of-range
// index as a failure and fall back deterministically.
type Judge interface {
	ChooseRepresentative(ctx context.Context, candidates []domain.ArticleRecord) (int, error)
}

// RiskAssessor scores a single article. Optional per article; a failure
// leaves the record unenriched.
type RiskAssessor interface {
	Assess(ctx context.Context, article domain.ArticleRecord) (domain.Assessment, error)
}

// ReportAnalyzer produces the report-level summary and recommendations.
type ReportAnalyzer interface {
	AnalyzeReport(ctx context.Context, articles []domain.ArticleRecord) (domain.Analysis, error)
}

// VendorStore owns the monitored-vendor list and the last-run timestamp.
// The pipeline only reads it; the CLI mutates it.
type VendorStore interface {
	Load() ([]domain.VendorEntry, error)
	Add(name string) error
	Remove(name string) error
	LastRun() (time.Time, error)
	TouchLastRun(t time.Time) error
}

// ReportDispatcher delivers one assembled report, at most once per run.
type ReportDispatcher interface {
	Dispatch(ctx context.Context, report domain.RunReport) error
}
