package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"SecurityNewsMonitor/internal/dates"
	"SecurityNewsMonitor/internal/dedupe"
	"SecurityNewsMonitor/internal/domain"
	"SecurityNewsMonitor/internal/match"
	"SecurityNewsMonitor/internal/ports"
	"SecurityNewsMonitor/internal/rank"
)

// PipelineDeps wires all driven adapters into the monitoring pipeline.
// Judge, Assessor, Analyzer and Dispatcher may be nil; the pipeline degrades
// instead of failing when a capability is absent.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Vendors    ports.VendorStore
	Judge      ports.Judge
	Assessor   ports.RiskAssessor
	Analyzer   ports.ReportAnalyzer
	Dispatcher ports.ReportDispatcher
	Location   *time.Location
	Logger     *slog.Logger
}

// Pipeline implements one fetch-filter-match-dedupe-rank-report pass.
type Pipeline struct {
	source     ports.ArticleSource
	vendors    ports.VendorStore
	deduper    *dedupe.Deduper
	assessor   ports.RiskAssessor
	analyzer   ports.ReportAnalyzer
	dispatcher ports.ReportDispatcher
	location   *time.Location
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:     deps.Source,
		vendors:    deps.Vendors,
		deduper:    dedupe.New(deps.Judge, logger.With("component", "dedupe")),
		assessor:   deps.Assessor,
		analyzer:   deps.Analyzer,
		dispatcher: deps.Dispatcher,
		location:   loc,
		logger:     logger,
	}
}

// ProcessDay executes one full pipeline pass for the given wall-clock start
// time. Only two things fail a run: an empty vendor list and the total
// absence of any responding source. Everything below degrades locally.
func (p *Pipeline) ProcessDay(ctx context.Context, now time.Time) error {
	vendors, err := p.vendors.Load()
	if err != nil {
		return fmt.Errorf("load vendors: %w", err)
	}
	if len(vendors) == 0 {
		return fmt.Errorf("no vendors configured")
	}
	p.logger.Info("starting run", "vendors", len(vendors), "day", now.In(p.location).Format("2006-01-02"))

	raw, err := p.source.FetchToday(ctx)
	if err != nil {
		return fmt.Errorf("fetch sources: %w", err)
	}

	todays, skipped := dates.FilterToday(raw, now, p.location, p.logger.With("component", "dates"))
	p.logger.Info("date filter done", "fetched", len(raw), "retained", len(todays), "unparseable", skipped)

	matcher := match.NewMatcher(vendors)
	annotated := matcher.AnnotateAll(todays)

	deduped := p.deduper.Dedupe(ctx, annotated)
	p.logger.Info("dedup done", "before", len(annotated), "after", len(deduped))

	enriched := p.enrich(ctx, deduped)

	ranked, overall := rank.Rank(enriched)
	if len(ranked) == 0 {
		p.logger.Info("no relevant news for monitored vendors today")
		return p.touchLastRun(now)
	}
	p.logger.Info("ranking done", "articles", len(ranked), "overall_risk", overall)

	report := domain.RunReport{
		GeneratedAt:    now,
		OverallRisk:    overall,
		Articles:       ranked,
		VendorSnapshot: vendors,
	}

	if p.analyzer != nil {
		analysis, aErr := p.analyzer.AnalyzeReport(ctx, ranked)
		if aErr != nil {
			p.logger.Warn("report analysis unavailable", "error", aErr)
		} else {
			report.Analysis = &analysis
		}
	}

	if p.dispatcher == nil {
		p.logger.Warn("no dispatcher configured, report not delivered", "articles", len(ranked))
		return p.touchLastRun(now)
	}

	if dErr := p.dispatcher.Dispatch(ctx, report); dErr != nil {
		// At-most-once delivery: the failure is logged, never retried, and
		// the run still counts as processed.
		p.logger.Error("report dispatch failed", "error", dErr)
	} else {
		p.logger.Info("report dispatched", "articles", len(ranked), "overall_risk", overall)
	}

	return p.touchLastRun(now)
}

// enrich asks the assessor for a per-article risk verdict. Failures leave
// the record unenriched; ranking proceeds with defaults.
func (p *Pipeline) enrich(ctx context.Context, articles []domain.ArticleRecord) []domain.ArticleRecord {
	if p.assessor == nil {
		return articles
	}
	out := make([]domain.ArticleRecord, len(articles))
	for i, a := range articles {
		out[i] = a
		if len(a.MatchedVendors) == 0 {
			continue
		}
		assessment, err := p.assessor.Assess(ctx, a)
		if err != nil {
			p.logger.Warn("risk assessment unavailable", "title", a.Title, "error", err)
			continue
		}
		out[i].RiskLevel = assessment.Level
		out[i].RiskScore = assessment.Score
		out[i].Recommendation = assessment.Recommendation
	}
	return out
}

func (p *Pipeline) touchLastRun(now time.Time) error {
	if err := p.vendors.TouchLastRun(now); err != nil {
		p.logger.Warn("could not update last-run timestamp", "error", err)
	}
	return nil
}
