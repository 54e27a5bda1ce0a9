package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"SecurityNewsMonitor/internal/config"
	"SecurityNewsMonitor/internal/infrastructure/llm"
	"SecurityNewsMonitor/internal/infrastructure/mail"
	"SecurityNewsMonitor/internal/infrastructure/parser"
	"SecurityNewsMonitor/internal/infrastructure/storage"
	"SecurityNewsMonitor/internal/logging"
	"SecurityNewsMonitor/internal/ports"
	"SecurityNewsMonitor/internal/scanner"
	"SecurityNewsMonitor/internal/usecase"
)

// Application wires configs to the pipeline and its adapters.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	store    ports.VendorStore
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	httpClient := &http.Client{Timeout: cfg.Monitor.FetchTimeout()}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewHackerNewsScanner(httpClient))
	registry.Register(parser.NewBleepingComputerScanner(httpClient))
	registry.Register(parser.NewSecurityWeekScanner(httpClient))

	source := parser.NewMultiSource(registry, cfg.Sites, cfg.Monitor.FetchTimeout(), baseLogger.With("component", "source"))
	store := storage.NewFileStore(cfg.Storage.VendorsFile, baseLogger.With("component", "storage"))

	deps := usecase.PipelineDeps{
		Source:   source,
		Vendors:  store,
		Location: cfg.Monitor.Location(),
		Logger:   baseLogger.With("component", "pipeline"),
	}

	if cfg.Together.APIKey != "" {
		client := llm.NewClient(cfg.Together)
		deps.Judge = client
		deps.Assessor = client
		deps.Analyzer = client
	}

	if cfg.SMTP.Configured() {
		deps.Dispatcher = mail.NewMailer(cfg.SMTP, baseLogger.With("component", "mail"))
	}

	return &Application{
		cfg:      cfg,
		pipeline: usecase.NewPipeline(deps),
		store:    store,
	}
}

// Run performs a single pipeline execution.
func (a *Application) Run(ctx context.Context) error {
	now := time.Now().In(a.cfg.Monitor.Location())
	return a.pipeline.ProcessDay(ctx, now)
}

// VendorStore exposes the store for the vendor CRUD commands.
func (a *Application) VendorStore() ports.VendorStore {
	return a.store
}
