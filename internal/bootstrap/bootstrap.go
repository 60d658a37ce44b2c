package bootstrap

import (
	"context"
	"fmt"

	"github.com/avolkov/docsummary/internal/config"
	"github.com/avolkov/docsummary/internal/core/domain"
	"github.com/avolkov/docsummary/internal/core/ports"
	"github.com/avolkov/docsummary/internal/core/usecase"
	"github.com/avolkov/docsummary/internal/infrastructure/chunking"
	"github.com/avolkov/docsummary/internal/infrastructure/extractor"
	"github.com/avolkov/docsummary/internal/infrastructure/queue/nats"
	"github.com/avolkov/docsummary/internal/infrastructure/repository/postgres"
	"github.com/avolkov/docsummary/internal/infrastructure/resilience"
	"github.com/avolkov/docsummary/internal/infrastructure/storage/localfs"
	"github.com/avolkov/docsummary/internal/infrastructure/summarizer/webhook"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor

	summarizer ports.Summarizer
	progress   ports.ProgressFunc

	closeFn func()
}

// Options carries cross-cutting hooks the binaries wire differently.
type Options struct {
	// Progress observes each classified chunk; may be nil.
	Progress ports.ProgressFunc
}

func New(ctx context.Context, cfg config.Config, options Options) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultPolicy())
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	summarizer := webhook.New(cfg.WebhookURL, webhook.Options{
		Timeout: cfg.WebhookTimeout,
		Policy:  resilience.DefaultPolicy(),
		RateRPS: cfg.WebhookRPS,
		Burst:   cfg.WebhookBurst,
	})

	app := &App{
		Config:     cfg,
		Queue:      queue,
		Repo:       repo,
		summarizer: summarizer,
		progress:   options.Progress,
		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}

	app.IngestUC = usecase.NewIngestDocumentUseCase(repo, storage, queue)
	app.ProcessUC = usecase.NewProcessDocumentUseCase(
		repo,
		extractor.NewDispatcher(storage),
		app.Pipeline(cfg.ChunkSize),
	)

	return app, nil
}

// Pipeline builds a summarization pipeline bound to one chunk size.
func (a *App) Pipeline(size domain.ChunkSize) ports.SummaryPipeline {
	return usecase.NewSummarizeContentUseCase(
		chunking.NewSplitter(size),
		a.summarizer,
		a.progress,
	)
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
