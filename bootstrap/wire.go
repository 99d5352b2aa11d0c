// Package bootstrap builds the dependency graph and runs the service.
package bootstrap

import (
	"context"
	"log/slog"

	"article-summarizer/config"
	"article-summarizer/export"
	"article-summarizer/fetcher"
	"article-summarizer/graphstore"
	"article-summarizer/handler"
	"article-summarizer/pipeline"
	"article-summarizer/pricing"
	"article-summarizer/summarizer"
	"article-summarizer/usage"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	GraphStore *graphstore.Store

	SummarizeHandler *handler.SummarizeHandler
	GraphHandler     *handler.GraphHandler
	ModelsHandler    *handler.ModelsHandler
	HealthHandler    *handler.HealthHandler
}

// BuildDependencies constructs all application dependencies. The returned
// cleanup function should be deferred.
func BuildDependencies(ctx context.Context, log *slog.Logger) (*Dependencies, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	store, err := graphstore.New(cfg.Neo4j, log)
	if err != nil {
		return nil, nil, err
	}

	// Storage is best effort: the batch pipeline works without the graph.
	if err := store.Ping(ctx); err != nil {
		log.Warn("graph store is unreachable at startup", "uri", cfg.Neo4j.URI, "error", err)
	} else {
		store.EnsureSchema(ctx)
	}

	table := pricing.NewTable()
	docFetcher := fetcher.NewHTTPFetcher(cfg, log)
	llm := summarizer.NewOpenAIClient(cfg, log)
	orchestrator := pipeline.NewOrchestrator(docFetcher, llm, table, cfg.Pipeline, log)
	exporter := export.NewExporter(cfg.Export, log)
	ledger := usage.NewLedger(cfg.Usage, log)

	deps := &Dependencies{
		Config:           cfg,
		Logger:           log,
		GraphStore:       store,
		SummarizeHandler: handler.NewSummarizeHandler(orchestrator, store, exporter, ledger, log),
		GraphHandler:     handler.NewGraphHandler(store, log),
		ModelsHandler:    handler.NewModelsHandler(table),
		HealthHandler:    handler.NewHealthHandler(store, log),
	}

	cleanup := func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error("failed to close graph store", "error", err)
		}
	}

	return deps, cleanup, nil
}
