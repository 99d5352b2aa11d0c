// Package graphstore persists article summaries in Neo4j as Article and
// Source nodes joined by PUBLISHED_BY edges, and serves filtered reads and
// live aggregates over them.
package graphstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"article-summarizer/config"
	"article-summarizer/domain"
)

const upsertArticleQuery = `
MERGE (a:Article {url: $url})
SET a.processed_at = $processed_at,
    a.headline = $headline,
    a.publication_date = $publication_date,
    a.source = $source,
    a.summary = $summary,
    a.tokens_used = $tokens_used,
    a.cost_usd = $cost_usd
MERGE (s:Source {name: $source})
WITH a, s
OPTIONAL MATCH (a)-[old:PUBLISHED_BY]->(prev:Source)
WHERE prev.name <> $source
DELETE old
MERGE (a)-[:PUBLISHED_BY]->(s)`

var schemaStatements = []string{
	`CREATE CONSTRAINT article_url_unique IF NOT EXISTS FOR (a:Article) REQUIRE a.url IS UNIQUE`,
	`CREATE CONSTRAINT source_name_unique IF NOT EXISTS FOR (s:Source) REQUIRE s.name IS UNIQUE`,
	`CREATE INDEX article_processed_at IF NOT EXISTS FOR (a:Article) ON (a.processed_at)`,
	`CREATE INDEX article_publication_date IF NOT EXISTS FOR (a:Article) ON (a.publication_date)`,
}

// Store wraps the Neo4j driver. All methods classify connectivity and
// transaction failures under domain.ErrStoreUnavailable so callers can
// degrade gracefully instead of failing the batch.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

// New opens a driver against the configured Neo4j instance. The connection
// is lazy; use Ping to verify reachability.
func New(cfg config.Neo4jConfig, logger *slog.Logger) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	return &Store{driver: driver, database: cfg.Database, logger: logger}, nil
}

// Close releases the driver and its connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// EnsureSchema creates uniqueness constraints and indexes. Failures are
// logged but not fatal; the store works without them, just slower.
func (s *Store) EnsureSchema(ctx context.Context) {
	session := s.session(ctx)
	defer s.closeSession(ctx, session)

	for _, stmt := range schemaStatements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			s.logger.WarnContext(ctx, "schema statement failed", "statement", stmt, "error", err)
		}
	}
}

// UpsertBatch writes each successful result in its own transaction: the
// Article node is merged by URL with all properties overwritten, the Source
// node is merged by name, and a stale PUBLISHED_BY edge to a different
// source is replaced. Reprocessing a URL is therefore idempotent. Failed
// results are skipped. Returns how many articles were stored; one article
// failing to store does not block the rest.
func (s *Store) UpsertBatch(ctx context.Context, results []domain.ArticleResult) (int, error) {
	session := s.session(ctx)
	defer s.closeSession(ctx, session)

	stored := 0
	var firstErr error
	for _, result := range results {
		if result.Failed() {
			continue
		}
		summary := result.Summary
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			return tx.Run(ctx, upsertArticleQuery, upsertParams(summary))
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "article upsert failed", "url", summary.URL, "error", err)
			if firstErr == nil {
				firstErr = classifyStoreError(err)
			}
			continue
		}
		stored++
	}

	return stored, firstErr
}

func upsertParams(summary *domain.ArticleSummary) map[string]any {
	return map[string]any{
		"url":              summary.URL,
		"processed_at":     summary.ProcessedAt,
		"headline":         summary.Headline,
		"publication_date": summary.PublicationDate,
		"source":           summary.Source,
		"summary":          summary.Summary,
		"tokens_used":      int64(summary.TokensUsed()),
		"cost_usd":         float64(summary.CostNanoUSD) / 1e9,
	}
}

func (s *Store) session(ctx context.Context) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
}

func (s *Store) closeSession(ctx context.Context, session neo4j.SessionWithContext) {
	if err := session.Close(ctx); err != nil {
		s.logger.Error("failed to close neo4j session", "error", err)
	}
}

// classifyStoreError wraps connectivity failures in ErrStoreUnavailable.
func classifyStoreError(err error) error {
	if err == nil {
		return nil
	}
	if neo4j.IsConnectivityError(err) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("graph store operation failed: %w", err)
}
