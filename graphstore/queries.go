package graphstore

import (
	"context"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"article-summarizer/domain"
)

// defaultQueryLimit caps article reads when the caller does not set one.
const defaultQueryLimit = 50

const sourcesQuery = `
MATCH (s:Source)
OPTIONAL MATCH (a:Article)-[:PUBLISHED_BY]->(s)
RETURN s.name AS name, count(a) AS article_count
ORDER BY article_count DESC, name ASC`

const statisticsQuery = `
MATCH (a:Article)
RETURN count(a) AS total_articles,
       coalesce(sum(a.tokens_used), 0) AS total_tokens,
       coalesce(sum(a.cost_usd), 0.0) AS total_cost`

// buildArticlesQuery renders the filtered read. Filters compose
// conjunctively; date bounds compare ISO dates lexicographically and
// exclude articles whose publication date is unknown.
func buildArticlesQuery(q domain.ArticleQuery) (string, map[string]any) {
	var clauses []string
	params := map[string]any{}

	if q.Source != "" {
		clauses = append(clauses, "a.source = $source")
		params["source"] = q.Source
	}
	if q.DateFrom != "" || q.DateTo != "" {
		clauses = append(clauses, "a.publication_date <> $unknown_date")
		params["unknown_date"] = domain.UnknownDate
	}
	if q.DateFrom != "" {
		clauses = append(clauses, "a.publication_date >= $date_from")
		params["date_from"] = q.DateFrom
	}
	if q.DateTo != "" {
		clauses = append(clauses, "a.publication_date <= $date_to")
		params["date_to"] = q.DateTo
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	params["limit"] = limit

	var b strings.Builder
	b.WriteString("MATCH (a:Article)")
	if len(clauses) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(clauses, " AND "))
	}
	b.WriteString(`
RETURN a.processed_at AS processed_at,
       a.url AS url,
       a.headline AS headline,
       a.publication_date AS publication_date,
       a.source AS source,
       a.summary AS summary,
       a.tokens_used AS tokens_used,
       a.cost_usd AS cost_usd
ORDER BY a.processed_at DESC
LIMIT $limit`)

	return b.String(), params
}

// GetArticles returns stored articles matching the query, newest first.
func (s *Store) GetArticles(ctx context.Context, q domain.ArticleQuery) ([]domain.ArticleRecord, error) {
	cypher, params := buildArticlesQuery(q)

	session := s.session(ctx)
	defer s.closeSession(ctx, session)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, classifyStoreError(err)
	}

	rows := records.([]*neo4j.Record)
	articles := make([]domain.ArticleRecord, 0, len(rows))
	for _, row := range rows {
		articles = append(articles, articleFromRecord(row.AsMap()))
	}
	return articles, nil
}

// GetSources returns every Source node with its live article count,
// including sources whose articles have all been relinked away.
func (s *Store) GetSources(ctx context.Context) ([]domain.SourceCount, error) {
	session := s.session(ctx)
	defer s.closeSession(ctx, session)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, sourcesQuery, nil)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, classifyStoreError(err)
	}

	rows := records.([]*neo4j.Record)
	sources := make([]domain.SourceCount, 0, len(rows))
	for _, row := range rows {
		values := row.AsMap()
		sources = append(sources, domain.SourceCount{
			Name:         asString(values["name"]),
			ArticleCount: asInt64(values["article_count"]),
		})
	}
	return sources, nil
}

// GetStatistics computes corpus-wide aggregates from a live scan.
func (s *Store) GetStatistics(ctx context.Context) (domain.Statistics, error) {
	session := s.session(ctx)
	defer s.closeSession(ctx, session)

	record, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, statisticsQuery, nil)
		if err != nil {
			return nil, err
		}
		return result.Single(ctx)
	})
	if err != nil {
		return domain.Statistics{}, classifyStoreError(err)
	}

	values := record.(*neo4j.Record).AsMap()
	stats := statisticsFromValues(values)
	return stats, nil
}

// statisticsFromValues derives the aggregate struct, computing the average
// in Go so an empty corpus yields zero instead of a division error.
func statisticsFromValues(values map[string]any) domain.Statistics {
	stats := domain.Statistics{
		TotalArticles: asInt64(values["total_articles"]),
		TotalTokens:   asInt64(values["total_tokens"]),
		TotalCostUSD:  asFloat64(values["total_cost"]),
	}
	if stats.TotalArticles > 0 {
		stats.AvgCostPerArticle = stats.TotalCostUSD / float64(stats.TotalArticles)
	}
	return stats
}

func articleFromRecord(values map[string]any) domain.ArticleRecord {
	return domain.ArticleRecord{
		ProcessedAt:     asTime(values["processed_at"]),
		URL:             asString(values["url"]),
		Headline:        asString(values["headline"]),
		PublicationDate: asString(values["publication_date"]),
		Source:          asString(values["source"]),
		Summary:         asString(values["summary"]),
		TokensUsed:      asInt64(values["tokens_used"]),
		CostUSD:         asFloat64(values["cost_usd"]),
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func asFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
