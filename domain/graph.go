package domain

import "time"

// ArticleRecord is an Article node read back from the graph together with
// the name of the Source it is published by.
type ArticleRecord struct {
	ProcessedAt     time.Time `json:"processed_at"`
	URL             string    `json:"url"`
	Headline        string    `json:"headline"`
	PublicationDate string    `json:"publication_date"`
	Source          string    `json:"source"`
	Summary         string    `json:"summary"`
	TokensUsed      int64     `json:"tokens_used"`
	CostUSD         float64   `json:"cost_usd"`
}

// ArticleQuery filters a graph read. Zero values impose no constraint;
// filters compose conjunctively. Limit of 0 means the default (50).
type ArticleQuery struct {
	Source   string
	DateFrom string
	DateTo   string
	Limit    int
}

// SourceCount pairs a Source node with its live PUBLISHED_BY count.
type SourceCount struct {
	Name         string `json:"name"`
	ArticleCount int64  `json:"article_count"`
}

// Statistics are aggregates computed from live node scans, never from
// separately maintained counters.
type Statistics struct {
	TotalArticles     int64   `json:"total_articles"`
	TotalTokens       int64   `json:"total_tokens"`
	TotalCostUSD      float64 `json:"total_cost"`
	AvgCostPerArticle float64 `json:"avg_cost_per_article"`
}
