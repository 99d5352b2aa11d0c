// Package export writes batch results to timestamped files on disk, as
// plain text or CSV. Only successful summaries are exported.
package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"article-summarizer/config"
	"article-summarizer/domain"
	"article-summarizer/pricing"
)

// Supported output formats.
const (
	FormatText = "txt"
	FormatCSV  = "csv"
)

const fileTimestampLayout = "20060102_150405"

// Exporter saves batch results under a configured directory.
type Exporter struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewExporter creates an exporter writing into the configured directory.
func NewExporter(cfg config.ExportConfig, logger *slog.Logger) *Exporter {
	return &Exporter{dir: cfg.Dir, logger: logger, now: time.Now}
}

// Save writes the successful results to summaries_<timestamp>.<ext> and
// returns the file path. An empty format means text. When the batch holds
// no successes nothing is written and the path is empty.
func (e *Exporter) Save(results []domain.ArticleResult, format string) (string, error) {
	summaries := successes(results)
	if len(summaries) == 0 {
		e.logger.Info("nothing to export, batch had no successful summaries")
		return "", nil
	}

	if format == "" {
		format = FormatText
	}

	var content []byte
	var err error
	switch format {
	case FormatText:
		content = []byte(renderText(summaries))
	case FormatCSV:
		content, err = renderCSV(summaries)
	default:
		return "", fmt.Errorf("unsupported export format: %q", format)
	}
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("summaries_%s.%s", e.now().Format(fileTimestampLayout), format)
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}

	e.logger.Info("batch exported", "path", path, "articles", len(summaries), "format", format)
	return path, nil
}

func successes(results []domain.ArticleResult) []*domain.ArticleSummary {
	var out []*domain.ArticleSummary
	for _, r := range results {
		if !r.Failed() {
			out = append(out, r.Summary)
		}
	}
	return out
}

func renderText(summaries []*domain.ArticleSummary) string {
	var b strings.Builder
	separator := strings.Repeat("=", 80)

	for i, s := range summaries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(separator + "\n")
		fmt.Fprintf(&b, "URL: %s\n", s.URL)
		fmt.Fprintf(&b, "Headline: %s\n", s.Headline)
		fmt.Fprintf(&b, "Date: %s\n", s.PublicationDate)
		fmt.Fprintf(&b, "Source: %s\n", s.Source)
		fmt.Fprintf(&b, "Tokens: %d | Cost: $%s\n", s.TokensUsed(), costString(s))
		b.WriteString(separator + "\n\n")
		b.WriteString(s.Summary)
		b.WriteString("\n")
	}

	return b.String()
}

func renderCSV(summaries []*domain.ArticleSummary) ([]byte, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	header := []string{"processed_at", "url", "headline", "publication_date", "source", "summary", "tokens_used", "cost_usd"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range summaries {
		row := []string{
			s.ProcessedAt.Format(time.RFC3339),
			s.URL,
			s.Headline,
			s.PublicationDate,
			s.Source,
			s.Summary,
			strconv.Itoa(s.TokensUsed()),
			costString(s),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return []byte(buf.String()), nil
}

func costString(s *domain.ArticleSummary) string {
	return pricing.Cost{NanoUSD: s.CostNanoUSD}.String()
}
