package export

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"article-summarizer/config"
	"article-summarizer/domain"
)

func testResults() []domain.ArticleResult {
	processedAt := time.Date(2025, 2, 21, 12, 30, 0, 0, time.UTC)
	return []domain.ArticleResult{
		{
			URL: "https://example.com/one",
			Summary: &domain.ArticleSummary{
				ProcessedAt:     processedAt,
				URL:             "https://example.com/one",
				Headline:        "City Approves Budget",
				PublicationDate: "2025-02-21",
				Source:          "example.com",
				Summary:         "First summary.",
				InputTokens:     1000,
				OutputTokens:    200,
				CostNanoUSD:     270_000,
			},
		},
		{URL: "https://example.com/bad", FailureReason: "article fetch failed"},
		{
			URL: "https://example.com/two",
			Summary: &domain.ArticleSummary{
				ProcessedAt:     processedAt,
				URL:             "https://example.com/two",
				Headline:        "Council Votes, Again",
				PublicationDate: domain.UnknownDate,
				Source:          "example.com",
				Summary:         "Second summary.",
				InputTokens:     500,
				OutputTokens:    100,
				CostNanoUSD:     135_000,
			},
		},
	}
}

func newTestExporter(t *testing.T) (*Exporter, string) {
	t.Helper()
	dir := t.TempDir()
	e := NewExporter(config.ExportConfig{Dir: dir}, slog.New(slog.DiscardHandler))
	e.now = func() time.Time { return time.Date(2025, 2, 21, 13, 0, 0, 0, time.UTC) }
	return e, dir
}

func TestExporter_Save(t *testing.T) {
	t.Run("should write successes as plain text", func(t *testing.T) {
		e, dir := newTestExporter(t)

		path, err := e.Save(testResults(), FormatText)

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "summaries_20250221_130000.txt"), path)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		text := string(content)
		assert.Contains(t, text, "City Approves Budget")
		assert.Contains(t, text, "First summary.")
		assert.Contains(t, text, "Cost: $0.000270")
		assert.Contains(t, text, "Second summary.")
		assert.NotContains(t, text, "example.com/bad", "failed items must not be exported")
	})

	t.Run("should write successes as CSV with quoting intact", func(t *testing.T) {
		e, _ := newTestExporter(t)

		path, err := e.Save(testResults(), FormatCSV)

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(path, ".csv"))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3, "header plus two successes")
		assert.Equal(t, "processed_at", rows[0][0])
		assert.Equal(t, "https://example.com/one", rows[1][1])
		assert.Equal(t, "0.000270", rows[1][7])
		assert.Equal(t, "Council Votes, Again", rows[2][2])
		assert.Equal(t, "unknown", rows[2][3])
	})

	t.Run("should default to text format", func(t *testing.T) {
		e, _ := newTestExporter(t)

		path, err := e.Save(testResults(), "")

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(path, ".txt"))
	})

	t.Run("should skip writing when no item succeeded", func(t *testing.T) {
		e, dir := newTestExporter(t)

		path, err := e.Save([]domain.ArticleResult{
			{URL: "https://example.com/bad", FailureReason: "timeout"},
		}, FormatText)

		require.NoError(t, err)
		assert.Empty(t, path)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("should reject unsupported formats", func(t *testing.T) {
		e, _ := newTestExporter(t)

		_, err := e.Save(testResults(), "xml")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported export format")
	})
}
