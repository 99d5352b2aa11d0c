// Package usage maintains an append-only CSV ledger of token consumption,
// one row per successfully summarized article.
package usage

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"article-summarizer/config"
	"article-summarizer/domain"
	"article-summarizer/pricing"
)

var ledgerHeader = []string{"timestamp", "model", "prompt_tokens", "completion_tokens", "total_tokens", "cost_usd"}

// Ledger appends usage rows to a CSV file, writing the header once when the
// file is created. Writes are serialized so concurrent batches cannot
// interleave rows.
type Ledger struct {
	path   string
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex
}

// NewLedger creates a ledger writing to the configured file.
func NewLedger(cfg config.UsageConfig, logger *slog.Logger) *Ledger {
	return &Ledger{path: cfg.LogFile, logger: logger, now: time.Now}
}

// Record appends one row per successful result. Failures carry no token
// usage and are skipped.
func (l *Ledger) Record(model string, results []domain.ArticleResult) error {
	var rows [][]string
	timestamp := l.now().UTC().Format(time.RFC3339)
	for _, r := range results {
		if r.Failed() {
			continue
		}
		s := r.Summary
		rows = append(rows, []string{
			timestamp,
			model,
			strconv.Itoa(s.InputTokens),
			strconv.Itoa(s.OutputTokens),
			strconv.Itoa(s.TokensUsed()),
			pricing.Cost{NanoUSD: s.CostNanoUSD}.String(),
		})
	}
	if len(rows) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	needHeader, err := l.needsHeader()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open usage ledger: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			l.logger.Error("failed to close usage ledger", "error", err)
		}
	}()

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(ledgerHeader); err != nil {
			return fmt.Errorf("write ledger header: %w", err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write ledger row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush usage ledger: %w", err)
	}

	l.logger.Debug("usage recorded", "rows", len(rows), "path", l.path)
	return nil
}

// needsHeader reports whether the ledger file is missing or empty.
func (l *Ledger) needsHeader() (bool, error) {
	info, err := os.Stat(l.path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat usage ledger: %w", err)
	}
	return info.Size() == 0, nil
}
