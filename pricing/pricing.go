// Package pricing holds the static model pricing table and computes
// per-article costs. Costs are carried as integer nano-USD so that a batch
// total always equals the sum of its parts to the six decimal places the
// API reports, with no float accumulation drift.
package pricing

import (
	"fmt"
	"math"

	"article-summarizer/domain"
)

// DefaultModel is used when a batch request does not name a model.
const DefaultModel = "gpt-4o-mini"

const nanoPerUSD = 1_000_000_000

// ModelPricing is one pricing table entry. Prices are USD per million
// tokens, the unit providers publish.
type ModelPricing struct {
	ID                  string  `json:"id"`
	InputPerMillionUSD  float64 `json:"input_per_million_usd"`
	OutputPerMillionUSD float64 `json:"output_per_million_usd"`
}

// Cost is an exact monetary amount in nano-USD.
type Cost struct {
	NanoUSD int64
}

// Add returns the exact sum of two costs.
func (c Cost) Add(other Cost) Cost {
	return Cost{NanoUSD: c.NanoUSD + other.NanoUSD}
}

// USD converts to a float for reporting. Safe for any realistic batch:
// nano-USD totals stay far below float64's 2^53 integer range.
func (c Cost) USD() float64 {
	return float64(c.NanoUSD) / nanoPerUSD
}

// String renders the cost with six decimal places, e.g. "0.000145".
func (c Cost) String() string {
	nano := c.NanoUSD
	sign := ""
	if nano < 0 {
		sign = "-"
		nano = -nano
	}
	// Round half-up from nano to micro so the display matches the stored value.
	micro := (nano + 500) / 1000
	return fmt.Sprintf("%s%d.%06d", sign, micro/1_000_000, micro%1_000_000)
}

// Table is an immutable pricing table, loaded once at construction and
// injected wherever costs are computed.
type Table struct {
	models      []ModelPricing
	perTokenIn  map[string]int64 // nano-USD per input token
	perTokenOut map[string]int64 // nano-USD per output token
}

// NewTable builds the default pricing table.
func NewTable() *Table {
	return NewTableWith([]ModelPricing{
		{ID: "gpt-5-nano", InputPerMillionUSD: 0.05, OutputPerMillionUSD: 0.40},
		{ID: "gpt-4o-mini", InputPerMillionUSD: 0.15, OutputPerMillionUSD: 0.60},
		{ID: "gpt-4o", InputPerMillionUSD: 2.50, OutputPerMillionUSD: 10.00},
	})
}

// NewTableWith builds a table from explicit entries, preserving their order
// for listing.
func NewTableWith(models []ModelPricing) *Table {
	t := &Table{
		models:      models,
		perTokenIn:  make(map[string]int64, len(models)),
		perTokenOut: make(map[string]int64, len(models)),
	}
	for _, m := range models {
		// USD per million tokens -> nano-USD per token is a factor of 1000.
		t.perTokenIn[m.ID] = int64(math.Round(m.InputPerMillionUSD * 1000))
		t.perTokenOut[m.ID] = int64(math.Round(m.OutputPerMillionUSD * 1000))
	}
	return t
}

// Known reports whether the model has a pricing entry.
func (t *Table) Known(model string) bool {
	_, ok := t.perTokenIn[model]
	return ok
}

// Cost computes the exact cost of a token count pair. Unknown models fail
// with domain.ErrUnknownModel; callers decide fallback policy.
func (t *Table) Cost(model string, inputTokens, outputTokens int) (Cost, error) {
	in, ok := t.perTokenIn[model]
	if !ok {
		return Cost{}, fmt.Errorf("%w: %q", domain.ErrUnknownModel, model)
	}
	out := t.perTokenOut[model]

	return Cost{NanoUSD: int64(inputTokens)*in + int64(outputTokens)*out}, nil
}

// Models lists all entries in table order, for discovery endpoints.
func (t *Table) Models() []ModelPricing {
	out := make([]ModelPricing, len(t.models))
	copy(out, t.models)
	return out
}
