package dataset

import (
	"context"

	"go.uber.org/multierr"

	"github.com/angelmondragon/orderinsights/internal/analytics/engine"
)

// maxReportedIssues caps the row errors kept on a Batch.
const maxReportedIssues = 25

// Source loads the raw order lines of one backend.
type Source interface {
	Name() string
	Load(ctx context.Context, policy CustomerKeyPolicy) (*Batch, error)
}

// Batch is the outcome of one source load. Rows that could not be turned
// into records are counted in Skipped; the first few reasons are kept in
// Issues.
type Batch struct {
	Records []engine.OrderRecord
	Skipped int
	Issues  error
}

type collector struct {
	builder builder
	batch   Batch
}

func newCollector(policy CustomerKeyPolicy) *collector {
	return &collector{builder: builder{policy: policy}}
}

func (c *collector) add(line int, raw rawRecord) {
	record, err := c.builder.build(line, raw)
	if err != nil {
		c.skip(err)
		return
	}
	c.batch.Records = append(c.batch.Records, record)
}

func (c *collector) skip(err error) {
	c.batch.Skipped++
	if c.batch.Skipped <= maxReportedIssues {
		c.batch.Issues = multierr.Append(c.batch.Issues, err)
	}
}

func (c *collector) result() *Batch {
	out := c.batch
	return &out
}
