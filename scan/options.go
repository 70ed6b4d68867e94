package scan

import (
	"github.com/albertxli/ambers/errs"
	"github.com/albertxli/ambers/internal/options"
)

// defaultBatchSize is used when no WithBatchSize option is given.
const defaultBatchSize = 65536

// config collects Open's functional options before a Scanner exists,
// mirroring the teacher's NumericEncoderConfig pattern: options mutate
// config, then Open builds the Scanner from the fully-applied result.
type config struct {
	batchSize  int
	projection []string
	rowLimit   *int
}

// Option configures a Scanner at Open time.
type Option = options.Option[*config]

// WithBatchSize sets the row count returned by each NextBatch call.
func WithBatchSize(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return errs.InvalidVariableErr("batch size must be positive")
		}
		c.batchSize = n

		return nil
	})
}

// WithProjection restricts reads to the named columns, in the given
// order.
func WithProjection(columns []string) Option {
	return options.NoError(func(c *config) {
		c.projection = columns
	})
}

// WithLimit stops reading after n rows total.
func WithLimit(n int) Option {
	return options.NoError(func(c *config) {
		c.rowLimit = &n
	})
}

func newConfig() *config {
	return &config{batchSize: defaultBatchSize}
}
