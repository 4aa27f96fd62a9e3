package allocate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"topic-allocator/internal/assign"
	"topic-allocator/internal/matrix"
	"topic-allocator/internal/table"
)

// ErrInvalidTable is returned when a table fails structural validation.
var ErrInvalidTable = errors.New("allocate: invalid table")

// Config holds configuration for allocation requests.
type Config struct {
	// Read controls how files are parsed by AllocateFile and Batch.
	Read table.Options
	// Concurrency bounds the number of files Batch solves at once (0 = 1).
	Concurrency int
}

// DefaultConfig returns the default allocation configuration.
func DefaultConfig() Config {
	return Config{
		Read:        table.DefaultOptions(),
		Concurrency: 4,
	}
}

// Allocator runs the read → validate → normalize → solve pipeline. It keeps
// no state between requests; a failed request returns no partial result.
type Allocator struct {
	config Config
	log    *zap.Logger
}

// NewAllocator creates a new Allocator. A nil logger disables logging.
func NewAllocator(config Config, log *zap.Logger) *Allocator {
	if log == nil {
		log = zap.NewNop()
	}

	return &Allocator{config: config, log: log}
}

// AllocateFile reads the table at path and allocates it.
func (a *Allocator) AllocateFile(ctx context.Context, path string) (*Result, error) {
	t, err := table.ReadFile(path, a.config.Read)
	if err != nil {
		return nil, err
	}

	return a.Allocate(ctx, t, path)
}

// Allocate validates and normalizes t, solves the assignment and maps the
// result back to labels. source only annotates the result and logs.
func (a *Allocator) Allocate(ctx context.Context, t *table.RawTable, source string) (*Result, error) {
	log := a.log.With(zap.String("source", source))

	diags := table.Validate(t, source)
	if diags.HasErrors() {
		log.Warn("table rejected", zap.Int("errors", len(diags.Errors)))
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, diags.Err())
	}

	m, err := matrix.Normalize(t)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s: %w", source, err)
	}

	log.Debug("table normalized",
		zap.Int("rows", m.Rows()),
		zap.Int("cols", m.Cols()),
		zap.Int("filled", m.Filled()),
		zap.Float64("fill", m.Fill()))

	start := time.Now()

	asg, err := assign.SolveContext(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("failed to solve %s: %w", source, err)
	}

	res := NewResult(source, m, asg)
	res.Diagnostics.Merge(*diags)

	fields := []zap.Field{
		zap.Int("pairs", len(asg)),
		zap.Float64("total", asg.Total()),
		zap.Duration("elapsed", time.Since(start)),
	}
	if mean, ok := assign.MeanCost(asg); ok {
		fields = append(fields, zap.Float64("mean", mean))
	}

	log.Info("allocation complete", fields...)

	return res, nil
}
