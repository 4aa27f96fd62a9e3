package allocate

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchItem is the outcome for one file of a batch. Exactly one of Result
// and Err is set.
type BatchItem struct {
	Path   string
	Result *Result
	Err    error
}

// Batch allocates several files concurrently. Files are independent: a
// failing file is reported in its item and does not stop the others. Items
// are returned in the order of paths. The returned error is only set when
// ctx is done before every file was processed.
func (a *Allocator) Batch(ctx context.Context, paths []string) ([]BatchItem, error) {
	items := make([]BatchItem, len(paths))

	limit := a.config.Concurrency
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		items[i].Path = path

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}

			res, err := a.AllocateFile(gctx, path)
			if err != nil {
				a.log.Warn("batch item failed", zap.String("source", path), zap.Error(err))
				items[i].Err = err

				return nil
			}

			items[i].Result = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return items, err
	}

	return items, ctx.Err()
}
