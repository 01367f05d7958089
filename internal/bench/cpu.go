package bench

import (
	"context"
	"time"

	apperrors "github.com/NetPo4ki/go-fanbench/internal/errors"
	"github.com/NetPo4ki/go-fanbench/partition"
	"github.com/NetPo4ki/go-fanbench/scope"
)

// Partial is the sum computed for one range.
type Partial struct {
	Range   partition.Range
	Sum     int64
	Elapsed time.Duration
}

// CPUResult is the outcome of a CPU fan-out.
type CPUResult struct {
	Workers int
	Size    int64
	// Covered is the number of elements actually summed; see partition.Split.
	Covered  int64
	Partials []Partial // ordered by range start
	Sum      int64
	Mean     float64
	Elapsed  time.Duration
}

// RunCPU sums (i+1) over [0, size). Each range runs in its own scoped
// goroutine, and at most workers of them hold a slot at once.
func RunCPU(ctx context.Context, workers int, size int64, opts ...Option) (CPUResult, error) {
	if workers <= 0 {
		return CPUResult{}, apperrors.NewConfigError("workers", apperrors.MsgWorkers)
	}
	ranges, err := partition.Split(size, int64(workers))
	if err != nil {
		return CPUResult{}, apperrors.NewConfigError("size", "%v", err)
	}
	if err := ctx.Err(); err != nil {
		return CPUResult{}, err
	}
	o := buildOptions(opts)
	s := scope.New(ctx, scope.WithMaxConcurrency(workers), scope.WithObserver(o.observer))

	partials := make([]Partial, len(ranges))
	start := time.Now()
	for i, r := range ranges {
		s.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			began := time.Now()
			partials[i] = Partial{Range: r, Sum: partition.PartialSum(r), Elapsed: time.Since(began)}
			o.logger.Debug().Stringer("range", r).Int64("sum", partials[i].Sum).Msg("partial done")
			return nil
		})
	}
	err = s.Wait()
	elapsed := time.Since(start)
	if err != nil {
		o.logger.Debug().Err(err).Msg("cpu fan-out failed")
		return CPUResult{}, err
	}

	res := CPUResult{
		Workers:  workers,
		Size:     size,
		Covered:  partition.Covered(size, int64(workers)),
		Partials: partials,
		Elapsed:  elapsed,
	}
	for _, p := range partials {
		res.Sum += p.Sum
	}
	if size > 0 {
		res.Mean = float64(res.Sum) / float64(size)
	}
	return res, nil
}
