package bench

import (
	"context"
	"slices"
	"time"

	"github.com/NetPo4ki/go-fanbench/delay"
	apperrors "github.com/NetPo4ki/go-fanbench/internal/errors"
	"github.com/NetPo4ki/go-fanbench/loop"
	"github.com/NetPo4ki/go-fanbench/pool"
)

// TaskDelay records one simulated I/O task.
type TaskDelay struct {
	Task int
	// Worker is the pool worker that ran the task; always 0 on the loop.
	Worker int
	// Delay is the sampled wait, Actual the time the task really waited.
	Delay  time.Duration
	Actual time.Duration
}

// DelayResult is the outcome of an I/O simulation.
type DelayResult struct {
	Tasks   int
	Workers int
	Delays  []TaskDelay // ordered by task
	// Theoretical is the sum of every sampled delay, the time a sequential
	// run would take.
	Theoretical time.Duration
	Elapsed     time.Duration
}

func sample(s delay.Sampler, n int) []time.Duration {
	ds := make([]time.Duration, n)
	for i := range ds {
		ds[i] = s.Sample()
	}
	return ds
}

// RunCooperative waits tasks sampled delays concurrently on a single
// goroutine event loop.
func RunCooperative(ctx context.Context, tasks int, sampler delay.Sampler, opts ...Option) (DelayResult, error) {
	if tasks <= 0 {
		return DelayResult{}, apperrors.NewConfigError("tasks", apperrors.MsgTasks)
	}
	if err := ctx.Err(); err != nil {
		return DelayResult{}, err
	}
	o := buildOptions(opts)
	l := loop.New(loop.WithObserver(o.observer), loop.WithLogger(o.logger))
	delays := sample(sampler, tasks)

	start := time.Now()
	futures := make([]*loop.Future[TaskDelay], tasks)
	for i, d := range delays {
		futures[i] = loop.Spawn(l, func() *loop.Future[TaskDelay] {
			began := time.Now()
			return loop.Then(loop.Sleep(l, d), func(struct{}) (TaskDelay, error) {
				o.logger.Debug().Int("task", i).Dur("delay", d).Msg("task done")
				return TaskDelay{Task: i, Delay: d, Actual: time.Since(began)}, nil
			})
		})
	}
	done, err := loop.Await(ctx, l, loop.Gather(l, futures...))
	elapsed := time.Since(start)
	if err != nil {
		return DelayResult{}, err
	}
	return DelayResult{
		Tasks:       tasks,
		Workers:     1,
		Delays:      done,
		Theoretical: delay.Sum(delays),
		Elapsed:     elapsed,
	}, nil
}

// RunPool waits tasks sampled delays on workers goroutines, each task
// blocking its worker for the whole delay.
func RunPool(ctx context.Context, tasks, workers int, sampler delay.Sampler, opts ...Option) (DelayResult, error) {
	if workers <= 0 {
		return DelayResult{}, apperrors.NewConfigError("workers", apperrors.MsgWorkers)
	}
	if tasks <= 0 {
		return DelayResult{}, apperrors.NewConfigError("tasks", apperrors.MsgTasks)
	}
	if err := ctx.Err(); err != nil {
		return DelayResult{}, err
	}
	o := buildOptions(opts)
	p := pool.New[time.Duration, time.Duration](
		pool.WithWorkers(workers),
		pool.WithObserver(o.observer),
		pool.WithLogger(o.logger),
	)
	delays := sample(sampler, tasks)

	start := time.Now()
	results, err := p.Process(ctx, delays, sleep)
	elapsed := time.Since(start)
	if err != nil {
		return DelayResult{}, err
	}

	out := make([]TaskDelay, 0, len(results))
	for _, r := range results {
		out = append(out, TaskDelay{Task: r.Index, Worker: r.Worker, Delay: delays[r.Index], Actual: r.Value})
		o.logger.Debug().Int("task", r.Index).Int("worker", r.Worker).Dur("delay", delays[r.Index]).Msg("task done")
	}
	sortByTask(out)
	return DelayResult{
		Tasks:       tasks,
		Workers:     workers,
		Delays:      out,
		Theoretical: delay.Sum(delays),
		Elapsed:     elapsed,
	}, nil
}

// sleep blocks for d unless ctx is done first.
func sleep(ctx context.Context, d time.Duration) (time.Duration, error) {
	start := time.Now()
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return time.Since(start), nil
	case <-ctx.Done():
		return time.Since(start), ctx.Err()
	}
}

// sortByTask orders delays by task index.
func sortByTask(ds []TaskDelay) {
	slices.SortFunc(ds, func(a, b TaskDelay) int { return a.Task - b.Task })
}
