// Package pool runs a slice of independent tasks on a fixed set of worker
// goroutines that pull from one shared queue.
//
// Workers are started when Process is called and torn down before it
// returns. Results are delivered in completion order; each carries the
// index of the task that produced it. The first error or panic cancels the
// remaining work and is returned as is, with no partial results.
package pool

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/NetPo4ki/go-fanbench/scope"
)

// Func processes a single task.
type Func[T, R any] func(ctx context.Context, task T) (R, error)

// Result is the outcome of one task.
type Result[R any] struct {
	Value   R
	Index   int           // position of the task in the input slice
	Worker  int           // worker that ran the task
	Elapsed time.Duration // time spent inside Func
}

// Option configures a Pool.
type Option func(*config)

type config struct {
	workers   int
	queueSize int
	observer  scope.Observer
	logger    zerolog.Logger
}

// WithWorkers sets the number of workers. Values <= 0 are ignored and the
// default runtime.GOMAXPROCS(0) is kept.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithQueueSize sets the buffer of the shared task queue. It defaults to
// the worker count.
func WithQueueSize(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.queueSize = n
		}
	}
}

// WithObserver reports one TaskStarted/TaskFinished pair per task, plus the
// lifecycle of the scope that owns the workers.
func WithObserver(obs scope.Observer) Option {
	return func(c *config) { c.observer = obs }
}

// WithLogger sets the logger for worker start/stop and failure events.
// The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Pool runs tasks of type T producing results of type R. A Pool holds
// only configuration; workers exist for the duration of one Process call.
type Pool[T, R any] struct {
	workers   int
	queueSize int
	obs       scope.Observer
	log       zerolog.Logger
}

// New returns a pool configured by opts.
func New[T, R any](opts ...Option) *Pool[T, R] {
	cfg := config{workers: runtime.GOMAXPROCS(0), queueSize: -1, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.queueSize < 0 {
		cfg.queueSize = cfg.workers
	}
	return &Pool[T, R]{
		workers:   cfg.workers,
		queueSize: cfg.queueSize,
		obs:       cfg.observer,
		log:       cfg.logger,
	}
}

// Workers reports the number of worker goroutines Process starts.
func (p *Pool[T, R]) Workers() int { return p.workers }

type job[T any] struct {
	index int
	task  T
}

// Process feeds tasks to the workers and blocks until all of them finished
// or the first failure.
func (p *Pool[T, R]) Process(ctx context.Context, tasks []T, fn Func[T, R]) ([]Result[R], error) {
	var opts []scope.Option
	if p.obs != nil {
		opts = append(opts, scope.WithObserver(scopeEvents{p.obs}))
	}
	s := scope.New(ctx, opts...)
	queue := make(chan job[T], p.queueSize)
	// Sized so a worker never blocks on delivery.
	results := make(chan Result[R], len(tasks))

	s.Go(func(ctx context.Context) error {
		defer close(queue)
		for i, t := range tasks {
			select {
			case queue <- job[T]{index: i, task: t}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := range p.workers {
		s.Go(func(ctx context.Context) error {
			return p.work(ctx, w, queue, results, fn)
		})
	}

	err := s.Wait()
	close(results)
	if err != nil {
		p.log.Debug().Err(err).Msg("pool run failed")
		return nil, err
	}

	out := make([]Result[R], 0, len(tasks))
	for r := range results {
		out = append(out, r)
	}
	return out, nil
}

func (p *Pool[T, R]) work(ctx context.Context, id int, queue <-chan job[T], results chan<- Result[R], fn Func[T, R]) error {
	p.log.Debug().Int("worker", id).Msg("worker started")
	defer p.log.Debug().Int("worker", id).Msg("worker stopped")
	for {
		select {
		case j, ok := <-queue:
			if !ok {
				return nil
			}
			r, err := p.run(ctx, id, j, fn)
			if err != nil {
				return err
			}
			results <- r
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Pool[T, R]) run(ctx context.Context, id int, j job[T], fn Func[T, R]) (r Result[R], err error) {
	start := time.Now()
	if p.obs != nil {
		p.obs.TaskStarted(ctx)
		defer func() {
			rec := recover()
			if rec != nil {
				p.obs.TaskFinished(ctx, time.Since(start), scope.NewPanicError(rec), true)
				panic(rec)
			}
			p.obs.TaskFinished(ctx, r.Elapsed, err, false)
		}()
	}
	v, err := fn(ctx, j.task)
	r = Result[R]{Value: v, Index: j.index, Worker: id, Elapsed: time.Since(start)}
	return r, err
}

// scopeEvents forwards only scope lifecycle events; per-goroutine task
// events would count workers instead of tasks.
type scopeEvents struct {
	obs scope.Observer
}

func (e scopeEvents) ScopeCreated(ctx context.Context) { e.obs.ScopeCreated(ctx) }

func (e scopeEvents) ScopeCancelled(ctx context.Context, cause error) {
	e.obs.ScopeCancelled(ctx, cause)
}

func (e scopeEvents) ScopeJoined(ctx context.Context, wait time.Duration) {
	e.obs.ScopeJoined(ctx, wait)
}

func (scopeEvents) TaskStarted(context.Context) {}

func (scopeEvents) TaskFinished(context.Context, time.Duration, error, bool) {}
