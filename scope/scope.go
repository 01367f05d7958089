package scope

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"
)

type Option func(*Options)

type Options struct {
	Observer       Observer
	MaxConcurrency int
}

func WithObserver(obs Observer) Option { return func(o *Options) { o.Observer = obs } }

// WithMaxConcurrency bounds the number of tasks running at once. Tasks over
// the bound wait for a slot; n <= 0 means unbounded.
func WithMaxConcurrency(n int) Option { return func(o *Options) { o.MaxConcurrency = n } }

// PanicError carries a recovered panic value and the stack of the goroutine
// that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

// NewPanicError captures the current goroutine stack. Call it from the
// deferred function that recovered v.
func NewPanicError(v any) *PanicError {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return &PanicError{Value: v, Stack: buf[:n]}
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Scope owns the goroutines started with Go. The first error or panic
// cancels the scope context so siblings can stop early.
type Scope struct {
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	firstErr error
	canceled bool

	obs Observer
	lim Limiter
}

// New creates a Scope whose context derives from parent.
func New(parent context.Context, optFns ...Option) *Scope {
	if parent == nil {
		parent = context.Background()
	}
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	ctx, cancel := context.WithCancel(parent)
	s := &Scope{ctx: ctx, cancel: cancel, obs: opts.Observer}
	if opts.MaxConcurrency > 0 {
		s.lim = newSemaphoreLimiter(opts.MaxConcurrency)
	}
	if s.obs != nil {
		s.obs.ScopeCreated(ctx)
	}
	return s
}

func (s *Scope) Context() context.Context { return s.ctx }

// Go runs fn in a new goroutine owned by the scope.
func (s *Scope) Go(fn func(ctx context.Context) error) {
	if fn == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if s.lim != nil {
			if err := s.lim.Acquire(s.ctx); err != nil {
				s.fail(err)
				return
			}
			defer s.lim.Release()
		}

		var start time.Time
		if s.obs != nil {
			start = time.Now()
			s.obs.TaskStarted(s.ctx)
		}

		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err := NewPanicError(r)
			s.fail(err)
			if s.obs != nil {
				s.obs.TaskFinished(s.ctx, time.Since(start), err, true)
			}
		}()

		err := fn(s.ctx)
		if err != nil {
			s.fail(err)
		}
		if s.obs != nil {
			s.obs.TaskFinished(s.ctx, time.Since(start), err, false)
		}
	}()
}

// Cancel cancels the scope context. The first non-nil err becomes the
// error reported by Wait. Cancel is idempotent.
func (s *Scope) Cancel(err error) {
	s.mu.Lock()
	wasCanceled := s.canceled
	s.canceled = true
	if s.firstErr == nil && err != nil {
		s.firstErr = err
	}
	cause := s.firstErr
	s.mu.Unlock()

	s.cancel()
	if !wasCanceled && s.obs != nil {
		s.obs.ScopeCancelled(s.ctx, cause)
	}
}

// Wait blocks until every goroutine started with Go has returned and then
// releases the scope context. It returns the first error recorded.
func (s *Scope) Wait() error {
	var start time.Time
	if s.obs != nil {
		start = time.Now()
	}
	s.wg.Wait()
	s.cancel()
	if s.obs != nil {
		s.obs.ScopeJoined(s.ctx, time.Since(start))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstErr
}

func (s *Scope) fail(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	if s.firstErr == nil {
		s.firstErr = err
	}
	cause := s.firstErr
	s.mu.Unlock()
	s.Cancel(cause)
}
