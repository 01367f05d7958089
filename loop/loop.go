package loop

import (
	"container/heap"
	"context"
	"errors"
	"time"

	"github.com/eapache/queue"
	"github.com/rs/zerolog"

	"github.com/NetPo4ki/go-fanbench/scope"
)

var (
	ErrRunning = errors.New("loop: already running")
	// ErrPending is returned by Await when the loop drained without
	// settling the awaited future.
	ErrPending = errors.New("loop: future still pending after loop drained")
)

type Option func(*Loop)

// WithObserver reports Run as a scope lifecycle and every Spawn as a task.
func WithObserver(obs scope.Observer) Option { return func(l *Loop) { l.obs = obs } }

func WithLogger(log zerolog.Logger) Option { return func(l *Loop) { l.log = log } }

type Loop struct {
	ready   *queue.Queue
	timers  timerHeap
	seq     uint64
	running bool
	ctx     context.Context

	obs scope.Observer
	log zerolog.Logger
}

func New(opts ...Option) *Loop {
	l := &Loop{ready: queue.New(), ctx: context.Background(), log: zerolog.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Call schedules fn to run on the loop after every callback already queued.
func (l *Loop) Call(fn func()) {
	l.ready.Add(fn)
}

// After schedules fn to run on the loop once d has elapsed. Timers due at
// the same instant fire in the order they were armed.
func (l *Loop) After(d time.Duration, fn func()) {
	l.seq++
	heap.Push(&l.timers, &timer{when: time.Now().Add(max(d, 0)), seq: l.seq, fn: fn})
}

// Pending reports the number of queued callbacks and armed timers.
func (l *Loop) Pending() int { return l.ready.Length() + l.timers.Len() }

// Run drives the loop until no callback or timer remains, ctx is done, or a
// callback panics. A panic is returned as *scope.PanicError.
func (l *Loop) Run(ctx context.Context) (err error) {
	if l.running {
		return ErrRunning
	}
	l.running = true
	l.ctx = ctx
	defer func() {
		l.running = false
	}()
	defer func() {
		if r := recover(); r != nil {
			err = scope.NewPanicError(r)
		}
		if err != nil && l.obs != nil {
			l.obs.ScopeCancelled(ctx, err)
		}
	}()

	start := time.Now()
	if l.obs != nil {
		l.obs.ScopeCreated(ctx)
	}
	ticks := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		for l.ready.Length() > 0 {
			l.ready.Remove().(func())()
		}
		if l.timers.Len() == 0 {
			break
		}
		if wait := time.Until(l.timers[0].when); wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			}
		}
		ticks++
		now := time.Now()
		for l.timers.Len() > 0 && !l.timers[0].when.After(now) {
			l.ready.Add(heap.Pop(&l.timers).(*timer).fn)
		}
	}
	l.log.Debug().Int("ticks", ticks).Dur("elapsed", time.Since(start)).Msg("loop drained")
	if l.obs != nil {
		l.obs.ScopeJoined(ctx, time.Since(start))
	}
	return nil
}

func (l *Loop) taskStarted() {
	if l.obs != nil {
		l.obs.TaskStarted(l.ctx)
	}
}

func (l *Loop) taskFinished(d time.Duration, err error) {
	if l.obs != nil {
		l.obs.TaskFinished(l.ctx, d, err, false)
	}
}

type timer struct {
	when time.Time
	seq  uint64
	fn   func()
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(*timer)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
