package loop

import "time"

// Future is a value that a loop callback settles exactly once.
type Future[T any] struct {
	loop    *Loop
	done    bool
	value   T
	err     error
	waiters []func(T, error)
}

func NewFuture[T any](l *Loop) *Future[T] {
	return &Future[T]{loop: l}
}

// Resolve settles f with v. It reports false if f was already settled.
func (f *Future[T]) Resolve(v T) bool { return f.settle(v, nil) }

// Reject settles f with err. It reports false if f was already settled.
func (f *Future[T]) Reject(err error) bool {
	var zero T
	return f.settle(zero, err)
}

func (f *Future[T]) Done() bool { return f.done }

// Result returns the settled value. It is only meaningful once Done.
func (f *Future[T]) Result() (T, error) { return f.value, f.err }

// OnDone registers fn to run on the loop after f settles. fn never runs
// synchronously inside OnDone or inside Resolve/Reject.
func (f *Future[T]) OnDone(fn func(T, error)) {
	if f.done {
		v, err := f.value, f.err
		f.loop.Call(func() { fn(v, err) })
		return
	}
	f.waiters = append(f.waiters, fn)
}

func (f *Future[T]) settle(v T, err error) bool {
	if f.done {
		return false
	}
	f.done, f.value, f.err = true, v, err
	waiters := f.waiters
	f.waiters = nil
	for _, w := range waiters {
		f.loop.Call(func() { w(v, err) })
	}
	return true
}

// Sleep returns a future that resolves once d has elapsed, without blocking
// the loop.
func Sleep(l *Loop, d time.Duration) *Future[struct{}] {
	f := NewFuture[struct{}](l)
	l.After(d, func() { f.Resolve(struct{}{}) })
	return f
}

// Then chains fn after f. A rejection of f skips fn and rejects the result.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	out := NewFuture[U](f.loop)
	f.OnDone(func(v T, err error) {
		if err != nil {
			out.Reject(err)
			return
		}
		u, err := fn(v)
		if err != nil {
			out.Reject(err)
			return
		}
		out.Resolve(u)
	})
	return out
}

// Spawn starts task on the next loop turn and returns a future mirroring
// the one task produces. Each Spawn is reported to the loop observer as a
// task.
func Spawn[T any](l *Loop, task func() *Future[T]) *Future[T] {
	out := NewFuture[T](l)
	l.Call(func() {
		start := time.Now()
		l.taskStarted()
		task().OnDone(func(v T, err error) {
			l.taskFinished(time.Since(start), err)
			if err != nil {
				out.Reject(err)
				return
			}
			out.Resolve(v)
		})
	})
	return out
}

// Gather resolves with every value in input order once all futures
// resolve, or rejects with the first error.
func Gather[T any](l *Loop, fs ...*Future[T]) *Future[[]T] {
	out := NewFuture[[]T](l)
	values := make([]T, len(fs))
	if len(fs) == 0 {
		out.Resolve(values)
		return out
	}
	remaining := len(fs)
	for i, f := range fs {
		f.OnDone(func(v T, err error) {
			if out.Done() {
				return
			}
			if err != nil {
				out.Reject(err)
				return
			}
			values[i] = v
			remaining--
			if remaining == 0 {
				out.Resolve(values)
			}
		})
	}
	return out
}
