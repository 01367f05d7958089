package loop

import "context"

// Await runs l to completion and returns the value of f.
func Await[T any](ctx context.Context, l *Loop, f *Future[T]) (T, error) {
	var zero T
	if err := l.Run(ctx); err != nil {
		return zero, err
	}
	if !f.Done() {
		return zero, ErrPending
	}
	return f.Result()
}
