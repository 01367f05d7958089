// Package loop implements a single-goroutine cooperative scheduler.
//
// A Loop owns a FIFO ready queue of callbacks and a min-heap of timers.
// Run executes ready callbacks one at a time on the calling goroutine;
// when the queue is empty it sleeps until the earliest timer is due, moves
// every due timer onto the ready queue and continues. Run returns once both
// are empty.
//
// Tasks never block the loop: they suspend by returning a Future and resume
// in the callback that settles it. Sleep, Then, Spawn and Gather build on
// that:
//
//	l := loop.New()
//	a := loop.Spawn(l, func() *loop.Future[int] {
//	    return loop.Then(loop.Sleep(l, time.Second), func(struct{}) (int, error) { return 1, nil })
//	})
//	b := loop.Spawn(l, func() *loop.Future[int] { ... })
//	sums, err := loop.Await(ctx, l, loop.Gather(l, a, b))
//
// A Loop is not safe for concurrent use. Call, After, Spawn and the Future
// methods must be used before Run or from callbacks running on the loop.
package loop
