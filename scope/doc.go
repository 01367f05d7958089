// Package scope provides structured-concurrency primitives for the
// benchmark runners. A Scope owns the goroutines it spawns, provides a
// single join point (Wait) and cancels every sibling on the first error.
// WithMaxConcurrency turns a scope into a bounded fan-out where at most n
// tasks hold a slot at once.
//
// Panics inside scoped goroutines are converted to *PanicError, so a
// crashing worker fails the whole run instead of the process.
package scope
