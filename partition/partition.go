// Package partition splits a numeric range into contiguous chunks for the
// CPU fan-out and computes the per-chunk partial sums.
//
// Split uses a chunk size of total/workers and drops the remainder: for
// totals that are not a multiple of the worker count, the trailing
// total%workers elements belong to no chunk and are never summed.
package partition

import (
	"errors"
	"fmt"
)

// MaxTotal is the largest range size whose full sum 1..MaxTotal fits in an
// int64.
const MaxTotal int64 = 1<<32 - 1

var (
	ErrNoWorkers     = errors.New("partition: worker count must be greater than 0")
	ErrTotalNegative = errors.New("partition: total must not be negative")
	ErrTotalTooLarge = fmt.Errorf("partition: total must not exceed %d", MaxTotal)
)

// Range is the half-open interval [Start, End).
type Range struct {
	Start int64
	End   int64
}

// Len is the number of elements in r.
func (r Range) Len() int64 { return r.End - r.Start }

// String formats r as "[start, end)".
func (r Range) String() string { return fmt.Sprintf("[%d, %d)", r.Start, r.End) }

// Split divides [0, total) into workers contiguous ranges of total/workers
// elements each. When workers exceeds total every range is empty.
func Split(total, workers int64) ([]Range, error) {
	if workers <= 0 {
		return nil, ErrNoWorkers
	}
	if total < 0 {
		return nil, ErrTotalNegative
	}
	if total > MaxTotal {
		return nil, ErrTotalTooLarge
	}
	chunk := total / workers
	ranges := make([]Range, workers)
	for i := range ranges {
		start := int64(i) * chunk
		ranges[i] = Range{Start: start, End: start + chunk}
	}
	return ranges, nil
}

// Covered reports how many leading elements of [0, total) Split assigns to
// some chunk.
func Covered(total, workers int64) int64 {
	if workers <= 0 || total <= 0 {
		return 0
	}
	return workers * (total / workers)
}

// PartialSum returns the sum of i+1 for every i in r. It iterates on
// purpose: this loop is the CPU-bound workload.
func PartialSum(r Range) int64 {
	var sum int64
	for i := r.Start; i < r.End; i++ {
		sum += i + 1
	}
	return sum
}

// TriangularSum returns 1+2+...+n.
func TriangularSum(n int64) int64 {
	if n <= 0 {
		return 0
	}
	if n%2 == 0 {
		return (n / 2) * (n + 1)
	}
	return n * ((n + 1) / 2)
}
