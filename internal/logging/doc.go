// Package logging builds the zerolog loggers used by the benchmark
// programs. Diagnostics go to stderr so stdout stays limited to the
// benchmark summary.
package logging
