// Package app contains the bodies of the benchmark programs. Each entry
// point parses its arguments, runs one benchmark and returns the process
// exit code, so cmd/ mains stay one line long and tests can drive the
// programs with in-memory writers.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/NetPo4ki/go-fanbench/internal/config"
	apperrors "github.com/NetPo4ki/go-fanbench/internal/errors"
	"github.com/NetPo4ki/go-fanbench/internal/logging"
	"github.com/NetPo4ki/go-fanbench/internal/report"
	otelobs "github.com/NetPo4ki/go-fanbench/observe/otel"
	"github.com/NetPo4ki/go-fanbench/observe/prom"
	"github.com/NetPo4ki/go-fanbench/scope"
)

const (
	metricsNamespace = "fanbench"
	tracerName       = "github.com/NetPo4ki/go-fanbench"
)

// IsHelpError checks if the error is a help flag error (-h was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

func splitArgs(args []string, fallback string) (string, []string) {
	if len(args) == 0 {
		return fallback, nil
	}
	return args[0], args[1:]
}

// configFailure reports a parse or validation error and returns the exit
// code. Nothing is written to stdout.
func configFailure(err error, stderr io.Writer) int {
	if IsHelpError(err) {
		return apperrors.ExitSuccess
	}
	var ce apperrors.ConfigError
	if !errors.As(err, &ce) || !ce.Reported {
		fmt.Fprintln(stderr, err)
	}
	return apperrors.ExitCode(err)
}

// sessionFailure reports a failure to set up output plumbing.
func sessionFailure(err error, stderr io.Writer) int {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return apperrors.ExitErrorGeneric
}

// session carries the per-run output and observation plumbing.
type session struct {
	benchmark string
	common    config.Common
	stdout    io.Writer
	stderr    io.Writer
	// began is when the program started, before argument parsing.
	began time.Time

	log      zerolog.Logger
	printer  *report.Printer
	metrics  *prom.Metrics
	progress *report.Progress
	observer scope.Observer
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
}

// newSession wires the logger, tracer and observers selected by common.
// total is the number of tasks the progress bar counts.
func newSession(program, benchmark string, common config.Common, total int, began time.Time, stdout, stderr io.Writer) (*session, error) {
	s := &session{
		benchmark: benchmark,
		common:    common,
		stdout:    stdout,
		stderr:    stderr,
		began:     began,
		log:       logging.New(stderr, program, logging.Options{Verbose: common.Verbose, NoColor: common.NoColor}),
		printer:   report.NewPrinter(stdout, common.NoColor),
		tracer:    otel.Tracer(tracerName),
	}
	if common.Trace {
		tp, err := otelobs.NewWriterProvider(stderr)
		if err != nil {
			return nil, err
		}
		s.provider = tp
		s.tracer = tp.Tracer(tracerName)
	}
	observers := []scope.Observer{otelobs.New(benchmark)}
	if common.Metrics {
		s.metrics = prom.New(metricsNamespace, benchmark)
		observers = append(observers, s.metrics)
	}
	if common.Progress {
		s.progress = report.NewProgress(stderr, total, benchmark)
		observers = append(observers, s.progress)
	}
	s.observer = scope.Observers(observers...)
	return s, nil
}

// start opens the root span of the run. Without --trace it comes from the
// global provider, a no-op unless an embedding program installed one.
func (s *session) start(ctx context.Context, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, s.benchmark, trace.WithAttributes(attrs...))
}

// close flushes exported spans. It must run after the root span ended.
func (s *session) close(ctx context.Context) {
	if s.provider == nil {
		return
	}
	if err := s.provider.Shutdown(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn().Err(err).Msg("trace shutdown failed")
	}
}

// elapsed is the wall time since the program started.
func (s *session) elapsed() time.Duration { return time.Since(s.began) }

// fail records a run failure and returns its exit code.
func (s *session) fail(span trace.Span, err error) int {
	err = apperrors.RunError{Benchmark: s.benchmark, Cause: err}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.log.Debug().Err(err).Msg("run failed")
	fmt.Fprintf(s.stderr, "Error: %v\n", err)
	return apperrors.ExitCode(err)
}

// finish writes the optional table and metrics dump after the summary.
func (s *session) finish(header []string, rows [][]string) int {
	if s.common.Report {
		fmt.Fprintln(s.stdout)
		if err := report.Table(s.stdout, header, rows); err != nil {
			s.log.Error().Err(err).Msg("report failed")
			return apperrors.ExitErrorGeneric
		}
	}
	if s.metrics != nil {
		if err := s.metrics.WriteText(s.stderr); err != nil {
			s.log.Error().Err(err).Msg("metrics dump failed")
			return apperrors.ExitErrorGeneric
		}
	}
	return apperrors.ExitSuccess
}
