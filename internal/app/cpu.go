package app

import (
	"context"
	"io"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/NetPo4ki/go-fanbench/internal/bench"
	"github.com/NetPo4ki/go-fanbench/internal/config"
	"github.com/NetPo4ki/go-fanbench/internal/report"
)

// CPUFanOut runs the cpu-fanout program.
func CPUFanOut(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	began := time.Now()
	program, rest := splitArgs(args, "cpu-fanout")
	cfg, err := config.ParseCPU(program, rest, stderr)
	if err != nil {
		return configFailure(err, stderr)
	}

	s, err := newSession(program, "cpu-fanout", cfg.Common, cfg.Workers, began, stdout, stderr)
	if err != nil {
		return sessionFailure(err, stderr)
	}
	defer s.close(ctx)
	ctx, span := s.start(ctx, attribute.Int("workers", cfg.Workers), attribute.Int64("size", cfg.Size))
	defer span.End()

	s.printer.Summary("CPU Bound Simulation with Goroutine Worker Pool", report.Count("Worker Count", cfg.Workers))
	s.log.Debug().Int("workers", cfg.Workers).Int64("size", cfg.Size).Msg("starting")
	res, err := bench.RunCPU(ctx, cfg.Workers, cfg.Size, bench.WithObserver(s.observer), bench.WithLogger(s.log))
	if err != nil {
		return s.fail(span, err)
	}
	if res.Covered != res.Size {
		s.log.Warn().Int64("size", res.Size).Int64("covered", res.Covered).Msg("size is not a multiple of the worker count; trailing elements skipped")
	}
	s.printer.Mean(res.Mean)
	s.printer.Elapsed(s.elapsed())

	rows := make([][]string, 0, len(res.Partials))
	for i, p := range res.Partials {
		rows = append(rows, []string{
			strconv.Itoa(i),
			p.Range.String(),
			report.FormatNumber(p.Range.Len()),
			report.FormatNumber(p.Sum),
			report.FormatLatency(p.Elapsed),
		})
	}
	return s.finish([]string{"Chunk", "Range", "Elements", "Partial Sum", "Elapsed"}, rows)
}
