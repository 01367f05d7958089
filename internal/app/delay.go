package app

import (
	"context"
	"io"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/NetPo4ki/go-fanbench/delay"
	"github.com/NetPo4ki/go-fanbench/internal/bench"
	"github.com/NetPo4ki/go-fanbench/internal/config"
	"github.com/NetPo4ki/go-fanbench/internal/report"
)

// Cooperative runs the io-eventloop program.
func Cooperative(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	began := time.Now()
	program, rest := splitArgs(args, "io-eventloop")
	cfg, err := config.ParseCooperative(program, rest, stderr)
	if err != nil {
		return configFailure(err, stderr)
	}

	s, err := newSession(program, "io-eventloop", cfg.Common, cfg.Tasks, began, stdout, stderr)
	if err != nil {
		return sessionFailure(err, stderr)
	}
	defer s.close(ctx)
	ctx, span := s.start(ctx, attribute.Int("tasks", cfg.Tasks), attribute.String("max_delay", cfg.MaxDelay.String()))
	defer span.End()

	s.printer.Summary("I/O Bound Simulation with Cooperative Event Loop", report.Count("Task Count", cfg.Tasks))
	res, err := bench.RunCooperative(ctx, cfg.Tasks, delay.NewUniform(cfg.MaxDelay, cfg.Seed),
		bench.WithObserver(s.observer), bench.WithLogger(s.log))
	if err != nil {
		return s.fail(span, err)
	}
	return s.delays(res)
}

// ProcessPool runs the io-pool program.
func ProcessPool(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	began := time.Now()
	program, rest := splitArgs(args, "io-pool")
	cfg, err := config.ParsePool(program, rest, stderr)
	if err != nil {
		return configFailure(err, stderr)
	}

	s, err := newSession(program, "io-pool", cfg.Common, cfg.Tasks, began, stdout, stderr)
	if err != nil {
		return sessionFailure(err, stderr)
	}
	defer s.close(ctx)
	ctx, span := s.start(ctx,
		attribute.Int("tasks", cfg.Tasks),
		attribute.Int("workers", cfg.Workers),
		attribute.String("max_delay", cfg.MaxDelay.String()),
	)
	defer span.End()

	s.printer.Summary("I/O Bound Simulation with Goroutine Worker Pool",
		report.Count("Worker Count", cfg.Workers), report.Count("Task Count", cfg.Tasks))
	res, err := bench.RunPool(ctx, cfg.Tasks, cfg.Workers, delay.NewUniform(cfg.MaxDelay, cfg.Seed),
		bench.WithObserver(s.observer), bench.WithLogger(s.log))
	if err != nil {
		return s.fail(span, err)
	}
	return s.delays(res)
}

func (s *session) delays(res bench.DelayResult) int {
	s.printer.Theoretical(res.Theoretical)
	s.printer.Elapsed(s.elapsed())
	s.log.Debug().
		Dur("theoretical", res.Theoretical).
		Dur("fan_out", res.Elapsed).
		Float64("speedup", speedup(res.Theoretical, res.Elapsed)).
		Msg("done")

	rows := make([][]string, 0, len(res.Delays))
	for _, d := range res.Delays {
		rows = append(rows, []string{
			strconv.Itoa(d.Task),
			strconv.Itoa(d.Worker),
			report.FormatLatency(d.Delay),
			report.FormatLatency(d.Actual),
		})
	}
	return s.finish([]string{"Task", "Worker", "Delay", "Actual"}, rows)
}

func speedup(theoretical, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(theoretical) / float64(elapsed)
}
