// Package config parses and validates the command line of each benchmark
// program. Flags may be given as -name or --name; environment variables
// prefixed with EnvPrefix override defaults for flags that were not set.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/NetPo4ki/go-fanbench/delay"
	"github.com/NetPo4ki/go-fanbench/internal/cpus"
	apperrors "github.com/NetPo4ki/go-fanbench/internal/errors"
	"github.com/NetPo4ki/go-fanbench/partition"
)

// EnvPrefix is prepended to every environment override key.
const EnvPrefix = "FANBENCH_"

// DefaultSize is the number of elements summed by the CPU fan-out.
const DefaultSize int64 = 1_000_000_000

// MaxCount caps --workers and --tasks. Every task and worker costs a
// goroutine plus a result slot allocated up front.
const MaxCount = 1 << 20

// Common holds the output switches shared by every program.
type Common struct {
	Verbose  bool
	Report   bool
	Progress bool
	Metrics  bool
	NoColor  bool
	Trace    bool
}

// CPUConfig configures the CPU fan-out.
type CPUConfig struct {
	Common
	Workers int
	Size    int64
}

// CooperativeConfig configures the event-loop delay simulator.
type CooperativeConfig struct {
	Common
	Tasks    int
	MaxDelay time.Duration
	Seed     uint64
}

// PoolConfig configures the worker-pool delay simulator.
type PoolConfig struct {
	Common
	Tasks    int
	Workers  int
	MaxDelay time.Duration
	Seed     uint64
}

func (c CPUConfig) Validate() error {
	if err := validateWorkers(c.Workers); err != nil {
		return err
	}
	if c.Size < 0 {
		return apperrors.NewConfigError("size", "Size must not be negative.")
	}
	if c.Size > partition.MaxTotal {
		return apperrors.NewConfigError("size", "Size must not exceed %d.", partition.MaxTotal)
	}
	return nil
}

func (c CooperativeConfig) Validate() error {
	if err := validateTasks(c.Tasks); err != nil {
		return err
	}
	return validateDelay(c.MaxDelay)
}

func (c PoolConfig) Validate() error {
	if err := validateTasks(c.Tasks); err != nil {
		return err
	}
	if err := validateWorkers(c.Workers); err != nil {
		return err
	}
	return validateDelay(c.MaxDelay)
}

func validateWorkers(n int) error {
	switch {
	case n <= 0:
		return apperrors.NewConfigError("workers", apperrors.MsgWorkers)
	case n > MaxCount:
		return apperrors.NewConfigError("workers", "Number of workers must not exceed %d.", MaxCount)
	}
	return nil
}

func validateTasks(n int) error {
	switch {
	case n <= 0:
		return apperrors.NewConfigError("tasks", apperrors.MsgTasks)
	case n > MaxCount:
		return apperrors.NewConfigError("tasks", "Number of tasks must not exceed %d.", MaxCount)
	}
	return nil
}

func validateDelay(d time.Duration) error {
	if d < 0 {
		return apperrors.NewConfigError("max-delay", "Maximum delay must not be negative.")
	}
	return nil
}

// ParseCPU parses the cpu-fanout command line. A single positional
// argument is accepted as the worker count when --workers is not given.
func ParseCPU(program string, args []string, errOut io.Writer) (CPUConfig, error) {
	cfg := CPUConfig{Workers: cpus.Count(), Size: DefaultSize}
	fs := newFlagSet(program, "Simulate CPU-bound tasks with a goroutine worker pool.", errOut)
	bindCommon(fs, &cfg.Common)
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of workers")
	fs.Int64Var(&cfg.Size, "size", cfg.Size, "Number of elements to sum")
	if err := parse(fs, args); err != nil {
		return cfg, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		if isFlagSet(fs, "workers") {
			return cfg, apperrors.NewConfigError("workers", "Worker count given both as flag and argument.")
		}
		// Set also marks the flag as given, so FANBENCH_WORKERS is ignored.
		if err := fs.Set("workers", fs.Arg(0)); err != nil {
			return cfg, apperrors.NewConfigError("workers", "invalid worker count %q", fs.Arg(0))
		}
	default:
		return cfg, unexpectedArgs(fs)
	}

	if err := applyOverrides(fs, &cfg, cpuOverrides); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ParseCooperative parses the io-eventloop command line.
func ParseCooperative(program string, args []string, errOut io.Writer) (CooperativeConfig, error) {
	cfg := CooperativeConfig{Tasks: cpus.DefaultCooperativeTasks(), MaxDelay: delay.DefaultMax}
	fs := newFlagSet(program, "Simulate I/O-bound tasks on a cooperative event loop.", errOut)
	bindCommon(fs, &cfg.Common)
	fs.IntVar(&cfg.Tasks, "tasks", cfg.Tasks, "Number of tasks to simulate")
	fs.DurationVar(&cfg.MaxDelay, "max-delay", cfg.MaxDelay, "Upper bound of the uniform per-task delay")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Random seed for delays (0 picks one)")
	if err := parse(fs, args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, unexpectedArgs(fs)
	}
	if err := applyOverrides(fs, &cfg, cooperativeOverrides); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ParsePool parses the io-pool command line.
func ParsePool(program string, args []string, errOut io.Writer) (PoolConfig, error) {
	n := cpus.Count()
	cfg := PoolConfig{Tasks: n, Workers: n, MaxDelay: delay.DefaultMax}
	fs := newFlagSet(program, "Simulate I/O-bound tasks with a goroutine worker pool.", errOut)
	bindCommon(fs, &cfg.Common)
	fs.IntVar(&cfg.Tasks, "tasks", cfg.Tasks, "Number of tasks to simulate")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of workers")
	fs.DurationVar(&cfg.MaxDelay, "max-delay", cfg.MaxDelay, "Upper bound of the uniform per-task delay")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Random seed for delays (0 picks one)")
	if err := parse(fs, args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, unexpectedArgs(fs)
	}
	if err := applyOverrides(fs, &cfg, poolOverrides); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func newFlagSet(program, description string, errOut io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(program, flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags]\n\n%s\n\nFlags:\n", program, description)
		fs.PrintDefaults()
	}
	return fs
}

func bindCommon(fs *flag.FlagSet, c *Common) {
	fs.BoolVar(&c.Verbose, "verbose", false, "Write debug logs to stderr")
	fs.BoolVar(&c.Report, "report", false, "Print a per-task table after the summary")
	fs.BoolVar(&c.Progress, "progress", false, "Show a progress bar on stderr")
	fs.BoolVar(&c.Metrics, "metrics", false, "Dump Prometheus metrics to stderr after the run")
	fs.BoolVar(&c.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&c.Trace, "trace", false, "Export the run's trace spans to stderr")
}

// parse returns flag.ErrHelp untouched so callers can exit 0 on -h.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	// The flag package already printed the error and usage.
	return apperrors.ConfigError{Message: err.Error(), Reported: true}
}

func unexpectedArgs(fs *flag.FlagSet) error {
	return apperrors.NewConfigError("", "unexpected arguments: %v", fs.Args())
}
