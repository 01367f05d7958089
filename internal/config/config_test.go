package config

import (
	"errors"
	"flag"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/NetPo4ki/go-fanbench/delay"
	"github.com/NetPo4ki/go-fanbench/internal/cpus"
	apperrors "github.com/NetPo4ki/go-fanbench/internal/errors"
	"github.com/NetPo4ki/go-fanbench/partition"
)

func configMessage(t *testing.T, err error) string {
	t.Helper()
	var ce apperrors.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %T (%v)", err, err)
	}
	return ce.Message
}

func TestParseCPUDefaults(t *testing.T) {
	cfg, err := ParseCPU("cpu-fanout", nil, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != cpus.Count() {
		t.Errorf("Workers = %d, want %d", cfg.Workers, cpus.Count())
	}
	if cfg.Size != DefaultSize {
		t.Errorf("Size = %d, want %d", cfg.Size, DefaultSize)
	}
	if cfg.Verbose || cfg.Report || cfg.Progress || cfg.Metrics || cfg.NoColor || cfg.Trace {
		t.Errorf("expected all switches off, got %+v", cfg.Common)
	}
}

func TestParseCPUFlags(t *testing.T) {
	cfg, err := ParseCPU("cpu-fanout", []string{"--workers", "6", "-size=1000", "--report", "--no-color"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 6 || cfg.Size != 1000 || !cfg.Report || !cfg.NoColor {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestParseCPUPositionalWorkers(t *testing.T) {
	cfg, err := ParseCPU("cpu-fanout", []string{"3"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Workers)
	}

	if _, err := ParseCPU("cpu-fanout", []string{"--workers", "2", "3"}, io.Discard); err == nil {
		t.Error("expected error when workers given twice")
	}
	if _, err := ParseCPU("cpu-fanout", []string{"x"}, io.Discard); err == nil {
		t.Error("expected error for non-numeric positional worker count")
	}
	if _, err := ParseCPU("cpu-fanout", []string{"1", "2"}, io.Discard); err == nil {
		t.Error("expected error for extra positional arguments")
	}
}

func TestParseCPURejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zero workers", []string{"--workers", "0"}, apperrors.MsgWorkers},
		{"negative workers", []string{"-workers=-2"}, apperrors.MsgWorkers},
		{"negative positional", []string{"-1"}, ""},
		{"negative size", []string{"--size", "-1"}, "Size must not be negative."},
		{"huge size", []string{"--size", "4294967296"}, "Size must not exceed"},
		{"huge workers", []string{"--workers", "1000000000"}, "Number of workers must not exceed 1048576."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCPU("cpu-fanout", tt.args, io.Discard)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want == "" {
				return
			}
			if msg := configMessage(t, err); !strings.HasPrefix(msg, tt.want) {
				t.Errorf("message = %q, want prefix %q", msg, tt.want)
			}
		})
	}
	if partition.MaxTotal != 4294967295 {
		t.Fatalf("test assumes MaxTotal = 2^32-1, got %d", partition.MaxTotal)
	}
}

func TestCountsCapped(t *testing.T) {
	over := strconv.Itoa(MaxCount + 1)
	if _, err := ParseCooperative("io-eventloop", []string{"--tasks", over}, io.Discard); !strings.Contains(configMessage(t, err), "must not exceed") {
		t.Errorf("unexpected error %v", err)
	}
	if _, err := ParsePool("io-pool", []string{"--tasks", over}, io.Discard); !strings.Contains(configMessage(t, err), "tasks must not exceed") {
		t.Errorf("unexpected error %v", err)
	}
	if _, err := ParsePool("io-pool", []string{"--tasks", "1", "--workers", over}, io.Discard); !strings.Contains(configMessage(t, err), "workers must not exceed") {
		t.Errorf("unexpected error %v", err)
	}
	cfg, err := ParsePool("io-pool", []string{"--tasks", strconv.Itoa(MaxCount), "--workers", strconv.Itoa(MaxCount)}, io.Discard)
	if err != nil || cfg.Tasks != MaxCount {
		t.Errorf("MaxCount itself should be accepted, got %+v, %v", cfg, err)
	}
}

func TestParseTrace(t *testing.T) {
	cfg, err := ParseCooperative("io-eventloop", []string{"--trace"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Trace {
		t.Errorf("expected Trace to be set, got %+v", cfg.Common)
	}
}

func TestParseHelp(t *testing.T) {
	var buf strings.Builder
	_, err := ParseCPU("cpu-fanout", []string{"-h"}, &buf)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
	if !strings.Contains(buf.String(), "Usage: cpu-fanout") || !strings.Contains(buf.String(), "-workers") {
		t.Errorf("unexpected usage text %q", buf.String())
	}
}

func TestParseInvalidFlagValueIsReported(t *testing.T) {
	var buf strings.Builder
	_, err := ParsePool("io-pool", []string{"--tasks", "many"}, &buf)
	var ce apperrors.ConfigError
	if !errors.As(err, &ce) || !ce.Reported {
		t.Fatalf("expected reported ConfigError, got %v", err)
	}
	if !strings.Contains(buf.String(), "invalid value") {
		t.Errorf("flag package should have printed the error, got %q", buf.String())
	}
}

func TestParseCooperative(t *testing.T) {
	cfg, err := ParseCooperative("io-eventloop", nil, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tasks != cpus.DefaultCooperativeTasks() || cfg.MaxDelay != delay.DefaultMax || cfg.Seed != 0 {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	cfg, err = ParseCooperative("io-eventloop", []string{"--tasks", "10", "--max-delay", "20ms", "--seed", "9"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tasks != 10 || cfg.MaxDelay != 20*time.Millisecond || cfg.Seed != 9 {
		t.Errorf("unexpected config %+v", cfg)
	}

	if _, err := ParseCooperative("io-eventloop", []string{"--tasks", "0"}, io.Discard); configMessage(t, err) != apperrors.MsgTasks {
		t.Errorf("unexpected error %v", err)
	}
	if _, err := ParseCooperative("io-eventloop", []string{"--max-delay", "-1s"}, io.Discard); err == nil {
		t.Error("expected error for negative max delay")
	}
	if _, err := ParseCooperative("io-eventloop", []string{"extra"}, io.Discard); err == nil {
		t.Error("expected error for positional argument")
	}
}

func TestParsePool(t *testing.T) {
	cfg, err := ParsePool("io-pool", nil, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tasks != cpus.Count() || cfg.Workers != cpus.Count() {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	if _, err := ParsePool("io-pool", []string{"--tasks", "-1", "--workers", "0"}, io.Discard); configMessage(t, err) != apperrors.MsgTasks {
		t.Errorf("tasks should be validated first, got %v", err)
	}
	if _, err := ParsePool("io-pool", []string{"--tasks", "4", "--workers", "0"}, io.Discard); configMessage(t, err) != apperrors.MsgWorkers {
		t.Errorf("unexpected error %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"WORKERS", "5")
	t.Setenv(EnvPrefix+"TASKS", "11")
	t.Setenv(EnvPrefix+"MAX_DELAY", "15ms")
	t.Setenv(EnvPrefix+"SEED", "3")
	t.Setenv(EnvPrefix+"VERBOSE", "yes")

	cfg, err := ParsePool("io-pool", nil, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 5 || cfg.Tasks != 11 || cfg.MaxDelay != 15*time.Millisecond || cfg.Seed != 3 || !cfg.Verbose {
		t.Errorf("env overrides not applied: %+v", cfg)
	}

	cfg, err = ParsePool("io-pool", []string{"--workers", "2"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 2 {
		t.Errorf("flag should win over env, got workers=%d", cfg.Workers)
	}

	cpu, err := ParseCPU("cpu-fanout", []string{"7"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cpu.Workers != 7 {
		t.Errorf("positional workers should win over env, got %d", cpu.Workers)
	}
}

func TestEnvOverrideInvalid(t *testing.T) {
	t.Setenv(EnvPrefix+"TASKS", "lots")
	_, err := ParseCooperative("io-eventloop", nil, io.Discard)
	if msg := configMessage(t, err); !strings.Contains(msg, "FANBENCH_TASKS") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestEnvOverrideStillValidated(t *testing.T) {
	t.Setenv(EnvPrefix+"WORKERS", "0")
	_, err := ParseCPU("cpu-fanout", nil, io.Discard)
	if configMessage(t, err) != apperrors.MsgWorkers {
		t.Errorf("unexpected error %v", err)
	}
}
