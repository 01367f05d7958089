package prom

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/NetPo4ki/go-fanbench/scope"
)

func TestCountsTaskLifecycle(t *testing.T) {
	t.Parallel()
	m := New("fanbench", "test")
	ctx := context.Background()
	m.ScopeCreated(ctx)
	m.TaskStarted(ctx)
	m.TaskStarted(ctx)
	m.TaskFinished(ctx, 10*time.Millisecond, nil, false)
	m.TaskFinished(ctx, 20*time.Millisecond, errors.New("boom"), true)
	m.ScopeCancelled(ctx, errors.New("boom"))
	m.ScopeJoined(ctx, 5*time.Millisecond)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"tasks_started", testutil.ToFloat64(m.tasksStarted), 2},
		{"tasks_finished", testutil.ToFloat64(m.tasksFinished), 2},
		{"tasks_errored", testutil.ToFloat64(m.tasksErrored), 1},
		{"tasks_panicked", testutil.ToFloat64(m.tasksPanicked), 1},
		{"tasks_active", testutil.ToFloat64(m.activeTasks), 0},
		{"scopes_created", testutil.ToFloat64(m.scopesCreated), 1},
		{"scopes_cancelled", testutil.ToFloat64(m.scopesCancelled), 1},
		{"joins", testutil.ToFloat64(m.joins), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestObservesRealScope(t *testing.T) {
	t.Parallel()
	m := New("fanbench", "scope")
	s := scope.New(context.Background(), scope.WithObserver(m))
	for i := 0; i < 5; i++ {
		s.Go(func(context.Context) error { return nil })
	}
	if err := s.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := testutil.ToFloat64(m.tasksFinished); got != 5 {
		t.Fatalf("tasks_finished = %v, want 5", got)
	}
	if got := testutil.CollectAndCount(m.taskDuration); got != 1 {
		t.Fatalf("expected one duration histogram, got %d", got)
	}
}

func TestWriteText(t *testing.T) {
	t.Parallel()
	m := New("fanbench", "cpu")
	m.TaskStarted(context.Background())
	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# TYPE fanbench_tasks_started_total counter",
		`fanbench_tasks_started_total{benchmark="cpu"} 1`,
		"fanbench_task_duration_seconds_bucket",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
