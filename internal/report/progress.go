package report

import (
	"context"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress is a scope.Observer that advances a progress bar once per
// finished task and closes it at the join point.
type Progress struct {
	bar *progressbar.ProgressBar
}

func NewProgress(w io.Writer, total int, description string) *Progress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionThrottle(50*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return &Progress{bar: bar}
}

// Current reports how many tasks finished so far.
func (p *Progress) Current() int64 { return p.bar.State().CurrentNum }

func (p *Progress) ScopeCreated(context.Context) {}

func (p *Progress) ScopeCancelled(context.Context, error) {}

func (p *Progress) ScopeJoined(context.Context, time.Duration) {
	_ = p.bar.Finish()
}

func (p *Progress) TaskStarted(context.Context) {}

func (p *Progress) TaskFinished(context.Context, time.Duration, error, bool) {
	_ = p.bar.Add(1)
}
