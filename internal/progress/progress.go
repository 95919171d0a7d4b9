// Package progress shows pipeline progress as a terminal progress bar.
package progress

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Bar reports each pipeline stage as its own progress bar.
type Bar struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// New creates a Bar writing to w.
func New(w io.Writer) *Bar {
	return &Bar{w: w}
}

// Enabled reports whether f is a terminal that can show a progress bar.
func Enabled(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Start begins a new bar for stage with total steps.
func (b *Bar) Start(stage string, total int) {
	b.Finish()
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(stage),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(50*time.Millisecond),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}

// Step advances the current bar by one.
func (b *Bar) Step() {
	if b.bar != nil {
		_ = b.bar.Add(1)
	}
}

// Finish completes the current bar, if any.
func (b *Bar) Finish() {
	if b.bar == nil {
		return
	}
	_ = b.bar.Finish()
	_ = b.bar.Close()
	b.bar = nil
}
