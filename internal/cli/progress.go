package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/roach88/hyperpipe/internal/align"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// foldProgress draws a progress bar over merge folds. With no bar it is a
// no-op, so callers never check.
type foldProgress struct {
	bar *progressbar.ProgressBar
}

// newFoldProgress returns a bar on w only when enabled, w is a terminal and
// there is at least one fold.
func newFoldProgress(w io.Writer, folds int, enabled bool) *foldProgress {
	if !enabled || folds <= 0 || !isTerminal(w) {
		return &foldProgress{}
	}
	bar := progressbar.NewOptions(folds,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("aligning"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionOnCompletion(func() { fmt.Fprint(w, "\n") }),
	)
	return &foldProgress{bar: bar}
}

func (p *foldProgress) observe(ev align.FoldEvent) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("aligning %s", ev.Entity))
	_ = p.bar.Add(1)
}

func (p *foldProgress) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}
