package main

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"curator/internal/consolidate"
)

// progressRenderer drives one progress bar per pipeline stage on interactive
// terminals.
type progressRenderer struct {
	mu    sync.Mutex
	out   io.Writer
	stage string
	bar   *progressbar.ProgressBar
}

// newProgressRenderer returns nil when out is not a terminal; the pipeline
// then runs without a bar (structured logs still report stage completion).
func newProgressRenderer(out io.Writer) *progressRenderer {
	file, ok := out.(*os.File)
	if !ok || !isatty.IsTerminal(file.Fd()) {
		return nil
	}
	return &progressRenderer{out: out}
}

// Update implements consolidate.ProgressFunc.
func (r *progressRenderer) Update(p consolidate.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Stage != r.stage {
		r.finishLocked()
		r.stage = p.Stage
		r.bar = progressbar.NewOptions(p.Total,
			progressbar.OptionSetWriter(r.out),
			progressbar.OptionSetDescription(p.Stage),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionShowCount(),
		)
	}
	if r.bar != nil {
		_ = r.bar.Set(p.Done)
	}
}

// Close finishes any in-flight bar.
func (r *progressRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishLocked()
}

func (r *progressRenderer) finishLocked() {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}
