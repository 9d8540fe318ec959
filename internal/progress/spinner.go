// Package progress draws a scanning spinner on a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// DefaultInterval is the redraw interval of the spinner.
const DefaultInterval = 100 * time.Millisecond

const (
	spinnerFrames     = `|/-\`
	statusLineFormat  = "\r\033[2K%c Scanning... %s entries\r"
	clearStatusLine   = "\r\033[2K\r"
	hideCursorControl = "\033[?25l"
	showCursorControl = "\033[?25h"
)

// Spinner reports the number of visited entries while a walk runs.
type Spinner struct {
	writer   io.Writer
	interval time.Duration
	visited  atomic.Int64
	started  atomic.Bool
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewSpinner returns a spinner that writes to writer.
func NewSpinner(writer io.Writer, interval time.Duration) *Spinner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Spinner{
		writer:   writer,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// NewTerminalSpinner returns a stderr spinner, or nil when stderr is not a terminal.
func NewTerminalSpinner() *Spinner {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return nil
	}
	return NewSpinner(os.Stderr, DefaultInterval)
}

// Update records the running entry count. It is safe for concurrent use and on a nil
// spinner.
func (spinner *Spinner) Update(visited int64) {
	if spinner == nil {
		return
	}
	spinner.visited.Store(visited)
}

// Start begins redrawing in the background until Stop is called.
func (spinner *Spinner) Start() {
	if spinner == nil || !spinner.started.CompareAndSwap(false, true) {
		return
	}
	fmt.Fprint(spinner.writer, hideCursorControl)
	go func() {
		defer close(spinner.done)
		ticker := time.NewTicker(spinner.interval)
		defer ticker.Stop()
		frameIndex := 0
		for {
			select {
			case <-ticker.C:
				frame := spinnerFrames[frameIndex%len(spinnerFrames)]
				frameIndex++
				fmt.Fprintf(spinner.writer, statusLineFormat, frame, humanize.Comma(spinner.visited.Load()))
			case <-spinner.stop:
				return
			}
		}
	}()
}

// Stop halts the spinner and clears its status line.
func (spinner *Spinner) Stop() {
	if spinner == nil || !spinner.started.Load() {
		return
	}
	spinner.once.Do(func() {
		close(spinner.stop)
		<-spinner.done
		fmt.Fprint(spinner.writer, clearStatusLine)
		fmt.Fprint(spinner.writer, showCursorControl)
	})
}
