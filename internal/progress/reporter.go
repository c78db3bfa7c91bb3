package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Reporter provides progress feedback while category snapshots are fetched.
// Implementations are safe for concurrent use.
type Reporter interface {
	Start(total int)
	Done(name string, err error)
	Finish()
}

// NewReporter returns a TerminalReporter when stderr is an interactive
// terminal, a LineReporter in CI, and a silent reporter otherwise.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &LineReporter{w: os.Stderr}
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return Nop{}
	}
	return &TerminalReporter{w: os.Stderr}
}

// TerminalReporter displays a progress bar.
type TerminalReporter struct {
	w   io.Writer
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Fetching"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Done(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil {
		return
	}
	if err != nil {
		r.bar.Describe(name + " failed")
	} else {
		r.bar.Describe(name)
	}
	_ = r.bar.Add(1)
}

func (r *TerminalReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// LineReporter prints one line per finished fetch, suitable for CI logs.
type LineReporter struct {
	w     io.Writer
	mu    sync.Mutex
	total int
	done  int
}

// NewLineReporter returns a LineReporter writing to w.
func NewLineReporter(w io.Writer) *LineReporter {
	return &LineReporter{w: w}
}

func (r *LineReporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
	r.done = 0
	fmt.Fprintf(r.w, "Fetching %d categories\n", total)
}

func (r *LineReporter) Done(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done++
	if err != nil {
		fmt.Fprintf(r.w, "[%d/%d] %s: %v\n", r.done, r.total, name, err)
		return
	}
	fmt.Fprintf(r.w, "[%d/%d] %s\n", r.done, r.total, name)
}

func (r *LineReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, "Snapshot complete")
}

// Nop reports nothing.
type Nop struct{}

func (Nop) Start(int)          {}
func (Nop) Done(string, error) {}
func (Nop) Finish()            {}
