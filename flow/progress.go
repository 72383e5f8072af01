package flow

import (
	"fmt"
	"io"
)

// Observer receives row-granularity progress callbacks from the
// pipeline. One increment fires per input row consumed, including
// skipped rows, so progress reflects input size rather than output
// count.
type Observer interface {
	// Start announces the expected number of rows.
	Start(total int)
	// Increment records one consumed row.
	Increment()
	// Done marks the end of the run.
	Done()
}

// NopObserver discards all progress callbacks.
type NopObserver struct{}

// Start implements Observer.
func (NopObserver) Start(int) {}

// Increment implements Observer.
func (NopObserver) Increment() {}

// Done implements Observer.
func (NopObserver) Done() {}

// TerminalProgress renders an in-place row counter, typically on
// stderr so it never mixes with piped output.
type TerminalProgress struct {
	w       io.Writer
	total   int
	current int
}

// NewTerminalProgress creates a progress renderer writing to w.
func NewTerminalProgress(w io.Writer) *TerminalProgress {
	return &TerminalProgress{w: w}
}

// Start implements Observer.
func (p *TerminalProgress) Start(total int) {
	p.total = total
	p.current = 0
}

// Increment implements Observer.
func (p *TerminalProgress) Increment() {
	p.current++
	// Rewriting every row keeps the display exact; source files are
	// small enough that terminal writes are not the bottleneck.
	fmt.Fprintf(p.w, "\rProcessing... %d/%d rows", p.current, p.total)
}

// Done implements Observer.
func (p *TerminalProgress) Done() {
	fmt.Fprintln(p.w)
}
