package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Spinner reports a single long-running step. On a terminal it animates;
// elsewhere Start prints nothing and Success/Fail print one status line.
type Spinner struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols

	mu sync.Mutex
	s  *spinner.Spinner
}

// NewSpinner returns a spinner writing to out with the given capabilities.
func NewSpinner(out io.Writer, caps TerminalCapabilities) *Spinner {
	return &Spinner{out: out, caps: caps, symbols: SelectSymbols(caps)}
}

// Start begins animating with message as the suffix.
func (p *Spinner) Start(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.caps.IsTTY || p.s != nil {
		return
	}
	p.s = spinner.New(spinner.CharSets[p.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(p.out))
	p.s.Suffix = " " + message
	if p.caps.SupportsColor {
		_ = p.s.Color("cyan")
	}
	p.s.Start()
}

// Success stops the spinner and prints message with a checkmark.
func (p *Spinner) Success(message string) {
	p.finish(p.symbols.Checkmark, color.FgGreen, message)
}

// Fail stops the spinner and prints message with a failure mark.
func (p *Spinner) Fail(message string) {
	p.finish(p.symbols.Failure, color.FgRed, message)
}

// Stop halts the animation without printing a status line.
func (p *Spinner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Spinner) finish(symbol string, attr color.Attribute, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()

	mark := symbol
	if p.caps.SupportsColor {
		mark = color.New(attr, color.Bold).Sprint(symbol)
	}
	fmt.Fprintf(p.out, "%s %s\n", mark, message)
}

func (p *Spinner) stopLocked() {
	if p.s != nil {
		p.s.Stop()
		p.s = nil
	}
}
