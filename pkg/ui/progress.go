package ui

import (
	"fmt"
	"io"
	"strings"
)

// DefaultBarWidth is the progress bar width in characters
const DefaultBarWidth = 60

// Bar renders a fixed-width textual progress indicator for a loop of
// known length. The zero state is drawn by Start, each completed
// element redraws the line via Advance, and Finish terminates it with
// a newline. Purely cosmetic; it never fails and never modifies the
// items being iterated.
type Bar struct {
	out    io.Writer
	prefix string
	total  int
	width  int
	done   int
}

// NewBar creates a progress bar writing to out
func NewBar(out io.Writer, prefix string, total int) *Bar {
	return &Bar{
		out:    out,
		prefix: prefix,
		total:  total,
		width:  DefaultBarWidth,
	}
}

// SetWidth overrides the bar width
func (b *Bar) SetWidth(width int) {
	if width > 0 {
		b.width = width
	}
}

// Start draws the empty bar before the first element
func (b *Bar) Start() {
	b.draw()
}

// Advance marks one element complete and redraws the bar
func (b *Bar) Advance() {
	if b.done < b.total {
		b.done++
	}
	b.draw()
}

// Finish terminates the bar line
func (b *Bar) Finish() {
	fmt.Fprint(b.out, "\n")
}

// Done returns the number of completed elements
func (b *Bar) Done() int {
	return b.done
}

func (b *Bar) draw() {
	filled := 0
	if b.total > 0 {
		filled = b.width * b.done / b.total
	}
	fmt.Fprintf(b.out, "%s[%s%s] %d/%d\r",
		b.prefix,
		strings.Repeat("#", filled),
		strings.Repeat(".", b.width-filled),
		b.done, b.total)
}

// ForEach drives fn over items while rendering a progress bar to out.
// fn returning false stops the iteration early; the bar line is still
// terminated.
func ForEach[T any](out io.Writer, prefix string, items []T, fn func(item T) bool) {
	bar := NewBar(out, prefix, len(items))
	bar.Start()
	defer bar.Finish()

	for _, item := range items {
		if !fn(item) {
			return
		}
		bar.Advance()
	}
}
