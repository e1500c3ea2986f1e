// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"strings"
	"time"
)

// ProgressBar implements a terminal progress bar that is redrawn in
// place each time Increment is called.
type ProgressBar struct {
	// width determines the number of characters wide that the progress
	// bar should be
	width float64

	// maxProgress determines the number of times Increment() should
	// be called before the progress bar reaches 100%.
	maxProgress float64

	// currentProgress measures the current progress, equivalently it
	// measures the number of times Increment() was called
	currentProgress float64

	start time.Time
}

// New returns a new progress bar that is width characters wide and
// reaches 100% capacity after max Increment() calls.
func New(width, max int) *ProgressBar {
	return &ProgressBar{
		width:       float64(width),
		maxProgress: float64(max),
		start:       time.Now(),
	}
}

// Increment increments the internal progress counter and redraws the
// bar. Each time an iteration is performed, Increment should be
// called.
func (p *ProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}

	var bar strings.Builder
	bar.WriteString("|")

	currentProg := p.currentProgress / p.maxProgress * p.width
	for i := 0.0; i < currentProg; i++ {
		bar.WriteString("█")
	}
	for i := currentProg; i < p.width; i++ {
		bar.WriteString(" ")
	}
	fmt.Fprintf(&bar, "| [%.2f%% | elapsed: %v]",
		p.currentProgress/p.maxProgress*100,
		time.Since(p.start).Round(time.Second))

	fmt.Printf("\r\033[K%v", bar.String())
}

// Close finishes the progress bar, jumping the cursor to the next line
func (p *ProgressBar) Close() {
	fmt.Println()
}
