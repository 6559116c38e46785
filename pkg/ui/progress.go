package ui

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	progressWidth = 20
)

// PollProgress draws a single updating status line for a polling run
type PollProgress struct {
	w        io.Writer
	duration time.Duration
}

// NewPollProgress creates a progress line for a run of the given duration
func NewPollProgress(w io.Writer, duration time.Duration) *PollProgress {
	return &PollProgress{w: w, duration: duration}
}

// Bar returns a formatted progress bar for the elapsed time
func (p *PollProgress) Bar(elapsed time.Duration) string {
	progress := 1.0
	if p.duration > 0 {
		progress = float64(elapsed) / float64(p.duration)
	}
	filled := int(progress * progressWidth)
	if filled > progressWidth {
		filled = progressWidth
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, progressWidth-filled)

	return fmt.Sprintf("[%s] %s/%s", bar, elapsed.Round(time.Second), p.duration)
}

// Update redraws the status line
func (p *PollProgress) Update(poll int, elapsed time.Duration, mentions int, failed int) {
	line := fmt.Sprintf("%s  poll %d  mentions %d", p.Bar(elapsed), poll, mentions)
	if failed > 0 {
		line += fmt.Sprintf("  failed %d", failed)
	}
	fmt.Fprintf(p.w, "\r%s", line)
}

// Done ends the status line
func (p *PollProgress) Done() {
	fmt.Fprintln(p.w)
}
