package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// isTerminal reports whether w is an interactive terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// spinner animates a status line such as "⠹ Generating wheel graph (40
// nodes) 1.2s" while a run is in flight. It draws nothing unless out is a
// terminal, so redirected stderr holds only log lines.
type spinner struct {
	out   io.Writer
	start time.Time

	ctx  context.Context
	halt context.CancelFunc
	done chan struct{}
	once sync.Once

	mu    sync.Mutex
	label string
	width int
}

// startSpinner begins animating label on out. The animation ends with Stop
// or when ctx is done.
func startSpinner(ctx context.Context, out io.Writer, label string) *spinner {
	ctx, halt := context.WithCancel(ctx)
	s := &spinner{
		out:   out,
		start: time.Now(),
		ctx:   ctx,
		halt:  halt,
		done:  make(chan struct{}),
		label: label,
	}
	if !isTerminal(out) {
		close(s.done)
		return s
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

// SetLabel replaces the text shown next to the frame.
func (s *spinner) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := time.Since(s.start).Truncate(100 * time.Millisecond)
	line := fmt.Sprintf("%s %s %s", styleIconSpinner.Render(frame), s.label, StyleDim.Render(elapsed.String()))
	w := lipgloss.Width(line)
	// Pad over the tail of a longer previous label.
	fmt.Fprintf(s.out, "\r%s%s", line, strings.Repeat(" ", max(0, s.width-w)))
	s.width = max(w, s.width)
}

// Stop ends the animation and clears the line. It may be called more than
// once.
func (s *spinner) Stop() {
	s.once.Do(func() {
		s.halt()
		<-s.done

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
		}
	})
}
