package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer shared with the animation goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func onTerminal(t *testing.T) {
	t.Helper()
	prev := isTerminal
	isTerminal = func(io.Writer) bool { return true }
	t.Cleanup(func() { isTerminal = prev })
}

func TestSpinnerDrawsLabelAndElapsed(t *testing.T) {
	onTerminal(t)
	var out syncBuffer

	s := startSpinner(context.Background(), &out, "Generating wheel graph (40 nodes)")
	time.Sleep(4 * spinnerInterval)
	s.SetLabel("Writing 3 artifacts")
	time.Sleep(4 * spinnerInterval)
	s.Stop()

	got := out.String()
	for _, want := range []string{"Generating wheel graph (40 nodes)", "Writing 3 artifacts", "s"} {
		if !strings.Contains(got, want) {
			t.Errorf("spinner output missing %q: %q", want, got)
		}
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("Stop should leave a cleared line, got tail %q", got[max(0, len(got)-10):])
	}
}

func TestSpinnerSilentWithoutTerminal(t *testing.T) {
	var out syncBuffer
	s := startSpinner(context.Background(), &out, "Generating random graph (10 nodes)")
	time.Sleep(3 * spinnerInterval)
	s.Stop()
	if got := out.String(); got != "" {
		t.Errorf("non-terminal output = %q, want nothing", got)
	}
}

func TestSpinnerFollowsParentContext(t *testing.T) {
	onTerminal(t)
	timeout, cancelTimeout := context.WithTimeout(context.Background(), 3*spinnerInterval)
	defer cancelTimeout()
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"cancelled", cancelled},
		{"timeout", timeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out syncBuffer
			s := startSpinner(tt.ctx, &out, "waiting")
			select {
			case <-s.done:
			case <-time.After(time.Second):
				t.Fatal("animation still running after parent context ended")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	onTerminal(t)
	var out syncBuffer
	s := startSpinner(context.Background(), &out, "stopping")
	s.Stop()
	s.Stop()
}
