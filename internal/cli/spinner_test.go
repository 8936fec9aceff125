package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
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

func TestSpinnerDrawsAndErases(t *testing.T) {
	var out syncBuffer
	s := startSpinner(context.Background(), &out, "Connecting to redis...")
	time.Sleep(4 * spinnerTick)
	s.stop()

	got := out.String()
	if !strings.Contains(got, "Connecting to redis...") {
		t.Errorf("output = %q, want the label", got)
	}
	if !strings.HasSuffix(got, strings.Repeat(" ", len("Connecting to redis...")+2)+"\r") {
		t.Errorf("output = %q, want the line erased last", got)
	}
}

func TestSpinnerEndsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := startSpinner(ctx, &syncBuffer{}, "Rendering png...")
	cancel()

	select {
	case <-s.exited:
	case <-time.After(time.Second):
		t.Fatal("spinner still running after its context ended")
	}
	s.stop()
}

func TestSpinnerStopTwice(t *testing.T) {
	s := startSpinner(context.Background(), &syncBuffer{}, "Connecting to mongo...")
	s.stop()
	s.stop()
}

func TestSpinnerStopBeforeFirstFrame(t *testing.T) {
	var out syncBuffer
	s := startSpinner(context.Background(), &out, "Rendering pdf...")
	s.stop()

	if strings.Contains(out.String(), "Rendering pdf...") {
		t.Errorf("output = %q, want no frame before the first tick", out.String())
	}
}
