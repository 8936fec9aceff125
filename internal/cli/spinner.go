package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// spinner redraws a single status line on w while a backend dial or an
// export is running.
type spinner struct {
	w      io.Writer
	label  string
	quit   chan struct{}
	exited chan struct{}
	once   sync.Once
}

// startSpinner draws label on w until stop is called or ctx ends.
func startSpinner(ctx context.Context, w io.Writer, label string) *spinner {
	s := &spinner{
		w:      w,
		label:  label,
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

// run owns every write to w.
func (s *spinner) run(ctx context.Context) {
	defer close(s.exited)
	defer s.erase()

	tick := time.NewTicker(spinnerTick)
	defer tick.Stop()

	for n := 0; ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		case <-tick.C:
			frame := spinnerFrames[n%len(spinnerFrames)]
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.label))
		}
	}
}

func (s *spinner) erase() {
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", ansi.StringWidth(s.label)+2))
}

// stop waits for the status line to be erased. Repeated calls return at once.
func (s *spinner) stop() {
	s.once.Do(func() { close(s.quit) })
	<-s.exited
}
