package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates one long-running step, such as trimming or rendering,
// on a single status line. It stops by itself when its context ends.
type spinner struct {
	w       io.Writer
	message string
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
}

// startSpinner draws message on w until stop is called or ctx is done.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	s := &spinner{
		w:       w,
		message: message,
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

// spin starts a spinner on stderr for terminal sessions. Elsewhere the
// spinner draws nothing so piped output stays clean.
func (c *CLI) spin(cmd *cobra.Command, message string) *spinner {
	w := io.Discard
	if interactive() {
		w = cmd.ErrOrStderr()
	}
	return startSpinner(cmd.Context(), w, message)
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			s.mu.Unlock()
		}
	}
}

// stop halts the animation and clears the line. Calling it again is a no-op.
func (s *spinner) stop() {
	s.once.Do(func() {
		close(s.quit)
		<-s.stopped
		s.mu.Lock()
		defer s.mu.Unlock()
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
	})
}

// done stops the spinner and reports the finished step.
func (s *spinner) done(format string, args ...any) {
	s.stop()
	printSuccess(format, args...)
}

// fail stops the spinner and reports the failed step.
func (s *spinner) fail(message string) {
	s.stop()
	printError("%s", message)
}
