package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Braille dot spinner frames.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// elapsedAfter is how long a spinner runs before it shows elapsed time.
const elapsedAfter = time.Second

// Spinner displays an animated spinner with a message in the terminal.
type Spinner struct {
	w       io.Writer
	message string
	now     func() time.Time

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a new spinner writing to w with the given message.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation. Call Stop() to end it.
func (s *Spinner) Start() {
	started := s.now()
	go func() {
		defer close(s.done)
		i := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				// Clear the spinner line.
				fmt.Fprint(s.w, "\r\033[K")
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(s.w, "\r\033[K  %s %s", StylePurple.Render(frame), Dim(s.line(s.now().Sub(started))))
				i++
			}
		}
	}()
}

// line is the message, with elapsed seconds once the wait is noticeable.
func (s *Spinner) line(elapsed time.Duration) string {
	if elapsed < elapsedAfter {
		return s.message
	}
	return fmt.Sprintf("%s (%.0fs)", s.message, elapsed.Truncate(time.Second).Seconds())
}

// Stop ends the spinner animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.stop:
		// Already stopped.
		return
	default:
		close(s.stop)
	}
	<-s.done
}

// StartSpinner is a convenience function that creates, starts, and returns
// a spinner. Call the returned function to stop it.
func StartSpinner(w io.Writer, message string) func() {
	s := NewSpinner(w, message)
	s.Start()
	return s.Stop
}
