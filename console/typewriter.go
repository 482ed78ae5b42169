package console

import (
	"context"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
)

// Typewriter prints text one character per tick.
type Typewriter struct {
	w        io.Writer
	clock    clockwork.Clock
	interval time.Duration
}

// NewTypewriter creates a renderer. A non-positive interval prints the text
// at once.
func NewTypewriter(w io.Writer, clock clockwork.Clock, interval time.Duration) *Typewriter {
	return &Typewriter{w: w, clock: clock, interval: interval}
}

// Type writes text rune by rune followed by a newline and returns after the
// newline is written. If ctx is cancelled the rest of the text is flushed
// immediately.
func (t *Typewriter) Type(ctx context.Context, text string) error {
	runes := []rune(text)
	if t.interval <= 0 || len(runes) == 0 {
		_, err := io.WriteString(t.w, text+"\n")
		return err
	}

	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	for i := 0; i < len(runes); {
		select {
		case <-ctx.Done():
			if _, err := io.WriteString(t.w, string(runes[i:])+"\n"); err != nil {
				return err
			}
			return ctx.Err()
		case <-ticker.Chan():
			if _, err := io.WriteString(t.w, string(runes[i])); err != nil {
				return err
			}
			i++
		}
	}
	_, err := io.WriteString(t.w, "\n")
	return err
}
