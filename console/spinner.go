package console

import (
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/jonboulle/clockwork"
)

// DefaultSpinner is the three-dot cycle shown while a request is in flight.
var DefaultSpinner = spinner.Spinner{
	Frames: []string{".", "..", "..."},
	FPS:    100 * time.Millisecond,
}

var spinnerPresets = map[string]spinner.Spinner{
	"ellipsis":  DefaultSpinner,
	"line":      spinner.Line,
	"dot":       spinner.Dot,
	"minidot":   spinner.MiniDot,
	"jump":      spinner.Jump,
	"pulse":     spinner.Pulse,
	"points":    spinner.Points,
	"globe":     spinner.Globe,
	"moon":      spinner.Moon,
	"monkey":    spinner.Monkey,
	"meter":     spinner.Meter,
	"hamburger": spinner.Hamburger,
}

// SpinnerByName returns a spinner preset. Unknown names fall back to the
// default and report false.
func SpinnerByName(name string) (spinner.Spinner, bool) {
	s, ok := spinnerPresets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return DefaultSpinner, false
	}
	return s, true
}

// SpinnerNames lists the available presets.
func SpinnerNames() []string {
	names := make([]string, 0, len(spinnerPresets))
	for name := range spinnerPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Progress draws a rotating glyph at the start of the current line.
// A nil *Progress is valid and draws nothing.
type Progress struct {
	w        io.Writer
	clock    clockwork.Clock
	frames   []string
	interval time.Duration
}

// NewProgress creates a progress indicator. A non-positive interval uses
// the spinner's own frame rate.
func NewProgress(w io.Writer, clock clockwork.Clock, s spinner.Spinner, interval time.Duration) *Progress {
	if interval <= 0 {
		interval = s.FPS
	}
	frames := s.Frames
	if len(frames) == 0 {
		frames = DefaultSpinner.Frames
	}
	return &Progress{w: w, clock: clock, frames: frames, interval: interval}
}

// Spin is the handle of a running indicator.
type Spin struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Start begins drawing on a separate goroutine until Stop is called.
func (p *Progress) Start() *Spin {
	if p == nil {
		return &Spin{}
	}
	s := &Spin{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go p.run(s)
	return s
}

func (p *Progress) run(s *Spin) {
	defer close(s.done)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.Chan():
			select {
			case <-s.stop:
				return
			default:
			}
			i = (i + 1) % len(p.frames)
			_, _ = io.WriteString(p.w, "\r"+p.frames[i])
		}
	}
}

// Stop cancels the indicator. No glyph is written once Stop returns.
func (s *Spin) Stop() {
	if s.stop == nil {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
}
