// Package console implements the terminal side of a chat session: reading
// multi-line turns, the progress spinner and the typewriter renderer.
package console

import (
	"bufio"
	"io"
	"strings"
)

// Collector reads one logical user turn from possibly several physical
// lines. A turn ends at the first empty line.
type Collector struct {
	r            *bufio.Reader
	w            io.Writer
	prompt       string
	continuation string
}

// NewCollector creates a collector reading from r and writing prompts to w.
func NewCollector(r io.Reader, w io.Writer, prompt, continuation string) *Collector {
	return &Collector{
		r:            bufio.NewReader(r),
		w:            w,
		prompt:       prompt,
		continuation: continuation,
	}
}

// Collect blocks until a turn has been entered and returns the lines
// concatenated without separators. An empty first line re-prompts; a line of
// spaces is still input. io.EOF is returned once input ends with nothing
// collected.
func (c *Collector) Collect() (string, error) {
	for {
		turn, err := c.collectOnce()
		if turn != "" {
			return turn, nil
		}
		if err != nil {
			return "", err
		}
	}
}

func (c *Collector) collectOnce() (string, error) {
	var b strings.Builder
	if _, err := io.WriteString(c.w, c.prompt); err != nil {
		return "", err
	}
	for {
		line, err := c.r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if err != nil && b.Len() == 0 {
				return "", err
			}
			return b.String(), nil
		}
		b.WriteString(line)
		if err != nil {
			// Input ended mid-turn; what we have is the turn.
			return b.String(), nil
		}
		if _, err := io.WriteString(c.w, c.continuation); err != nil {
			return b.String(), err
		}
	}
}

// IsExitCommand reports whether input asks to end the session.
func IsExitCommand(input string) bool {
	switch strings.TrimSpace(input) {
	case "q", "exit":
		return true
	}
	return false
}
