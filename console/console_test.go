package console

import (
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// recordingWriter forwards every Write to a channel so tests can observe
// output produced on other goroutines.
type recordingWriter struct {
	mu     sync.Mutex
	writes chan string
	all    strings.Builder
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{writes: make(chan string, 64)}
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	w.all.Write(p)
	w.mu.Unlock()
	w.writes <- string(p)
	return len(p), nil
}

func (w *recordingWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.all.String()
}

func (w *recordingWriter) next(t *testing.T) string {
	t.Helper()
	select {
	case s := <-w.writes:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a write")
		return ""
	}
}

func TestCollectorConcatenatesLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single line", "hello\n\n", "hello"},
		{"multiple lines", "first \nsecond\nthird\n\n", "first secondthird"},
		{"crlf line endings", "a\r\nb\r\n\r\n", "ab"},
		{"eof terminates partial turn", "tail", "tail"},
		{"leading empty lines re-prompt", "\n\nhello\n\n", "hello"},
		{"whitespace-only turn is kept", "   \n\n", "   "},
		{"whitespace lines concatenate", "   \n \t\n\n", "    \t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(strings.NewReader(tt.input), io.Discard, "You: ", "")
			got, err := c.Collect()
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Collect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollectorPrompts(t *testing.T) {
	var out strings.Builder
	c := NewCollector(strings.NewReader("one\ntwo\n\n"), &out, "You: ", "... ")
	if _, err := c.Collect(); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if got := out.String(); got != "You: ... ... " {
		t.Fatalf("prompts = %q, want %q", got, "You: ... ... ")
	}
}

func TestCollectorEmptyLinesKeepReprompting(t *testing.T) {
	const n = 25
	var out strings.Builder
	c := NewCollector(strings.NewReader(strings.Repeat("\n", n)), &out, "> ", "")

	got, err := c.Collect()
	if err != io.EOF {
		t.Fatalf("Collect() error = %v, want io.EOF", err)
	}
	if got != "" {
		t.Fatalf("Collect() = %q, want no turn", got)
	}
	// One prompt per empty line plus the one that hit end of input.
	if prompts := strings.Count(out.String(), "> "); prompts != n+1 {
		t.Fatalf("prompted %d times, want %d", prompts, n+1)
	}
}

func TestCollectorSequentialTurns(t *testing.T) {
	c := NewCollector(strings.NewReader("a\n\nb\nc\n\n"), io.Discard, "", "")
	for _, want := range []string{"a", "bc"} {
		got, err := c.Collect()
		if err != nil || got != want {
			t.Fatalf("Collect() = %q, %v; want %q", got, err, want)
		}
	}
	if _, err := c.Collect(); err != io.EOF {
		t.Fatalf("Collect() after input ended error = %v, want io.EOF", err)
	}
}

func TestIsExitCommand(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"q", true},
		{"exit", true},
		{"  exit \t", true},
		{" q", true},
		{"quit", false},
		{"Q", false},
		{"exit now", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsExitCommand(tt.in); got != tt.want {
			t.Errorf("IsExitCommand(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
