// Package conversation holds the running transcript and the turn-taking
// loop that drives a console chat session.
package conversation

import "github.com/linanwx/chatcli/provider"

// Transcript is the ordered history of turns sent with every request.
// It only grows.
type Transcript struct {
	turns []provider.Message
}

// NewTranscript creates a transcript seeded with the given turns.
func NewTranscript(seed ...provider.Message) *Transcript {
	t := &Transcript{}
	t.turns = append(t.turns, seed...)
	return t
}

// Append adds a turn at the end.
func (t *Transcript) Append(m provider.Message) {
	t.turns = append(t.turns, m)
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Turns returns a copy of all turns in order.
func (t *Transcript) Turns() []provider.Message {
	out := make([]provider.Message, len(t.turns))
	copy(out, t.turns)
	return out
}

// Last returns the most recent turn.
func (t *Transcript) Last() (provider.Message, bool) {
	if len(t.turns) == 0 {
		return provider.Message{}, false
	}
	return t.turns[len(t.turns)-1], true
}
