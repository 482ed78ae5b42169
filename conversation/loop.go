package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/linanwx/chatcli/console"
	"github.com/linanwx/chatcli/logger"
	"github.com/linanwx/chatcli/provider"
)

// TurnReader yields one complete user turn per call.
type TurnReader interface {
	Collect() (string, error)
}

// Renderer prints a reply and returns once it is fully on screen.
type Renderer interface {
	Type(ctx context.Context, text string) error
}

// Config wires the loop's collaborators.
type Config struct {
	Provider   provider.Provider
	Input      TurnReader
	Output     Renderer
	Progress   *console.Progress // nil disables the spinner
	Transcript *Transcript       // nil starts an empty transcript
	Budget     *Budget           // nil disables the context warning
	ReplyLabel string
	// Errors receives one line per API error regardless of logging
	// settings. nil discards them.
	Errors io.Writer
}

// Loop alternates between waiting for input and waiting for a reply.
type Loop struct {
	provider   provider.Provider
	input      TurnReader
	output     Renderer
	progress   *console.Progress
	transcript *Transcript
	budget     *Budget
	replyLabel string
	errOut     io.Writer
}

// NewLoop creates a conversation loop.
func NewLoop(cfg Config) *Loop {
	errOut := cfg.Errors
	if errOut == nil {
		errOut = io.Discard
	}
	transcript := cfg.Transcript
	if transcript == nil {
		transcript = NewTranscript()
	}
	return &Loop{
		provider:   cfg.Provider,
		input:      cfg.Input,
		output:     cfg.Output,
		progress:   cfg.Progress,
		transcript: transcript,
		budget:     cfg.Budget,
		replyLabel: cfg.ReplyLabel,
		errOut:     errOut,
	}
}

// Transcript returns the loop's transcript.
func (l *Loop) Transcript() *Transcript {
	return l.transcript
}

// Run reads turns until the user exits or input ends, which return nil.
// A transport failure ends the loop with an error.
func (l *Loop) Run(ctx context.Context) error {
	for {
		input, err := l.input.Collect()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if console.IsExitCommand(input) {
			logger.Debug("exit command received")
			return nil
		}
		if err := l.Round(ctx, input); err != nil {
			return err
		}
	}
}

// Round sends one user turn and renders the reply. API errors are written
// to the error writer and leave only the user turn in the transcript; any
// other failure is returned.
func (l *Loop) Round(ctx context.Context, input string) error {
	l.transcript.Append(provider.UserMessage(input))
	turns := l.transcript.Turns()
	l.budget.Check(turns)

	spin := l.progress.Start()
	resp, err := l.provider.Chat(ctx, &provider.Request{Messages: turns})
	spin.Stop()

	if err != nil {
		if provider.IsAPIError(err) {
			logger.Debug("completion rejected", "err", err, "turns", len(turns))
			_, _ = fmt.Fprintf(l.errOut, "\nError: %v\n", err)
			return nil
		}
		return fmt.Errorf("completion request failed: %w", err)
	}

	l.transcript.Append(provider.AssistantMessage(resp.Content))
	if err := l.output.Type(ctx, "\n"+l.replyLabel+resp.Content); err != nil {
		return fmt.Errorf("failed to render reply: %w", err)
	}
	return nil
}
