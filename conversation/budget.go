package conversation

import (
	"github.com/tiktoken-go/tokenizer"

	"github.com/linanwx/chatcli/logger"
	"github.com/linanwx/chatcli/provider"
)

const (
	tokensPerMessage = 4 // role and framing overhead per turn
	tokensPerReply   = 3 // priming for the assistant reply
)

// Budget estimates the prompt size of a transcript. The transcript is never
// truncated, so the estimate only drives a warning.
type Budget struct {
	codec  tokenizer.Codec
	window int
	ratio  float64
	warned bool
}

// NewBudget creates a budget for model with the given context window.
// Models unknown to the tokenizer are counted with cl100k_base.
func NewBudget(model string, window int, ratio float64) (*Budget, error) {
	codec, err := tokenizer.ForModel(tokenizer.Model(model))
	if err != nil {
		codec, err = tokenizer.Get(tokenizer.Cl100kBase)
		if err != nil {
			return nil, err
		}
	}
	return &Budget{codec: codec, window: window, ratio: ratio}, nil
}

// Estimate returns the approximate prompt tokens of turns.
func (b *Budget) Estimate(turns []provider.Message) int {
	total := tokensPerReply
	for _, m := range turns {
		total += tokensPerMessage
		ids, _, err := b.codec.Encode(m.Content)
		if err != nil {
			total += len(m.Content) / 4
			continue
		}
		total += len(ids)
	}
	return total
}

// Check logs a warning the first time the estimate crosses the threshold
// and reports whether it is over.
func (b *Budget) Check(turns []provider.Message) bool {
	if b == nil || b.window <= 0 {
		return false
	}
	estimate := b.Estimate(turns)
	threshold := int(float64(b.window) * b.ratio)
	if estimate < threshold {
		return false
	}
	if !b.warned {
		b.warned = true
		logger.Warn(
			"transcript approaching context window",
			"estimatedTokens", estimate,
			"contextWindowTokens", b.window,
			"turns", len(turns),
		)
	}
	return true
}
