package counting

import (
	"context"

	"github.com/liushuangls/go-anthropic/v2"
)

// NewAnthropicCounter returns a Counter backed by the Anthropic
// count-tokens endpoint. Errors propagate to the caller, which substitutes
// the Estimate fallback.
func NewAnthropicCounter(apiKey, model string) Counter {
	client := anthropic.NewClient(apiKey)
	return func(ctx context.Context, content string) (int, error) {
		if content == "" {
			return 0, nil
		}
		resp, err := client.CountTokens(ctx, anthropic.MessagesRequest{
			Model: anthropic.Model(model),
			Messages: []anthropic.Message{
				anthropic.NewUserTextMessage(content),
			},
		})
		if err != nil {
			return 0, err
		}
		return resp.InputTokens, nil
	}
}
