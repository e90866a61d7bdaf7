package chat

import (
	"context"
	"fmt"
	"strings"
)

// NewStrategy builds the strategy selected by name ("keyword" or "gemini").
func NewStrategy(ctx context.Context, name, apiKey, model string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "keyword":
		return NewKeywordStrategy(), nil
	case "gemini":
		return NewGeminiStrategy(ctx, apiKey, model)
	default:
		return nil, fmt.Errorf("unknown chat strategy %q (want keyword or gemini)", name)
	}
}
