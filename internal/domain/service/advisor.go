package service

import (
	"context"

	"FxDesk/internal/domain/models"
)

// CompletionRequest is one call to the completion API.
type CompletionRequest struct {
	Model       models.ModelTier
	Instruction string
	MaxTokens   int
	JSONShaped  bool
}

// CompletionResponse carries the raw completion text and real token usage.
type CompletionResponse struct {
	Text        string
	TotalTokens int
}

// Completer sends a compiled prompt to the completion API.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}
