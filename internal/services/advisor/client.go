package advisor

import (
	"context"
	"fmt"
	"time"

	"FxDesk/internal/domain/service"
	pkghttp "FxDesk/pkg/http"
	applogger "FxDesk/pkg/logger"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	systemPrompt   = "You are a forex market analyst. Answer precisely and follow the requested output format."
)

// OpenAIClient calls the chat completions endpoint.
type OpenAIClient struct {
	http    *pkghttp.Client
	baseURL string
	apiKey  func() string
	log     *applogger.Logger
}

type OpenAIOption func(*OpenAIClient)

func WithBaseURL(u string) OpenAIOption {
	return func(c *OpenAIClient) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// NewOpenAIClient builds a completer. apiKey is read per request so a key
// saved through the settings endpoint takes effect without a restart.
func NewOpenAIClient(apiKey func() string, log *applogger.Logger, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		http:    pkghttp.NewClient(pkghttp.WithTimeout(60 * time.Second)),
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model            string          `json:"model"`
	Messages         []chatMessage   `json:"messages"`
	MaxTokens        int             `json:"max_tokens,omitempty"`
	Temperature      float64         `json:"temperature"`
	TopP             float64         `json:"top_p"`
	FrequencyPenalty float64         `json:"frequency_penalty"`
	PresencePenalty  float64         `json:"presence_penalty"`
	ResponseFormat   *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends the compiled instruction and returns the model text plus
// the billed token count.
func (c *OpenAIClient) Complete(ctx context.Context, req service.CompletionRequest) (service.CompletionResponse, error) {
	key := c.apiKey()
	if key == "" {
		return service.CompletionResponse{}, ErrMissingCredential
	}

	body := chatRequest{
		Model: string(req.Model),
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: req.Instruction},
		},
		MaxTokens:        req.MaxTokens,
		Temperature:      0.7,
		TopP:             0.9,
		FrequencyPenalty: 0.2,
		PresencePenalty:  0.1,
	}
	if req.JSONShaped {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	start := time.Now()
	var out chatResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodPost,
		URL:    c.baseURL + "/chat/completions",
		Headers: map[string]string{
			"Authorization": "Bearer " + key,
			"Content-Type":  "application/json",
		},
		Body: body,
	}, &out)
	if err != nil {
		return service.CompletionResponse{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if len(out.Choices) == 0 {
		return service.CompletionResponse{}, fmt.Errorf("%w: completion has no choices", ErrNetwork)
	}

	c.log.Debug("openai completion_done",
		applogger.String("model", string(req.Model)),
		applogger.Int("tokens", out.Usage.TotalTokens),
		applogger.Duration("elapsed", time.Since(start)))

	return service.CompletionResponse{
		Text:        out.Choices[0].Message.Content,
		TotalTokens: out.Usage.TotalTokens,
	}, nil
}
