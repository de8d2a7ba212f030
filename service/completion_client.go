package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"webnova-cotizador/advisory"
)

// CompletionResult is the answer of the first model that succeeded
type CompletionResult struct {
	Content string
	Model   string
}

// CompletionClient posts chat completions to an OpenAI-compatible gateway,
// walking a prioritized model list until one answers
type CompletionClient struct {
	http        *resty.Client
	url         string
	apiKey      string
	models      []string
	temperature float64
	maxTokens   int
}

// Ensure CompletionClient implements CompletionClientInterface
var _ CompletionClientInterface = (*CompletionClient)(nil)

// NewCompletionClient creates a CompletionClient; timeout bounds each model attempt
func NewCompletionClient(url, apiKey string, models []string, temperature float64, maxTokens int, timeout time.Duration) *CompletionClient {
	return &CompletionClient{
		http:        resty.New().SetTimeout(timeout),
		url:         url,
		apiKey:      apiKey,
		models:      append([]string(nil), models...),
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

type chatRequest struct {
	Model       string             `json:"model"`
	Messages    []advisory.Message `json:"messages"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends messages to each model in order and returns the first usable
// answer. When every model fails the result is ErrAllModelsFailed.
func (c *CompletionClient) Complete(ctx context.Context, messages []advisory.Message) (*CompletionResult, error) {
	for _, model := range c.models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := c.completeWith(ctx, model, messages)
		if err != nil {
			log.Printf("⚠️  Complete: model %s failed: %v", model, err)
			continue
		}
		log.Printf("🤖 Complete: model %s answered (%d chars)", model, len(content))
		return &CompletionResult{Content: content, Model: model}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Printf("❌ Complete: all %d models failed", len(c.models))
	return nil, ErrAllModelsFailed
}

func (c *CompletionClient) completeWith(ctx context.Context, model string, messages []advisory.Message) (string, error) {
	var resp chatResponse
	rr, err := c.http.R().SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(chatRequest{
			Model:       model,
			Messages:    messages,
			Temperature: c.temperature,
			MaxTokens:   c.maxTokens,
		}).
		SetResult(&resp).
		Post(c.url)
	if err != nil {
		return "", err
	}
	if rr.IsError() {
		return "", fmt.Errorf("gateway returned %s", rr.Status())
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty completion")
	}
	return content, nil
}
