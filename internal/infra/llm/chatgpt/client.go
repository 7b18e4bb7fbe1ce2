package chatgpt

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/yanqian/transcript-summarizer/internal/domain/summarizer"
	apperrors "github.com/yanqian/transcript-summarizer/pkg/errors"
	"github.com/yanqian/transcript-summarizer/pkg/metrics"
)

const (
	defaultModel   = openai.GPT4oMini
	defaultTimeout = 30 * time.Second

	systemPrompt = "You are an assistant that summarizes video transcripts faithfully. " +
		"Never add facts that are not in the transcript."
)

// Client drives an OpenAI compatible chat completion API.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient constructs a ChatGPT client.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("chatgpt api key cannot be empty")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		clientConfig.BaseURL = strings.TrimRight(baseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Name implements summarizer.Provider.
func (c *Client) Name() string { return c.model }

// Mode implements summarizer.Provider.
func (c *Client) Mode() summarizer.Mode { return summarizer.ModeGenerative }

// Summarize implements summarizer.Provider.
func (c *Client) Summarize(ctx context.Context, transcript string, spec summarizer.GenerationSpec) (summarizer.Completion, error) {
	if spec.Instruction == "" {
		spec = summarizer.BuildSpec(summarizer.ModeGenerative, spec.Style)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: spec.Temperature,
		MaxTokens:   spec.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: spec.Prompt(transcript)},
		},
	})
	if err != nil {
		return summarizer.Completion{}, translateError(ctx, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return summarizer.Completion{}, apperrors.New(apperrors.CodeProviderError, "chatgpt returned no summary", nil).
			WithDetail(http.StatusOK, map[string]any{"id": resp.ID, "choices": len(resp.Choices)})
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}
	return summarizer.Completion{
		Text:  resp.Choices[0].Message.Content,
		Model: model,
		Usage: metrics.NewTokenUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens),
	}, nil
}

func translateError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) || isNetTimeout(err) {
		return apperrors.New(apperrors.CodeTimeout, "chatgpt request timed out", err).WithDetail(0, err.Error())
	}

	var (
		status int
		detail any = err.Error()
	)
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
		detail = map[string]any{"message": apiErr.Message, "type": apiErr.Type, "code": apiErr.Code}
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	if status == http.StatusServiceUnavailable {
		return apperrors.New(apperrors.CodeModelLoading, "chatgpt model unavailable", err).WithDetail(status, detail)
	}
	return apperrors.New(apperrors.CodeProviderError, "chatgpt request failed", err).WithDetail(status, detail)
}

func isNetTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var _ summarizer.Provider = (*Client)(nil)
