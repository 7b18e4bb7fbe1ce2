package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/transcript-summarizer/internal/domain/summarizer"
	apperrors "github.com/yanqian/transcript-summarizer/pkg/errors"
)

const (
	defaultBaseURL = "https://api-inference.huggingface.co/models"
	defaultModel   = "facebook/bart-large-cnn"
	defaultTimeout = 30 * time.Second

	maxResponseBytes = 1 << 20
)

// summarizeRequest is the inference payload for summarization models.
type summarizeRequest struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type summarizeResult struct {
	SummaryText string `json:"summary_text"`
}

// Client calls the Hugging Face inference API for extractive summaries.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient constructs a Hugging Face client.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("huggingface api key cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   strings.Trim(model, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Name implements summarizer.Provider.
func (c *Client) Name() string { return c.model }

// Mode implements summarizer.Provider.
func (c *Client) Mode() summarizer.Mode { return summarizer.ModeExtractive }

// Summarize implements summarizer.Provider.
func (c *Client) Summarize(ctx context.Context, transcript string, spec summarizer.GenerationSpec) (summarizer.Completion, error) {
	if spec.Extractive == nil {
		spec = summarizer.BuildSpec(summarizer.ModeExtractive, spec.Style)
	}
	payload, err := json.Marshal(summarizeRequest{
		Inputs: transcript,
		Parameters: parameters{
			MaxLength: spec.Extractive.MaxLength,
			MinLength: spec.Extractive.MinLength,
			DoSample:  spec.Extractive.DoSample,
		},
	})
	if err != nil {
		return summarizer.Completion{}, apperrors.Wrap(apperrors.CodeProviderError, "encode inference request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+c.model, bytes.NewReader(payload))
	if err != nil {
		return summarizer.Completion{}, apperrors.Wrap(apperrors.CodeProviderError, "build inference request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(ctx, err) {
			return summarizer.Completion{}, apperrors.New(apperrors.CodeTimeout, "inference request timed out", err).
				WithDetail(0, err.Error())
		}
		return summarizer.Completion{}, apperrors.New(apperrors.CodeProviderError, "inference request failed", err).
			WithDetail(0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(ctx, err) {
			return summarizer.Completion{}, apperrors.New(apperrors.CodeTimeout, "inference response timed out", err).
				WithDetail(resp.StatusCode, err.Error())
		}
		return summarizer.Completion{}, apperrors.New(apperrors.CodeProviderError, "read inference response", err).
			WithDetail(resp.StatusCode, err.Error())
	}

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return summarizer.Completion{}, apperrors.New(apperrors.CodeModelLoading, "model is loading", nil).
			WithDetail(resp.StatusCode, rawDetail(body))
	case resp.StatusCode >= 300:
		return summarizer.Completion{}, apperrors.New(apperrors.CodeProviderError,
			fmt.Sprintf("inference request failed: status=%d", resp.StatusCode), nil).
			WithDetail(resp.StatusCode, rawDetail(body))
	}

	var results []summarizeResult
	if err := json.Unmarshal(body, &results); err != nil || len(results) == 0 || strings.TrimSpace(results[0].SummaryText) == "" {
		return summarizer.Completion{}, apperrors.New(apperrors.CodeProviderError, "invalid response from Hugging Face API", err).
			WithDetail(resp.StatusCode, rawDetail(body))
	}

	return summarizer.Completion{Text: results[0].SummaryText, Model: c.model}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// rawDetail keeps JSON payloads structured and everything else as text.
func rawDetail(body []byte) any {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}

var _ summarizer.Provider = (*Client)(nil)
