package huggingface

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/transcript-summarizer/internal/domain/summarizer"
	apperrors "github.com/yanqian/transcript-summarizer/pkg/errors"
)

func TestSummarizeSuccess(t *testing.T) {
	t.Parallel()
	var got summarizeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/models/facebook/bart-large-cnn", r.URL.Path)
		require.Equal(t, "Bearer hf-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`[{"summary_text":"S"}]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, time.Second)
	completion, err := client.Summarize(context.Background(), "transcript", summarizer.BuildSpec(summarizer.ModeExtractive, summarizer.StyleLong))
	require.NoError(t, err)
	require.Equal(t, "S", completion.Text)
	require.Equal(t, "facebook/bart-large-cnn", completion.Model)

	require.Equal(t, "transcript", got.Inputs)
	require.Equal(t, parameters{MaxLength: 250, MinLength: 100, DoSample: false}, got.Parameters)
}

func TestSummarizeModelLoading(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model facebook/bart-large-cnn is currently loading","estimated_time":20}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, time.Second).Summarize(context.Background(), "x", summarizer.BuildSpec(summarizer.ModeExtractive, summarizer.StyleShort))
	require.True(t, apperrors.IsCode(err, apperrors.CodeModelLoading))
	appErr, _ := apperrors.As(err)
	require.Equal(t, http.StatusServiceUnavailable, appErr.Status)
	require.JSONEq(t, `{"error":"Model facebook/bart-large-cnn is currently loading","estimated_time":20}`, string(appErr.Detail.(json.RawMessage)))
}

func TestSummarizeProviderErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantDetail any
	}{
		{
			name:       "upstream error status",
			status:     http.StatusBadRequest,
			body:       `{"error":"bad input"}`,
			wantStatus: http.StatusBadRequest,
			wantDetail: json.RawMessage(`{"error":"bad input"}`),
		},
		{
			name:       "missing summary field",
			status:     http.StatusOK,
			body:       `[{"generated_text":"nope"}]`,
			wantStatus: http.StatusOK,
			wantDetail: json.RawMessage(`[{"generated_text":"nope"}]`),
		},
		{
			name:       "non json payload",
			status:     http.StatusBadGateway,
			body:       "upstream exploded",
			wantStatus: http.StatusBadGateway,
			wantDetail: "upstream exploded",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv.URL, time.Second).Summarize(context.Background(), "x", summarizer.BuildSpec(summarizer.ModeExtractive, summarizer.StyleMedium))
			require.True(t, apperrors.IsCode(err, apperrors.CodeProviderError))
			appErr, _ := apperrors.As(err)
			require.Equal(t, tt.wantStatus, appErr.Status)
			require.Equal(t, tt.wantDetail, appErr.Detail)
		})
	}
}

func TestSummarizeTimeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := newTestClient(t, srv.URL, 50*time.Millisecond).Summarize(context.Background(), "x", summarizer.BuildSpec(summarizer.ModeExtractive, summarizer.StyleMedium))
	require.True(t, apperrors.IsCode(err, apperrors.CodeTimeout))
}

func TestSummarizeInvalidEndpoint(t *testing.T) {
	t.Parallel()
	client, err := NewClient("hf-key", "http://bad host/models", "", time.Second)
	require.NoError(t, err)

	_, err = client.Summarize(context.Background(), "x", summarizer.BuildSpec(summarizer.ModeExtractive, summarizer.StyleShort))
	require.True(t, apperrors.IsCode(err, apperrors.CodeProviderError))
	require.ErrorContains(t, err, "build inference request")
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Parallel()
	_, err := NewClient("  ", "", "", 0)
	require.Error(t, err)

	client, err := NewClient("key", "", "", 0)
	require.NoError(t, err)
	require.Equal(t, defaultModel, client.Name())
	require.Equal(t, summarizer.ModeExtractive, client.Mode())
	require.Equal(t, defaultTimeout, client.httpClient.Timeout)
}

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	t.Helper()
	client, err := NewClient("hf-key", baseURL+"/models", "", timeout)
	require.NoError(t, err)
	return client
}
