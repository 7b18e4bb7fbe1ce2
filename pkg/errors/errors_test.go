package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapMessage(t *testing.T) {
	t.Parallel()
	err := Wrap(CodeProviderError, "provider call failed", errors.New("boom"))
	require.EqualError(t, err, "provider call failed: boom")
	require.True(t, IsCode(err, CodeProviderError))
	require.False(t, IsCode(err, CodeTimeout))
}

func TestCodeOfWrapped(t *testing.T) {
	t.Parallel()
	inner := New(CodeModelLoading, "model loading", nil).WithDetail(http.StatusServiceUnavailable, "warming up")
	outer := fmt.Errorf("dispatch: %w", inner)

	require.Equal(t, CodeModelLoading, CodeOf(outer))
	require.Equal(t, http.StatusServiceUnavailable, UpstreamStatus(outer))

	appErr, ok := As(outer)
	require.True(t, ok)
	require.Equal(t, "warming up", appErr.Detail)
}

func TestCodeOfPlainError(t *testing.T) {
	t.Parallel()
	require.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	require.Zero(t, UpstreamStatus(errors.New("plain")))
}
