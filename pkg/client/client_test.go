package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptshare/prompt-service/pkg/likeguard"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*PromptClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	guard, err := likeguard.Open(filepath.Join(t.TempDir(), "liked.json"))
	require.NoError(t, err)

	return NewPromptClient(server.URL, guard), server
}

func TestLikePromptSuppressesDuplicates(t *testing.T) {
	var calls int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/prompts/7/like", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Prompt liked"}`))
	})
	ctx := context.Background()

	require.NoError(t, client.LikePrompt(ctx, 7))
	assert.True(t, client.HasLiked(7))

	// The second like never reaches the server.
	assert.ErrorIs(t, client.LikePrompt(ctx, 7), ErrAlreadyLiked)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestLikePromptRollsBackOnServerFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"message":"Service temporarily unavailable"}`))
	})
	ctx := context.Background()

	err := client.LikePrompt(ctx, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	// The optimistic mark was rolled back, so a retry is possible.
	assert.False(t, client.HasLiked(7))
}

func TestLikePromptNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Prompt not found"}`))
	})

	err := client.LikePrompt(context.Background(), 404)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Prompt not found")
	assert.False(t, client.HasLiked(404))
}

func TestGetPrompt(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/prompts/1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"title":"Minimalist logo brief","category":"Art","like_count":3}`))
	})

	prompt, err := client.GetPrompt(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), prompt.ID)
	assert.Equal(t, "Minimalist logo brief", prompt.Title)
	assert.Equal(t, 3, prompt.LikeCount)
}
