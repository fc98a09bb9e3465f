// Package client is a small Go client for the prompt service, covering the
// like flow with optimistic local duplicate suppression: the liked state is
// recorded before the request and rolled back when the server rejects it.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/promptshare/prompt-service/internal/models"
	"github.com/promptshare/prompt-service/pkg/likeguard"
)

// ErrAlreadyLiked is returned when this client already liked the prompt; no
// request is sent in that case.
var ErrAlreadyLiked = fmt.Errorf("prompt already liked by this client")

// PromptClient talks to the prompt service API.
type PromptClient struct {
	baseURL    string
	httpClient *http.Client
	guard      *likeguard.Guard
}

func NewPromptClient(baseURL string, guard *likeguard.Guard) *PromptClient {
	return &PromptClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		guard:      guard,
	}
}

// LikePrompt likes a prompt once per client installation. The local mark is
// taken before the request; on any failure it is rolled back so the user can
// retry.
func (c *PromptClient) LikePrompt(ctx context.Context, promptID uint) error {
	if c.guard.Seen(promptID) {
		return ErrAlreadyLiked
	}

	if err := c.guard.Mark(promptID); err != nil {
		return fmt.Errorf("failed to record like locally: %w", err)
	}

	if err := c.postLike(ctx, promptID); err != nil {
		if unmarkErr := c.guard.Unmark(promptID); unmarkErr != nil {
			return fmt.Errorf("like failed (%w) and local rollback failed: %v", err, unmarkErr)
		}
		return err
	}

	return nil
}

// HasLiked reports whether this client already liked the prompt.
func (c *PromptClient) HasLiked(promptID uint) bool {
	return c.guard.Seen(promptID)
}

// GetPrompt fetches a single prompt.
func (c *PromptClient) GetPrompt(ctx context.Context, promptID uint) (*models.Prompt, error) {
	url := fmt.Sprintf("%s/api/v1/prompts/%d", c.baseURL, promptID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	var prompt models.Prompt
	if err := json.NewDecoder(resp.Body).Decode(&prompt); err != nil {
		return nil, fmt.Errorf("failed to decode prompt: %w", err)
	}
	return &prompt, nil
}

func (c *PromptClient) postLike(ctx context.Context, promptID uint) error {
	url := fmt.Sprintf("%s/api/v1/prompts/%d/like", c.baseURL, promptID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp)
	}
	return nil
}

func (c *PromptClient) apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiErr struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}
