// Package notify holds the outbound delivery collaborators used by the
// action dispatcher: Chatwork room messages and SMTP email.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ChatworkClient delivers messages through the Chatwork REST API
type ChatworkClient struct {
	apiURL string
	token  string
	client *http.Client
}

// NewChatworkClient creates a client for the given API base URL and token
func NewChatworkClient(apiURL, token string) *ChatworkClient {
	return &ChatworkClient{
		apiURL: strings.TrimSuffix(apiURL, "/"),
		token:  token,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// SendRoomMessage posts a message to a Chatwork room, flagged unread so the
// recipient notices the notification
func (c *ChatworkClient) SendRoomMessage(ctx context.Context, roomID, body string) error {
	if c.token == "" {
		return fmt.Errorf("chatwork API token is not configured")
	}

	form := url.Values{}
	form.Set("body", body)
	form.Set("self_unread", "1")

	endpoint := fmt.Sprintf("%s/rooms/%s/messages", c.apiURL, url.PathEscape(roomID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-ChatWorkToken", c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chatwork API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return nil
}
