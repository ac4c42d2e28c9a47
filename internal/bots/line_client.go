package bots

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultLineAPIBaseURL is the LINE Messaging API endpoint.
const DefaultLineAPIBaseURL = "https://api.line.me"

// LineClient sends replies through the LINE Messaging API.
type LineClient struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

// NewLineClient creates a client. An empty baseURL uses the public API.
func NewLineClient(baseURL, accessToken string, timeout time.Duration) *LineClient {
	if baseURL == "" {
		baseURL = DefaultLineAPIBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LineClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		client:      &http.Client{Timeout: timeout},
	}
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []LineMessage `json:"messages"`
}

// Reply posts messages for a reply token. LINE accepts at most five
// messages per reply.
func (c *LineClient) Reply(ctx context.Context, replyToken string, messages []LineMessage) error {
	if len(messages) == 0 {
		return nil
	}
	if len(messages) > 5 {
		messages = messages[:5]
	}

	body, err := json.Marshal(replyRequest{ReplyToken: replyToken, Messages: messages})
	if err != nil {
		return fmt.Errorf("marshalling reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/bot/message/reply", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating reply request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending reply: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("line returned status %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}
