package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"resume-builder/pkg/ai/formatters"

	"go.uber.org/zap"
)

const maxHistory = 10

// Client calls the internal ai-service chat endpoint. The service is
// stateless, so the client replays recent chat turns with every message.
type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Attempts int
	Backoff  time.Duration

	steps  []string
	logger *zap.Logger

	mu      sync.Mutex
	history []string
}

func NewClient(baseURL string, steps []string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		HTTP:     &http.Client{Timeout: 60 * time.Second},
		Attempts: 3,
		Backoff:  time.Second,
		steps:    steps,
		logger:   logger,
	}
}

func (c *Client) Improve(ctx context.Context, text string, mode Mode) string {
	f, err := formatters.ForMode(string(mode))
	if err != nil {
		c.logger.Warn("improve skipped", zap.Error(err))
		return text
	}
	out, err := c.send(ctx, f.Prompt(text))
	if err != nil {
		c.logger.Error("improve failed", zap.String("mode", string(mode)), zap.Error(err))
		return text
	}
	out = strings.TrimSpace(out)
	if out == "" {
		c.logger.Warn("improve returned empty text", zap.String("mode", string(mode)))
		return text
	}
	return out
}

func (c *Client) Chat(ctx context.Context, message, contextSummary string) Reply {
	msg := formatters.ChatMessage(contextSummary, message)

	c.mu.Lock()
	history := append([]string(nil), c.history...)
	c.mu.Unlock()

	var b strings.Builder
	b.WriteString(formatters.ChatInstruction(c.steps))
	b.WriteString("\n\n")
	b.WriteString(formatters.ChatReplyFormat)
	for _, h := range history {
		b.WriteString("\n\n")
		b.WriteString(h)
	}
	b.WriteString("\n\n")
	b.WriteString(msg)

	out, err := c.send(ctx, b.String())
	if err != nil {
		c.logger.Error("chat failed", zap.Error(err))
		return Reply{Text: ChatFailureText}
	}
	reply, err := parseReply(out)
	if err != nil {
		c.logger.Error("chat reply unusable", zap.Error(err))
		return Reply{Text: ChatFailureText}
	}

	c.mu.Lock()
	c.history = append(c.history, msg, "Assistant: "+reply.Text)
	if len(c.history) > maxHistory {
		c.history = c.history[len(c.history)-maxHistory:]
	}
	c.mu.Unlock()
	return reply
}

func (c *Client) Close() error {
	c.HTTP.CloseIdleConnections()
	return nil
}

// send posts {agent, input} to /v1/chat and returns the output field.
func (c *Client) send(ctx context.Context, input string) (string, error) {
	b, err := json.Marshal(map[string]interface{}{"agent": "auto", "input": input})
	if err != nil {
		return "", err
	}
	resp, err := c.doPostWithRetry(ctx, "/v1/chat", b)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	c.logger.Debug("ai-service response", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(respBytes)))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai-service returned non-200 status: %d", resp.StatusCode)
	}

	var chatResp struct {
		Agent  string `json:"agent"`
		Output string `json:"output"`
	}
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", err
	}
	return chatResp.Output, nil
}

// doPostWithRetry performs an HTTP POST to the given path with retry/backoff.
func (c *Client) doPostWithRetry(ctx context.Context, path string, body []byte) (*http.Response, error) {
	var lastErr error
	for i := 0; i < c.Attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if i < c.Attempts-1 {
			backoff := time.Duration(1<<i) * c.Backoff
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}
