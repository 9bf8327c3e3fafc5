// Package telegram implements the Bot API transport: long-polling for
// updates and rate-limited outbound sends.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// pollTimeout is the long-poll window requested from getUpdates.
const pollTimeout = 30 * time.Second

// Update is one inbound Bot API update.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is the slice of an inbound message the bot consumes.
type Message struct {
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
	Text string `json:"text"`
}

// Client talks to the Telegram Bot API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	// limiter paces outbound sends under the Bot API global limit
	limiter *rate.Limiter
}

// NewClient creates a Bot API client. The token is the transport
// credential and must be non-empty.
func NewClient(baseURL, token string, sendRate float64, burst int) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is required")
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 3 * time.Second
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = pollTimeout + 15*time.Second

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: retryClient.StandardClient(),
		limiter:    rate.NewLimiter(rate.Limit(sendRate), burst),
	}, nil
}

func (c *Client) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

// apiResponse is the Bot API envelope.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func (c *Client) call(ctx context.Context, method string, payload interface{}, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error encoding %s payload: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint(method), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading %s response: %w", method, err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("error decoding %s response: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram %s error: %s", method, envelope.Description)
	}
	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("error decoding %s result: %w", method, err)
		}
	}
	return nil
}

// SendMessage sends a Markdown-rendered reply to a chat, pacing under the
// send limiter.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("send limiter: %w", err)
	}
	return c.call(ctx, "sendMessage", map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}, nil)
}

// SendChatAction signals a transient status such as "typing" to a chat.
func (c *Client) SendChatAction(ctx context.Context, chatID int64, action string) error {
	return c.call(ctx, "sendChatAction", map[string]interface{}{
		"chat_id": chatID,
		"action":  action,
	}, nil)
}

// GetUpdates long-polls for updates after offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	var updates []Update
	err := c.call(ctx, "getUpdates", map[string]interface{}{
		"offset":          offset,
		"timeout":         int(pollTimeout.Seconds()),
		"allowed_updates": []string{"message"},
	}, &updates)
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// Handler consumes one inbound text message.
type Handler interface {
	HandleCommand(ctx context.Context, chatID int64, command string)
	HandleMessage(ctx context.Context, chatID int64, text string)
}

// Poll runs the long-polling loop until ctx is cancelled. Each update is
// handled in its own goroutine, so messages from different chats are
// processed concurrently.
func (c *Client) Poll(ctx context.Context, handler Handler) {
	var offset int64

	logrus.Info("Telegram polling started")
	for {
		select {
		case <-ctx.Done():
			logrus.Info("Telegram polling stopped")
			return
		default:
		}

		updates, err := c.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logrus.Warnf("getUpdates failed: %v", err)
			time.Sleep(3 * time.Second)
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			if update.Message == nil {
				continue
			}
			go dispatch(ctx, handler, update.Message.Chat.ID, update.Message.Text)
		}
	}
}

// dispatch routes commands and plain text to the handler.
func dispatch(ctx context.Context, handler Handler, chatID int64, text string) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "/") {
		command := strings.TrimPrefix(strings.Fields(trimmed)[0], "/")
		if at := strings.Index(command, "@"); at >= 0 {
			command = command[:at]
		}
		handler.HandleCommand(ctx, chatID, command)
		return
	}
	handler.HandleMessage(ctx, chatID, text)
}
