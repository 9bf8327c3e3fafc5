package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "test-token", 100, 10)
	require.NoError(t, err)
	return client
}

func okEnvelope(result string) string {
	return `{"ok":true,"result":` + result + `}`
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient("https://api.telegram.org", "", 25, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
}

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(okEnvelope("true")))
	})

	err := client.SendMessage(context.Background(), 42, "hello")
	require.NoError(t, err)

	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, float64(42), gotPayload["chat_id"])
	assert.Equal(t, "hello", gotPayload["text"])
	assert.Equal(t, "Markdown", gotPayload["parse_mode"])
}

func TestSendMessageAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	})

	err := client.SendMessage(context.Background(), 42, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendChatAction(t *testing.T) {
	var gotPayload map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(okEnvelope("true")))
	})

	require.NoError(t, client.SendChatAction(context.Background(), 42, "typing"))
	assert.Equal(t, "typing", gotPayload["action"])
}

func TestGetUpdates(t *testing.T) {
	var gotPayload map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(okEnvelope(`[
			{"update_id":10,"message":{"chat":{"id":42},"text":"hi"}},
			{"update_id":11,"message":null}
		]`)))
	})

	updates, err := client.GetUpdates(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, float64(7), gotPayload["offset"])
	require.Len(t, updates, 2)
	assert.Equal(t, int64(10), updates[0].UpdateID)
	require.NotNil(t, updates[0].Message)
	assert.Equal(t, int64(42), updates[0].Message.Chat.ID)
	assert.Equal(t, "hi", updates[0].Message.Text)
	assert.Nil(t, updates[1].Message)
}

type recordingHandler struct {
	commands []string
	messages []string
}

func (h *recordingHandler) HandleCommand(_ context.Context, _ int64, command string) {
	h.commands = append(h.commands, command)
}

func (h *recordingHandler) HandleMessage(_ context.Context, _ int64, text string) {
	h.messages = append(h.messages, text)
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantCommand string
		wantMessage string
	}{
		{"start command", "/start", "start", ""},
		{"command with bot mention", "/help@MyTokenBot", "help", ""},
		{"command with arguments", "/start now", "start", ""},
		{"padded command", "  /help  ", "help", ""},
		{"plain text", "price of PEPE", "", "price of PEPE"},
		{"slash mid-text", "what is 1/2?", "", "what is 1/2?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &recordingHandler{}
			dispatch(context.Background(), h, 42, tt.text)

			if tt.wantCommand != "" {
				assert.Equal(t, []string{tt.wantCommand}, h.commands)
				assert.Empty(t, h.messages)
			} else {
				assert.Equal(t, []string{tt.wantMessage}, h.messages)
				assert.Empty(t, h.commands)
			}
		})
	}
}
