package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTelegram_RequiresCredentials(t *testing.T) {
	_, err := NewTelegram(TelegramConfig{ChatID: "42"})
	assert.Error(t, err)

	_, err = NewTelegram(TelegramConfig{BotToken: "123:abc"})
	assert.Error(t, err)
}

func TestSend(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewTelegram(TelegramConfig{
		BotToken: "123:abc",
		ChatID:   "42",
		BaseURL:  server.URL,
	})
	require.NoError(t, err)

	require.NoError(t, client.Send(context.Background(), "No borrowings overdue today!"))

	assert.Equal(t, "/bot123:abc/sendMessage", gotPath)
	assert.Equal(t, "42", gotBody["chat_id"])
	assert.Equal(t, "No borrowings overdue today!", gotBody["text"])
}

func TestSend_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false,"description":"chat not found"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := NewTelegram(TelegramConfig{
		BotToken: "123:abc",
		ChatID:   "42",
		BaseURL:  server.URL,
	})
	require.NoError(t, err)

	err = client.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
