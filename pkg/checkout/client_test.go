package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{SecretKey: "sk_test_123", BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(Config{BaseURL: "https://pay.example.com"})
	assert.Error(t, err)

	_, err = New(Config{SecretKey: "sk_test_123"})
	assert.Error(t, err)
}

func TestCreateSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		var in CreateSessionInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, int64(1050), in.AmountMinor)
		assert.Equal(t, "usd", in.Currency)

		json.NewEncoder(w).Encode(Session{
			ID:     "cs_test_1",
			URL:    "https://pay.example.com/cs_test_1",
			Status: "open",
		})
	})

	session, err := client.CreateSession(context.Background(), CreateSessionInput{
		AmountMinor: 1050,
		Currency:    "usd",
		Description: "Kobzar (PAYMENT) by Taras Shevchenko",
		SuccessURL:  "http://localhost/success",
		CancelURL:   "http://localhost/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://pay.example.com/cs_test_1", session.URL)
}

func TestCreateSession_ProviderRejects(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid amount", http.StatusBadRequest)
	})

	_, err := client.CreateSession(context.Background(), CreateSessionInput{AmountMinor: -1})

	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, http.StatusBadRequest, providerErr.StatusCode)
	assert.Contains(t, providerErr.Message, "invalid amount")
}

func TestCreateSession_ProviderUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := New(Config{SecretKey: "sk_test_123", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.CreateSession(context.Background(), CreateSessionInput{})

	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Zero(t, providerErr.StatusCode)
}

func TestRetrieveSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/checkout/sessions/cs_test_1", r.URL.Path)

		json.NewEncoder(w).Encode(Session{
			ID:            "cs_test_1",
			Status:        "complete",
			PaymentStatus: PaymentStatusPaid,
		})
	})

	session, err := client.RetrieveSession(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPaid, session.PaymentStatus)
}

func TestExpireSession(t *testing.T) {
	var called bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions/cs_test_1/expire", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.ExpireSession(context.Background(), "cs_test_1"))
	assert.True(t, called)
}

func TestListSessions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"data": []Session{
				{ID: "cs_1", Status: SessionStatusExpired, PaymentStatus: PaymentStatusUnpaid},
				{ID: "cs_2", Status: "open", PaymentStatus: PaymentStatusUnpaid},
			},
		})
	})

	sessions, err := client.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, SessionStatusExpired, sessions[0].Status)
}
