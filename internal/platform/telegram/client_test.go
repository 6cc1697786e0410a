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

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL("123:token", srv.URL)
	err := client.SendMessage(context.Background(), 42, "hello")
	require.NoError(t, err)

	assert.Equal(t, "/bot123:token/sendMessage", gotPath)
	assert.Equal(t, float64(42), gotBody["chat_id"])
	assert.Equal(t, "hello", gotBody["text"])
}

func TestCreateInvoiceLink(t *testing.T) {
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"ok":true,"result":"https://t.me/invoice/xyz"}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL("123:token", srv.URL)
	link, err := client.CreateInvoiceLink(context.Background(), InvoiceParams{
		Title:       "Pro Booster",
		Description: "Generates 0.005 USDT per hour",
		Payload:     `{"id":"p-1"}`,
		Currency:    "XTR",
		Amount:      1,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/invoice/xyz", link)

	assert.Equal(t, "XTR", gotBody["currency"])
	prices, ok := gotBody["prices"].([]interface{})
	require.True(t, ok)
	require.Len(t, prices, 1)
	price := prices[0].(map[string]interface{})
	assert.Equal(t, "Pro Booster", price["label"])
	assert.Equal(t, float64(1), price["amount"])
}

func TestAPIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL("123:token", srv.URL)
	err := client.SendMessage(context.Background(), 42, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
