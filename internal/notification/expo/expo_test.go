package expo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPushToken(t *testing.T) {
	assert.True(t, IsPushToken("ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx]"))
	assert.True(t, IsPushToken("ExpoPushToken[yyy]"))
	assert.False(t, IsPushToken("ExponentPushToken[zzz"))
	assert.False(t, IsPushToken("fcm-token-123"))
	assert.False(t, IsPushToken(""))
}

func TestChunk(t *testing.T) {
	items := make([]int, 250)
	chunks := Chunk(items, 100)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[1], 100)
	assert.Len(t, chunks[2], 50)

	assert.Nil(t, Chunk([]int{}, 100))
	assert.Len(t, Chunk(make([]int, 100), 100), 1)
}

func TestSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/push/send", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var messages []Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&messages))
		require.Len(t, messages, 2)
		assert.Equal(t, "ExponentPushToken[a]", messages[0].To)

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "ticket-1", "status": "ok"},
				{"id": "", "status": "error", "message": "device gone", "details": map[string]string{"error": "DeviceNotRegistered"}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	tickets, err := client.Send(context.Background(), []Message{
		{To: "ExponentPushToken[a]", Title: "New order", Body: "Order number: 00042"},
		{To: "ExponentPushToken[b]", Title: "New order", Body: "Order number: 00042"},
	})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "ticket-1", tickets[0].ID)
	assert.Equal(t, StatusOK, tickets[0].Status)
	assert.Equal(t, "error", tickets[1].Status)
	require.NotNil(t, tickets[1].Details)
	assert.Equal(t, "DeviceNotRegistered", tickets[1].Details.Error)
}

func TestSendRejectsOversizedBatch(t *testing.T) {
	client := NewClient("http://localhost:0")
	_, err := client.Send(context.Background(), make([]Message, SendChunkSize+1))
	assert.Error(t, err)
}

func TestReceipts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/push/getReceipts", r.URL.Path)

		var request struct {
			IDs []string `json:"ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, []string{"ticket-1", "ticket-2"}, request.IDs)

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"ticket-1": map[string]any{"status": "ok"},
				"ticket-2": map[string]any{"status": "error", "message": "blocked", "details": map[string]string{"error": "MessageRateExceeded"}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	receipts, err := client.Receipts(context.Background(), []string{"ticket-1", "ticket-2"})
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.Equal(t, StatusOK, receipts["ticket-1"].Status)
	assert.Equal(t, "error", receipts["ticket-2"].Status)
}

func TestServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Send(context.Background(), []Message{{To: "ExponentPushToken[a]"}})
	assert.Error(t, err)
}
