// Package expo is a minimal client for the Expo push notification service:
// batched sends returning tickets, and receipt fetches by ticket id.
package expo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://exp.host/--/api/v2"

	// SendChunkSize and ReceiptChunkSize are the provider's batch limits.
	SendChunkSize    = 100
	ReceiptChunkSize = 300
)

// Message is one push notification addressed to a device token.
type Message struct {
	To    string         `json:"to"`
	Sound string         `json:"sound,omitempty"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
}

// Ticket acknowledges one submitted message. Only tickets with an ID later
// yield a receipt; tickets for rejected messages carry the error inline.
type Ticket struct {
	ID      string        `json:"id"`
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details *ErrorDetails `json:"details"`
}

// Receipt is the provider's delivery outcome for one ticket.
type Receipt struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details *ErrorDetails `json:"details"`
}

type ErrorDetails struct {
	Error string `json:"error"`
}

const StatusOK = "ok"

// IsPushToken reports whether s looks like an Expo push token
// (ExponentPushToken[…] or ExpoPushToken[…]).
func IsPushToken(s string) bool {
	if !strings.HasSuffix(s, "]") {
		return false
	}
	return strings.HasPrefix(s, "ExponentPushToken[") || strings.HasPrefix(s, "ExpoPushToken[")
}

// Chunk splits messages into provider-sized batches.
func Chunk[T any](items []T, size int) [][]T {
	var chunks [][]T
	for len(items) > size {
		chunks = append(chunks, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		chunks = append(chunks, items)
	}
	return chunks
}

type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient builds a client; an empty baseURL selects the public endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Send submits one batch of at most SendChunkSize messages and returns one
// ticket per message, in order.
func (c *Client) Send(ctx context.Context, messages []Message) ([]Ticket, error) {
	if len(messages) > SendChunkSize {
		return nil, fmt.Errorf("batch of %d exceeds limit %d", len(messages), SendChunkSize)
	}
	var response struct {
		Data []Ticket `json:"data"`
	}
	if err := c.post(ctx, "/push/send", messages, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// Receipts fetches delivery receipts for up to ReceiptChunkSize ticket ids.
// Receipts not yet available are simply absent from the result.
func (c *Client) Receipts(ctx context.Context, ticketIDs []string) (map[string]Receipt, error) {
	if len(ticketIDs) > ReceiptChunkSize {
		return nil, fmt.Errorf("batch of %d exceeds limit %d", len(ticketIDs), ReceiptChunkSize)
	}
	request := struct {
		IDs []string `json:"ids"`
	}{IDs: ticketIDs}
	var response struct {
		Data map[string]Receipt `json:"data"`
	}
	if err := c.post(ctx, "/push/getReceipts", request, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo: unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
