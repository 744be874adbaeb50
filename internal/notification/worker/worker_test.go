package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dely-backend/internal/notification"
	"dely-backend/internal/notification/expo"
	"dely-backend/pkg/logger"
	"dely-backend/pkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeBroker struct {
	keys   []string
	bodies [][]byte
}

func (f *fakeBroker) Consume(string) (<-chan amqp.Delivery, error) { return nil, nil }

func (f *fakeBroker) Publish(_ context.Context, routingKey string, body []byte) error {
	f.keys = append(f.keys, routingKey)
	f.bodies = append(f.bodies, body)
	return nil
}

type fakePusher struct {
	sent       [][]expo.Message
	tickets    []expo.Ticket
	receiptIDs []string
	receipts   map[string]expo.Receipt
}

func (f *fakePusher) Send(_ context.Context, messages []expo.Message) ([]expo.Ticket, error) {
	f.sent = append(f.sent, messages)
	if f.tickets != nil {
		return f.tickets, nil
	}
	tickets := make([]expo.Ticket, len(messages))
	for i := range tickets {
		tickets[i] = expo.Ticket{ID: "ticket", Status: expo.StatusOK}
	}
	return tickets, nil
}

func (f *fakePusher) Receipts(_ context.Context, ids []string) (map[string]expo.Receipt, error) {
	f.receiptIDs = append(f.receiptIDs, ids...)
	return f.receipts, nil
}

type fakeStore struct {
	order      OrderPush
	orderErr   error
	recipients []Recipient
	storefront Storefront
}

func (f *fakeStore) OrderPush(context.Context, int64) (OrderPush, error) {
	return f.order, f.orderErr
}

func (f *fakeStore) StaffRecipients(context.Context, int64) ([]Recipient, error) {
	return f.recipients, nil
}

func (f *fakeStore) Storefront(context.Context, int64) (Storefront, error) {
	return f.storefront, nil
}

func TestNotifyStaff(t *testing.T) {
	broker := &fakeBroker{}
	pusher := &fakePusher{}
	store := &fakeStore{
		recipients: []Recipient{
			{PushToken: "ExponentPushToken[a]", Language: "en"},
			{PushToken: "ExponentPushToken[b]", Language: "ru"},
			{PushToken: "not-a-push-token", Language: "en"},
		},
		storefront: Storefront{
			ShopID:    3,
			ShopTitle: "Pica Lulu",
			ImageURL:  "https://cdn.example/lulu.png",
			Currency:  "EUR",
			City:      "Riga",
			Address:   "Brivibas iela 1",
		},
	}
	w := New(broker, pusher, store, logger.New("test"))

	err := w.notifyStaff(context.Background(), notification.Job{
		Type:        notification.JobNewOrder,
		OrderID:     42,
		OrderNumber: "00137",
		LocationID:  7,
	})
	require.NoError(t, err)

	require.Len(t, pusher.sent, 1)
	messages := pusher.sent[0]
	require.Len(t, messages, 2)
	assert.Equal(t, "Brivibas iela 1, Riga", messages[0].Title)
	assert.Equal(t, "New order: 00137", messages[0].Body)
	assert.Equal(t, "Новый заказ: 00137", messages[1].Body)

	data := messages[0].Data
	assert.Equal(t, true, data["newOrderReceived"])
	assert.Equal(t, "00137", data["orderNumber"])
	navigation, ok := data["dataForNavigation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(3), navigation["id"])
	assert.Equal(t, "Pica Lulu", navigation["title"])
	assert.Equal(t, "https://cdn.example/lulu.png", navigation["image_url"])
	assert.Equal(t, "EUR", navigation["currency"])
	assert.Equal(t, int64(7), navigation["location_id"])
	assert.Equal(t, "Riga", navigation["city"])
	assert.Equal(t, "Brivibas iela 1", navigation["address"])

	require.Len(t, broker.keys, 1)
	assert.Equal(t, rabbitmq.KeyReceiptsDelay, broker.keys[0])
	var receiptJob notification.ReceiptJob
	require.NoError(t, json.Unmarshal(broker.bodies[0], &receiptJob))
	assert.Len(t, receiptJob.TicketIDs, 2)
}

func TestNotifyStatusOnlyReady(t *testing.T) {
	pusher := &fakePusher{}
	store := &fakeStore{order: OrderPush{
		Number:    "00137",
		Recipient: Recipient{PushToken: "ExponentPushToken[a]", Language: "en"},
	}}
	w := New(&fakeBroker{}, pusher, store, logger.New("test"))

	require.NoError(t, w.notifyStatus(context.Background(), notification.Job{OrderID: 42, OrderStatus: "preparing"}))
	assert.Empty(t, pusher.sent)

	require.NoError(t, w.notifyStatus(context.Background(), notification.Job{OrderID: 42, OrderStatus: "ready"}))
	require.Len(t, pusher.sent, 1)
	assert.Equal(t, "Order ready!", pusher.sent[0][0].Title)
	assert.Equal(t, "Order number: 00137", pusher.sent[0][0].Body)
}

func TestNotifyStatusGoneOrder(t *testing.T) {
	pusher := &fakePusher{}
	w := New(&fakeBroker{}, pusher, &fakeStore{orderErr: ErrOrderGone}, logger.New("test"))

	require.NoError(t, w.notifyStatus(context.Background(), notification.Job{OrderID: 42, OrderStatus: "ready"}))
	assert.Empty(t, pusher.sent)
}

func TestNotifyETA(t *testing.T) {
	pusher := &fakePusher{}
	store := &fakeStore{order: OrderPush{
		Number:    "00137",
		Recipient: Recipient{PushToken: "ExponentPushToken[a]", Language: "en"},
	}}
	w := New(&fakeBroker{}, pusher, store, logger.New("test"))

	require.NoError(t, w.notifyETA(context.Background(), notification.Job{OrderID: 42, Hours: 1, Minutes: 5}))
	require.Len(t, pusher.sent, 1)
	assert.Equal(t, "Order 00137", pusher.sent[0][0].Title)
	assert.Equal(t, "Order will be ready after about 1 hour and 5 minutes", pusher.sent[0][0].Body)
}

func TestSendSkipsRejectedTickets(t *testing.T) {
	broker := &fakeBroker{}
	pusher := &fakePusher{tickets: []expo.Ticket{
		{ID: "ticket-1", Status: expo.StatusOK},
		{Status: "error", Message: "device gone"},
	}}
	w := New(broker, pusher, &fakeStore{}, logger.New("test"))

	err := w.send(context.Background(), []expo.Message{
		{To: "ExponentPushToken[a]"},
		{To: "ExponentPushToken[b]"},
	})
	require.NoError(t, err)

	require.Len(t, broker.bodies, 1)
	var receiptJob notification.ReceiptJob
	require.NoError(t, json.Unmarshal(broker.bodies[0], &receiptJob))
	assert.Equal(t, []string{"ticket-1"}, receiptJob.TicketIDs)
}

func TestSendNothing(t *testing.T) {
	broker := &fakeBroker{}
	w := New(broker, &fakePusher{}, &fakeStore{}, logger.New("test"))

	require.NoError(t, w.send(context.Background(), nil))
	assert.Empty(t, broker.bodies)
}
