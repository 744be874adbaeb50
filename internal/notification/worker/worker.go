// Package worker consumes notification jobs and delivers push messages
// through Expo. Delivery is best-effort: every failure is logged and the job
// acked, never retried into a storm.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"dely-backend/internal/notification"
	"dely-backend/internal/notification/expo"
	"dely-backend/internal/order/domain/models"
	"dely-backend/pkg/logger"
	"dely-backend/pkg/rabbitmq"
)

// Broker is the queue access the worker needs; *rabbitmq.RabbitMQ satisfies it.
type Broker interface {
	Consume(queue string) (<-chan amqp.Delivery, error)
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Pusher is the push provider; *expo.Client satisfies it.
type Pusher interface {
	Send(ctx context.Context, messages []expo.Message) ([]expo.Ticket, error)
	Receipts(ctx context.Context, ticketIDs []string) (map[string]expo.Receipt, error)
}

// Store is the read access the worker needs; *Repo satisfies it.
type Store interface {
	OrderPush(ctx context.Context, orderID int64) (OrderPush, error)
	StaffRecipients(ctx context.Context, locationID int64) ([]Recipient, error)
	Storefront(ctx context.Context, locationID int64) (Storefront, error)
}

type Worker struct {
	broker Broker
	pusher Pusher
	store  Store
	mylog  logger.Logger
}

func New(broker Broker, pusher Pusher, store Store, mylog logger.Logger) *Worker {
	return &Worker{
		broker: broker,
		pusher: pusher,
		store:  store,
		mylog:  mylog,
	}
}

// Run consumes the job and receipt queues until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	jobs, err := w.broker.Consume(rabbitmq.QueueNotificationJobs)
	if err != nil {
		return fmt.Errorf("consume %s: %w", rabbitmq.QueueNotificationJobs, err)
	}
	receipts, err := w.broker.Consume(rabbitmq.QueueReceiptJobs)
	if err != nil {
		return fmt.Errorf("consume %s: %w", rabbitmq.QueueReceiptJobs, err)
	}

	w.mylog.Action("worker_started").Info("Notification worker is running")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-jobs:
			if !ok {
				return errors.New("notification job channel closed")
			}
			w.handleJobDelivery(ctx, d)
		case d, ok := <-receipts:
			if !ok {
				return errors.New("receipt job channel closed")
			}
			w.handleReceiptDelivery(ctx, d)
		}
	}
}

// handleJobDelivery processes one notification job. The delivery is acked in
// every case: a job that cannot be delivered now will not deliver better on
// redelivery.
func (w *Worker) handleJobDelivery(ctx context.Context, d amqp.Delivery) {
	defer func() { _ = d.Ack(false) }()

	var job notification.Job
	if err := json.Unmarshal(d.Body, &job); err != nil {
		w.mylog.Action("job_parse_failed").Error("Failed to parse notification job", err)
		return
	}

	var err error
	switch job.Type {
	case notification.JobNewOrder:
		err = w.notifyStaff(ctx, job)
	case notification.JobOrderStatus:
		err = w.notifyStatus(ctx, job)
	case notification.JobOrderETA:
		err = w.notifyETA(ctx, job)
	default:
		w.mylog.Action("job_unknown_type").With("job_type", job.Type).Warn("Dropping job of unknown type")
		return
	}
	if err != nil {
		w.mylog.Action("job_failed").
			With("job_type", job.Type).
			With("order_id", job.OrderID).
			Error("Failed to deliver notification", err)
	}
}

// notifyStaff fans a new-order alert out to every staff member subscribed to
// the location, each in their own language.
func (w *Worker) notifyStaff(ctx context.Context, job notification.Job) error {
	recipients, err := w.store.StaffRecipients(ctx, job.LocationID)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	storefront, err := w.store.Storefront(ctx, job.LocationID)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s, %s", storefront.Address, storefront.City)

	// Navigation payload opening the order's admin screen in the app.
	navigation := map[string]any{
		"id":          storefront.ShopID,
		"title":       storefront.ShopTitle,
		"image_url":   storefront.ImageURL,
		"currency":    storefront.Currency,
		"location_id": job.LocationID,
		"city":        storefront.City,
		"address":     storefront.Address,
	}

	var messages []expo.Message
	for _, rec := range recipients {
		if !expo.IsPushToken(rec.PushToken) {
			continue
		}
		text := notification.Localize(rec.Language)
		messages = append(messages, expo.Message{
			To:    rec.PushToken,
			Sound: "default",
			Title: title,
			Body:  fmt.Sprintf("%s: %s", text.NewOrder, job.OrderNumber),
			Data: map[string]any{
				"newOrderReceived":  true,
				"orderId":           job.OrderID,
				"orderNumber":       job.OrderNumber,
				"dataForNavigation": navigation,
			},
		})
	}
	return w.send(ctx, messages)
}

// notifyStatus alerts the buyer about a status change. Only readiness is
// worth a push; other transitions are silent.
func (w *Worker) notifyStatus(ctx context.Context, job notification.Job) error {
	if job.OrderStatus != string(models.StatusReady) {
		return nil
	}

	order, err := w.store.OrderPush(ctx, job.OrderID)
	if err != nil {
		if errors.Is(err, ErrOrderGone) {
			return nil
		}
		return err
	}
	if !expo.IsPushToken(order.PushToken) {
		return nil
	}

	text := notification.Localize(order.Language)
	return w.send(ctx, []expo.Message{{
		To:    order.PushToken,
		Sound: "default",
		Title: text.OrderReady,
		Body:  fmt.Sprintf("%s: %s", text.OrderNumber, order.Number),
		Data:  map[string]any{"orderId": job.OrderID},
	}})
}

// notifyETA sends the localized readiness-time sentence to the buyer.
func (w *Worker) notifyETA(ctx context.Context, job notification.Job) error {
	order, err := w.store.OrderPush(ctx, job.OrderID)
	if err != nil {
		if errors.Is(err, ErrOrderGone) {
			return nil
		}
		return err
	}
	if !expo.IsPushToken(order.PushToken) {
		return nil
	}

	text := notification.Localize(order.Language)
	return w.send(ctx, []expo.Message{{
		To:    order.PushToken,
		Sound: "default",
		Title: fmt.Sprintf("%s %s", text.Order, order.Number),
		Body:  notification.ETAMessage(order.Language, job.Hours, job.Minutes),
		Data:  map[string]any{"orderId": job.OrderID},
	}})
}

// send submits messages in provider-sized batches and enqueues the ticket
// ids into the delay queue for the later receipt pass.
func (w *Worker) send(ctx context.Context, messages []expo.Message) error {
	if len(messages) == 0 {
		return nil
	}

	var ticketIDs []string
	for _, batch := range expo.Chunk(messages, expo.SendChunkSize) {
		tickets, err := w.pusher.Send(ctx, batch)
		if err != nil {
			return fmt.Errorf("send push batch: %w", err)
		}
		for _, ticket := range tickets {
			if ticket.Status != expo.StatusOK {
				w.mylog.Action("push_rejected").
					With("reason", ticket.Message).
					Warn("Push message rejected by provider")
				continue
			}
			if ticket.ID != "" {
				ticketIDs = append(ticketIDs, ticket.ID)
			}
		}
	}

	if len(ticketIDs) == 0 {
		return nil
	}
	body, err := json.Marshal(notification.ReceiptJob{TicketIDs: ticketIDs})
	if err != nil {
		return err
	}
	if err := w.broker.Publish(ctx, rabbitmq.KeyReceiptsDelay, body); err != nil {
		return fmt.Errorf("enqueue receipt job: %w", err)
	}
	return nil
}

// handleReceiptDelivery fetches delivery receipts for a batch of tickets and
// logs every failed delivery. Receipts are informational; nothing retries.
func (w *Worker) handleReceiptDelivery(ctx context.Context, d amqp.Delivery) {
	defer func() { _ = d.Ack(false) }()

	var job notification.ReceiptJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		w.mylog.Action("receipt_parse_failed").Error("Failed to parse receipt job", err)
		return
	}

	for _, batch := range expo.Chunk(job.TicketIDs, expo.ReceiptChunkSize) {
		receipts, err := w.pusher.Receipts(ctx, batch)
		if err != nil {
			w.mylog.Action("receipt_fetch_failed").Error("Failed to fetch push receipts", err)
			continue
		}
		for id, receipt := range receipts {
			if receipt.Status == expo.StatusOK {
				continue
			}
			log := w.mylog.Action("push_delivery_failed").
				With("ticket_id", id).
				With("reason", receipt.Message)
			if receipt.Details != nil {
				log = log.With("error", receipt.Details.Error)
			}
			log.Warn("Push delivery failed")
		}
	}
}
