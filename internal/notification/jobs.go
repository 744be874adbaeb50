// Package notification defines the jobs exchanged between the order service
// and the notification worker, and the localized message texts.
package notification

// Job types. A job is enqueued after the triggering write commits; the
// worker owns all further lookups so the request path stays thin.
const (
	JobNewOrder    = "new_order"    // fan-out to staff subscribed to the location
	JobOrderStatus = "order_status" // customer alert, sent only for ready
	JobOrderETA    = "order_eta"    // customer readiness-time alert
)

// Job is the message carried over the notification queue.
type Job struct {
	Type        string `json:"type"`
	OrderID     int64  `json:"orderId"`
	OrderNumber string `json:"orderNumber,omitempty"`
	LocationID  int64  `json:"locationId,omitempty"`
	OrderStatus string `json:"orderStatus,omitempty"`
	Hours       int    `json:"hours,omitempty"`
	Minutes     int    `json:"minutes,omitempty"`
}

// ReceiptJob carries push-provider ticket ids through the delay queue for
// the reconciliation pass.
type ReceiptJob struct {
	TicketIDs []string `json:"ticketIds"`
}
