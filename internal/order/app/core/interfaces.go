package core

import (
	"context"
	"time"

	"dely-backend/internal/auth"
	"dely-backend/internal/location"
	"dely-backend/internal/order/domain/dto"
	"dely-backend/internal/order/domain/models"
)

// NewOrder is the validated, priced input the repository persists as one
// transaction. The order number is allocated inside that transaction.
type NewOrder struct {
	LocationID     int64
	Currency       string
	TotalPrice     string
	DeliveryMethod string
	DeliveryPrice  string
	BuyerName      string
	PhoneNumber    string
	Address        string
	DoorCode       string
	PushToken      string
	Language       string
	Items          []NewItem
}

type NewItem struct {
	Title   string
	Price   string
	Count   int
	Options []NewOption
}

type NewOption struct {
	Title    string
	Selected []string
}

// OrderRepo is the transactional persistence of the order aggregate.
type OrderRepo interface {
	// Create writes the whole order graph atomically and returns the new
	// order's id and allocated number.
	Create(ctx context.Context, order NewOrder) (models.Order, error)
	// GetStatus resolves an id+number pair to the order's status.
	GetStatus(ctx context.Context, orderID int64, number string) (models.Status, error)
	GetDetails(ctx context.Context, orderID int64, number string) (models.Details, error)
	// GetHistory resolves each reference, silently dropping pairs that
	// don't match any order.
	GetHistory(ctx context.Context, refs []dto.OrderRef) ([]models.Summary, error)
	// ListByLocation returns orders matching the status allow-list,
	// optionally only those created strictly after newerThan.
	ListByLocation(ctx context.Context, locationID int64, statuses []string, newerThan *time.Time) ([]models.ListedOrder, error)
	// ShopOf returns the shop owning the order's location.
	ShopOf(ctx context.Context, orderID int64) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status models.Status) (models.Order, error)
	MarkTimeSent(ctx context.Context, orderID int64) error
}

// LocationStore is the location read model the order core consults.
type LocationStore interface {
	Get(ctx context.Context, id int64) (location.Location, error)
}

// TokenVerifier checks a bearer credential and yields the subject user id.
type TokenVerifier interface {
	Verify(accessToken string) (int64, error)
}

// UserDirectory resolves a subject to its shop and role.
type UserDirectory interface {
	Lookup(ctx context.Context, userID int64) (auth.BusinessUser, error)
}

// JobPublisher hands notification jobs to the queue. Publish failures are
// logged by callers and never surfaced to the original request.
type JobPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}
