package models

import "time"

// Status of an order. New orders start as preparing; closed is terminal in
// practice, though staff may set any status directly.
type Status string

const (
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusClosed    Status = "closed"
)

// ValidStatus reports whether s is one of the three known statuses.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPreparing, StatusReady, StatusClosed:
		return true
	}
	return false
}

// Order is the persisted aggregate root. Monetary fields are decimal
// strings, never floats. After creation only Status and TimeSent mutate.
type Order struct {
	ID             int64     `json:"id"`
	LocationID     int64     `json:"locationId"`
	Currency       string    `json:"currency"`
	Number         string    `json:"orderNumber"`
	Status         Status    `json:"status"`
	TotalPrice     string    `json:"totalPrice"`
	DeliveryMethod string    `json:"deliveryMethod"`
	DeliveryPrice  string    `json:"deliveryPrice"`
	BuyerName      string    `json:"buyerName,omitempty"`
	PhoneNumber    string    `json:"phoneNumber"`
	Address        string    `json:"address,omitempty"`
	DoorCode       string    `json:"doorCode,omitempty"`
	TimeSent       bool      `json:"timeSent"`
	CreatedAt      time.Time `json:"orderGenerationTime"`
}

// Item is a line-item snapshot: title and unit price are copied from the
// product at order time so later catalog edits never alter history.
type Item struct {
	ID      int64         `json:"id"`
	Title   string        `json:"title"`
	Price   string        `json:"price"`
	Count   int           `json:"count"`
	Options []OptionGroup `json:"options,omitempty"`
}

// OptionGroup is a named option group on a line item (e.g. "Size") with the
// choices the buyer selected in it.
type OptionGroup struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Selected []string `json:"selectedOptions"`
}

// LocationInfo is the shop/location identity attached to order details.
type LocationInfo struct {
	ShopID    int64  `json:"shopId"`
	ShopTitle string `json:"shopTitle"`
	City      string `json:"city"`
	Address   string `json:"address"`
}

// Details is a full order graph plus its location identity.
type Details struct {
	Order
	Items    []Item       `json:"items"`
	Location LocationInfo `json:"locationData"`
}

// Summary is the short form returned for order history lookups.
type Summary struct {
	ID             int64     `json:"id"`
	Number         string    `json:"orderNumber"`
	DeliveryMethod string    `json:"deliveryMethod"`
	CreatedAt      time.Time `json:"orderGenerationTime"`
}

// ListedOrder is one row of a staff order listing: the order plus nested
// items, each item carrying its selected option titles flattened.
type ListedOrder struct {
	Order
	Items []ListedItem `json:"items"`
}

type ListedItem struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Price           string   `json:"price"`
	Count           int      `json:"count"`
	SelectedOptions []string `json:"selectedOptions"`
}
