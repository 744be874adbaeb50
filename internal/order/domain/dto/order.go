// Package dto defines the wire shapes of the order API. Price and time
// fields cross the boundary as strings.
package dto

// DeliveryMethodDetails carries the buyer contact fields for the chosen
// delivery method. Address is required only for delivery.
type DeliveryMethodDetails struct {
	DeliveryMethod string `json:"deliveryMethod"`
	PhoneNumber    string `json:"phoneNumber"`
	Address        string `json:"address"`
	Name           string `json:"name"`
	DoorCode       string `json:"doorCode"`
}

// CartOption is one option group of a cart item with the selected choices.
type CartOption struct {
	Title    string   `json:"title"`
	Selected []string `json:"selected"`
}

// CartItem is one position of the submitted shopping cart.
type CartItem struct {
	Title   string       `json:"title"`
	Price   string       `json:"price"`
	Count   int          `json:"count"`
	Options []CartOption `json:"options"`
}

// OrderRequest is a cart submission.
type OrderRequest struct {
	LocationID            int64                 `json:"locationId"`
	Currency              string                `json:"currency"`
	DeliveryMethodDetails DeliveryMethodDetails `json:"deliveryMethodDetails"`
	DeliveryPrice         string                `json:"deliveryPrice"`
	ShoppingCartItems     []CartItem            `json:"shoppingCartItems"`
	PushToken             string                `json:"pushToken"`
	Language              string                `json:"language"`
}

// OrderResponse identifies a freshly created order. The id+number pair acts
// as the buyer's capability for later reads.
type OrderResponse struct {
	OrderID     int64  `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

// OrderRef is an id+number pair referencing an existing order.
type OrderRef struct {
	OrderID     int64  `json:"id"`
	OrderNumber string `json:"number"`
}

// StatusRequest polls the status of one order.
type StatusRequest struct {
	OrderID     int64  `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

type StatusResponse struct {
	OrderStatus string `json:"orderStatus"`
}

// DetailsRequest fetches the full order graph.
type DetailsRequest struct {
	OrderID     int64  `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

// HistoryRequest resolves a client-kept list of past order references.
type HistoryRequest struct {
	OrderHistory []OrderRef `json:"orderHistory"`
}

// OrdersRequest lists a location's orders for staff, filtered by status and
// optionally restricted to orders newer than a previously seen creation
// instant (RFC 3339).
type OrdersRequest struct {
	AccessToken             string   `json:"accessToken"`
	LocationID              int64    `json:"locationId"`
	Filters                 []string `json:"filters"`
	LastOrderGenerationTime string   `json:"lastOrderGenerationTime"`
}

// ChangeStatusRequest sets an order's status.
type ChangeStatusRequest struct {
	AccessToken string `json:"accessToken"`
	OrderID     int64  `json:"orderId"`
	OrderStatus string `json:"orderStatus"`
}

type ChangeStatusResponse struct {
	OrderID     int64  `json:"orderId"`
	OrderStatus string `json:"orderStatus"`
}

// SendTimeRequest announces a readiness ETA. Hours and minutes arrive as
// strings; both must be present if either is.
type SendTimeRequest struct {
	AccessToken string `json:"accessToken"`
	OrderID     int64  `json:"orderId"`
	Hours       string `json:"hours"`
	Minutes     string `json:"minutes"`
}

type SendTimeResponse struct {
	OrderID int64  `json:"orderId"`
	Hours   string `json:"hours"`
	Minutes string `json:"minutes"`
}
