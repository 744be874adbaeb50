package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrOrderGone means the job references an order that no longer exists; the
// job is dropped, not retried.
var ErrOrderGone = errors.New("order gone")

// Recipient is one push target with the language its messages should use.
type Recipient struct {
	PushToken string
	Language  string
}

// OrderPush is the slice of an order the worker needs to address the buyer.
type OrderPush struct {
	Number     string
	LocationID int64
	Recipient
}

// Storefront is the shop and location identity shown in staff alerts and
// carried as their navigation payload.
type Storefront struct {
	ShopID    int64
	ShopTitle string
	ImageURL  string
	Currency  string
	City      string
	Address   string
}

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// OrderPush loads the buyer's push target for one order.
func (r *Repo) OrderPush(ctx context.Context, orderID int64) (OrderPush, error) {
	var o OrderPush
	err := r.pool.QueryRow(ctx,
		`SELECT order_number, location_id, push_token, language FROM orders WHERE id = $1`,
		orderID,
	).Scan(&o.Number, &o.LocationID, &o.PushToken, &o.Language)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return OrderPush{}, ErrOrderGone
		}
		return OrderPush{}, fmt.Errorf("load order push info: %w", err)
	}
	return o, nil
}

// StaffRecipients returns the push targets of every staff member subscribed
// to a location's alerts. A subscriber may have several device tokens.
func (r *Repo) StaffRecipients(ctx context.Context, locationID int64) ([]Recipient, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.push_token, t.language
		 FROM location_notifications ln
		 JOIN business_user_tokens t ON t.user_id = ln.user_id
		 WHERE ln.location_id = $1`,
		locationID,
	)
	if err != nil {
		return nil, fmt.Errorf("load staff recipients: %w", err)
	}
	defer rows.Close()

	var recipients []Recipient
	for rows.Next() {
		var rec Recipient
		if err := rows.Scan(&rec.PushToken, &rec.Language); err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}

// Storefront loads the shop and location identity for staff alerts.
func (r *Repo) Storefront(ctx context.Context, locationID int64) (Storefront, error) {
	var sf Storefront
	err := r.pool.QueryRow(ctx,
		`SELECT s.id, s.title, s.image_url, s.currency, l.city, l.address
		 FROM locations l
		 JOIN shops s ON s.id = l.shop_id
		 WHERE l.id = $1`,
		locationID,
	).Scan(&sf.ShopID, &sf.ShopTitle, &sf.ImageURL, &sf.Currency, &sf.City, &sf.Address)
	if err != nil {
		return Storefront{}, fmt.Errorf("load storefront: %w", err)
	}
	return sf, nil
}
