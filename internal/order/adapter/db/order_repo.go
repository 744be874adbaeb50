// Package db persists the order aggregate in Postgres. Creation writes the
// whole order graph in one transaction, including order number allocation.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"dely-backend/internal/order/app/core"
	"dely-backend/internal/order/domain/dto"
	"dely-backend/internal/order/domain/models"
)

const uniqueViolation = "23505"

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create inserts the order with a freshly allocated number, then its items,
// option groups and selected options, all in one transaction. The unique
// index on (location_id, order_number) turns a concurrent collision into a
// retry of the whole insert.
func (r *OrderRepo) Create(ctx context.Context, order core.NewOrder) (models.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := r.insertOrder(ctx, tx, order)
	if err != nil {
		return models.Order{}, err
	}

	for _, item := range order.Items {
		var itemID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, title, price, count)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			created.ID, item.Title, item.Price, item.Count,
		).Scan(&itemID)
		if err != nil {
			return models.Order{}, fmt.Errorf("insert order item: %w", err)
		}

		for _, opt := range item.Options {
			var optionID int64
			err := tx.QueryRow(ctx,
				`INSERT INTO order_item_options (order_item_id, title)
				 VALUES ($1, $2) RETURNING id`,
				itemID, opt.Title,
			).Scan(&optionID)
			if err != nil {
				return models.Order{}, fmt.Errorf("insert item option: %w", err)
			}

			for _, selected := range opt.Selected {
				_, err := tx.Exec(ctx,
					`INSERT INTO order_selected_options (order_item_option_id, title)
					 VALUES ($1, $2)`,
					optionID, selected,
				)
				if err != nil {
					return models.Order{}, fmt.Errorf("insert selected option: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

// insertOrder allocates an order number and inserts the order row. Each
// attempt runs inside its own savepoint: a unique-index violation from a
// concurrent submission aborts only the savepoint, so the outer transaction
// stays usable and the collision just consumes one attempt.
func (r *OrderRepo) insertOrder(ctx context.Context, tx pgx.Tx, order core.NewOrder) (models.Order, error) {
	return allocateNumber(ctx, core.MaxAllocAttempts, func(ctx context.Context, number string) (models.Order, bool, error) {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return models.Order{}, false, fmt.Errorf("savepoint: %w", err)
		}

		var exists bool
		err = sp.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE location_id = $1 AND order_number = $2)`,
			order.LocationID, number,
		).Scan(&exists)
		if err != nil {
			_ = sp.Rollback(ctx)
			return models.Order{}, false, fmt.Errorf("probe order number: %w", err)
		}
		if exists {
			_ = sp.Rollback(ctx)
			return models.Order{}, true, nil
		}

		created := models.Order{
			LocationID:     order.LocationID,
			Currency:       order.Currency,
			Number:         number,
			Status:         models.StatusPreparing,
			TotalPrice:     order.TotalPrice,
			DeliveryMethod: order.DeliveryMethod,
			DeliveryPrice:  order.DeliveryPrice,
			BuyerName:      order.BuyerName,
			PhoneNumber:    order.PhoneNumber,
			Address:        order.Address,
			DoorCode:       order.DoorCode,
		}
		err = sp.QueryRow(ctx,
			`INSERT INTO orders (
				location_id, currency, order_number, status, total_price,
				delivery_method, delivery_price, buyer_name, phone_number,
				address, door_code, push_token, language
			 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			 RETURNING id, created_at`,
			order.LocationID, order.Currency, number, models.StatusPreparing, order.TotalPrice,
			order.DeliveryMethod, order.DeliveryPrice, order.BuyerName, order.PhoneNumber,
			order.Address, order.DoorCode, order.PushToken, order.Language,
		).Scan(&created.ID, &created.CreatedAt)
		if err != nil {
			_ = sp.Rollback(ctx)
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return models.Order{}, true, nil
			}
			return models.Order{}, false, fmt.Errorf("insert order: %w", err)
		}
		if err := sp.Commit(ctx); err != nil {
			return models.Order{}, false, fmt.Errorf("release savepoint: %w", err)
		}
		return created, false, nil
	})
}

// allocateNumber draws random candidates and runs one insert attempt per
// draw. An attempt reporting the number as taken consumes one try; the
// budget bounds the loop and exhaustion is a retryable error.
func allocateNumber(ctx context.Context, attempts int, try func(ctx context.Context, number string) (models.Order, bool, error)) (models.Order, error) {
	for i := 0; i < attempts; i++ {
		order, taken, err := try(ctx, core.RandomOrderNumber())
		if err != nil {
			return models.Order{}, err
		}
		if taken {
			continue
		}
		return order, nil
	}
	return models.Order{}, core.ErrNumberSpaceExhausted
}

// GetStatus resolves an id+number pair to the order's current status.
func (r *OrderRepo) GetStatus(ctx context.Context, orderID int64, number string) (models.Status, error) {
	var status models.Status
	err := r.pool.QueryRow(ctx,
		`SELECT status FROM orders WHERE id = $1 AND order_number = $2`,
		orderID, number,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", core.ErrOrderNotFound
		}
		return "", fmt.Errorf("get order status: %w", err)
	}
	return status, nil
}

// GetDetails loads the full order graph with the shop and location identity.
func (r *OrderRepo) GetDetails(ctx context.Context, orderID int64, number string) (models.Details, error) {
	var d models.Details
	err := r.pool.QueryRow(ctx,
		`SELECT o.id, o.location_id, o.currency, o.order_number, o.status,
			o.total_price::text, o.delivery_method, o.delivery_price::text,
			o.buyer_name, o.phone_number, o.address, o.door_code,
			o.time_sent, o.created_at,
			s.id, s.title, l.city, l.address
		 FROM orders o
		 JOIN locations l ON l.id = o.location_id
		 JOIN shops s ON s.id = l.shop_id
		 WHERE o.id = $1 AND o.order_number = $2`,
		orderID, number,
	).Scan(
		&d.ID, &d.LocationID, &d.Currency, &d.Number, &d.Status,
		&d.TotalPrice, &d.DeliveryMethod, &d.DeliveryPrice,
		&d.BuyerName, &d.PhoneNumber, &d.Address, &d.DoorCode,
		&d.TimeSent, &d.CreatedAt,
		&d.Location.ShopID, &d.Location.ShopTitle, &d.Location.City, &d.Location.Address,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Details{}, core.ErrOrderNotFound
		}
		return models.Details{}, fmt.Errorf("get order details: %w", err)
	}

	items, err := r.loadItems(ctx, d.ID)
	if err != nil {
		return models.Details{}, err
	}
	d.Items = items
	return d, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, orderID int64) ([]models.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, price::text, count FROM order_items WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Title, &item.Price, &item.Count); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		groups, err := r.loadOptions(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Options = groups
	}
	return items, nil
}

func (r *OrderRepo) loadOptions(ctx context.Context, itemID int64) ([]models.OptionGroup, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT oo.id, oo.title, so.title
		 FROM order_item_options oo
		 LEFT JOIN order_selected_options so ON so.order_item_option_id = oo.id
		 WHERE oo.order_item_id = $1
		 ORDER BY oo.id, so.id`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("load item options: %w", err)
	}
	defer rows.Close()

	var groups []models.OptionGroup
	for rows.Next() {
		var (
			id       int64
			title    string
			selected *string
		)
		if err := rows.Scan(&id, &title, &selected); err != nil {
			return nil, err
		}
		if len(groups) == 0 || groups[len(groups)-1].ID != id {
			groups = append(groups, models.OptionGroup{ID: id, Title: title})
		}
		if selected != nil {
			last := &groups[len(groups)-1]
			last.Selected = append(last.Selected, *selected)
		}
	}
	return groups, rows.Err()
}

// GetHistory resolves each reference to a summary. Pairs that don't match
// any order are silently dropped.
func (r *OrderRepo) GetHistory(ctx context.Context, refs []dto.OrderRef) ([]models.Summary, error) {
	summaries := []models.Summary{}
	for _, ref := range refs {
		var s models.Summary
		err := r.pool.QueryRow(ctx,
			`SELECT id, order_number, delivery_method, created_at
			 FROM orders WHERE id = $1 AND order_number = $2`,
			ref.OrderID, ref.OrderNumber,
		).Scan(&s.ID, &s.Number, &s.DeliveryMethod, &s.CreatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, fmt.Errorf("resolve order history: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// ListByLocation returns a location's orders matching the status allow-list,
// oldest first, optionally only those created strictly after newerThan.
func (r *OrderRepo) ListByLocation(ctx context.Context, locationID int64, statuses []string, newerThan *time.Time) ([]models.ListedOrder, error) {
	q := `SELECT id, location_id, currency, order_number, status,
		total_price::text, delivery_method, delivery_price::text,
		buyer_name, phone_number, address, door_code, time_sent, created_at
	 FROM orders
	 WHERE location_id = $1 AND status = ANY($2)`
	args := []any{locationID, statuses}
	if newerThan != nil {
		q += ` AND created_at > $3`
		args = append(args, *newerThan)
	}
	q += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.ListedOrder{}
	for rows.Next() {
		var o models.ListedOrder
		err := rows.Scan(
			&o.ID, &o.LocationID, &o.Currency, &o.Number, &o.Status,
			&o.TotalPrice, &o.DeliveryMethod, &o.DeliveryPrice,
			&o.BuyerName, &o.PhoneNumber, &o.Address, &o.DoorCode,
			&o.TimeSent, &o.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.loadListedItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// loadListedItems flattens every selected option title onto the item row,
// the shape the staff listing renders.
func (r *OrderRepo) loadListedItems(ctx context.Context, orderID int64) ([]models.ListedItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT i.id, i.title, i.price::text, i.count, so.title
		 FROM order_items i
		 LEFT JOIN order_item_options oo ON oo.order_item_id = i.id
		 LEFT JOIN order_selected_options so ON so.order_item_option_id = oo.id
		 WHERE i.order_id = $1
		 ORDER BY i.id, oo.id, so.id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("load listed items: %w", err)
	}
	defer rows.Close()

	items := []models.ListedItem{}
	for rows.Next() {
		var (
			item     models.ListedItem
			selected *string
		)
		if err := rows.Scan(&item.ID, &item.Title, &item.Price, &item.Count, &selected); err != nil {
			return nil, err
		}
		if len(items) == 0 || items[len(items)-1].ID != item.ID {
			items = append(items, item)
		}
		if selected != nil {
			last := &items[len(items)-1]
			last.SelectedOptions = append(last.SelectedOptions, *selected)
		}
	}
	return items, rows.Err()
}

// ShopOf returns the shop owning the order's location.
func (r *OrderRepo) ShopOf(ctx context.Context, orderID int64) (int64, error) {
	var shopID int64
	err := r.pool.QueryRow(ctx,
		`SELECT l.shop_id FROM orders o JOIN locations l ON l.id = o.location_id WHERE o.id = $1`,
		orderID,
	).Scan(&shopID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, core.ErrOrderNotFound
		}
		return 0, fmt.Errorf("shop of order %d: %w", orderID, err)
	}
	return shopID, nil
}

// UpdateStatus sets the order's status and returns the updated row.
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID int64, status models.Status) (models.Order, error) {
	var o models.Order
	err := r.pool.QueryRow(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1
		 RETURNING id, location_id, currency, order_number, status,
			total_price::text, delivery_method, delivery_price::text,
			buyer_name, phone_number, address, door_code, time_sent, created_at`,
		orderID, status,
	).Scan(
		&o.ID, &o.LocationID, &o.Currency, &o.Number, &o.Status,
		&o.TotalPrice, &o.DeliveryMethod, &o.DeliveryPrice,
		&o.BuyerName, &o.PhoneNumber, &o.Address, &o.DoorCode,
		&o.TimeSent, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, core.ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("update order status: %w", err)
	}
	return o, nil
}

// MarkTimeSent records that a readiness ETA was announced for the order.
func (r *OrderRepo) MarkTimeSent(ctx context.Context, orderID int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET time_sent = TRUE WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("mark time sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrOrderNotFound
	}
	return nil
}
