package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a location id does not resolve.
var ErrNotFound = errors.New("location not found")

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const locationColumns = `
	l.id, l.shop_id, l.city, l.address, l.phone_number,
	l.delivery_method_delivery, l.delivery_method_in_place, l.delivery_method_take_away,
	l.delivery_price::text, l.time_zone,
	wh.sunday, wh.monday, wh.tuesday, wh.wednesday, wh.thursday, wh.friday, wh.saturday`

// Get loads one location with its weekly schedule.
func (r *Repo) Get(ctx context.Context, id int64) (Location, error) {
	q := `SELECT` + locationColumns + `
	FROM locations l
	JOIN working_hours wh ON wh.location_id = l.id
	WHERE l.id = $1`

	var loc Location
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&loc.ID, &loc.ShopID, &loc.City, &loc.Address, &loc.PhoneNumber,
		&loc.Delivery, &loc.InPlace, &loc.TakeAway,
		&loc.DeliveryPrice, &loc.TimeZone,
		&loc.Hours[0], &loc.Hours[1], &loc.Hours[2], &loc.Hours[3],
		&loc.Hours[4], &loc.Hours[5], &loc.Hours[6],
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Location{}, ErrNotFound
		}
		return Location{}, fmt.Errorf("get location %d: %w", id, err)
	}
	return loc, nil
}

// ListByShop loads all locations of a shop with their schedules.
func (r *Repo) ListByShop(ctx context.Context, shopID int64) ([]Location, error) {
	q := `SELECT` + locationColumns + `
	FROM locations l
	JOIN working_hours wh ON wh.location_id = l.id
	WHERE l.shop_id = $1
	ORDER BY l.id`

	rows, err := r.pool.Query(ctx, q, shopID)
	if err != nil {
		return nil, fmt.Errorf("list locations of shop %d: %w", shopID, err)
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var loc Location
		err := rows.Scan(
			&loc.ID, &loc.ShopID, &loc.City, &loc.Address, &loc.PhoneNumber,
			&loc.Delivery, &loc.InPlace, &loc.TakeAway,
			&loc.DeliveryPrice, &loc.TimeZone,
			&loc.Hours[0], &loc.Hours[1], &loc.Hours[2], &loc.Hours[3],
			&loc.Hours[4], &loc.Hours[5], &loc.Hours[6],
		)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}
