// Package catalog reads the restaurant menu and user profiles from Postgres.
// Both are external sources of truth the ordering core only consumes.
package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/ordering"
)

var ErrProfileNotFound = errors.New("user profile not found")

type Repo struct{ DB *pgxpool.Pool }

// AvailableItems lists the names currently orderable.
func (r *Repo) AvailableItems(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT name FROM menu_items WHERE available ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Menu snapshots the available items into an immutable menu. One snapshot
// per session keeps the menu stable for the duration of the order.
func (r *Repo) Menu(ctx context.Context) (*ordering.StaticMenu, error) {
	names, err := r.AvailableItems(ctx)
	if err != nil {
		return nil, err
	}
	return ordering.NewStaticMenu(names...), nil
}

// Profile loads the delivery destination for a user.
func (r *Repo) Profile(ctx context.Context, userID string) (ordering.UserProfile, error) {
	var addr string
	err := r.DB.QueryRow(ctx, `SELECT delivery_address FROM users WHERE id=$1`, userID).Scan(&addr)
	if errors.Is(err, pgx.ErrNoRows) {
		return ordering.UserProfile{}, ErrProfileNotFound
	}
	if err != nil {
		return ordering.UserProfile{}, err
	}
	return ordering.UserProfile{UserID: userID, DeliveryAddress: addr}, nil
}
