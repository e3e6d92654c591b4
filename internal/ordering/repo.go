package ordering

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

// Repo persists confirmed orders and answers status lookups.
type Repo struct{ DB *pgxpool.Pool }

// SaveConfirmed writes the order row and its lines in one transaction. The
// breakdown is stored as it was charged; it is never recomputed from the rows.
func (r *Repo) SaveConfirmed(ctx context.Context, orderID string, profile UserProfile, totals Totals, lines []Line) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, delivery_address, status, subtotal, tax, delivery_fee, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, orderID, profile.UserID, profile.DeliveryAddress, string(StatusConfirmed),
		totals.Subtotal, totals.Tax, totals.DeliveryFee, totals.Total)
	if err != nil {
		return err
	}

	for _, ln := range lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, name, quantity, subtotal)
			VALUES ($1, $2, $3, $4)`,
			orderID, ln.Name, ln.Quantity, ln.Subtotal,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *Repo) GetOrderStatus(ctx context.Context, orderID string) (Status, error) {
	var s string
	err := r.DB.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, orderID).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", err
	}
	return Status(s), nil
}
