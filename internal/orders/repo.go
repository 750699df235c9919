package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

var listOrderings = map[string]string{
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
}

// List returns the caller's orders only, newest first unless asked otherwise.
func (r *Repo) List(ctx context.Context, userID string, f ListFilter) ([]Order, error) {
	q := `
		SELECT id, customer_id, status, total_cents, created_at, updated_at
		FROM orders
		WHERE customer_id = $1`
	args := []any{userID}
	if f.Status != "" {
		args = append(args, f.Status)
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !f.CreatedSince.IsZero() {
		args = append(args, f.CreatedSince)
		q += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	ord, ok := listOrderings[f.Ordering]
	if !ok {
		ord = listOrderings["-created_at"]
	}
	q += " ORDER BY " + ord

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Status, &o.TotalCents,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.items(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

// Get scopes the lookup to the caller: an order owned by someone else is
// indistinguishable from a missing one.
func (r *Repo) Get(ctx context.Context, userID, orderID string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, customer_id, status, total_cents, created_at, updated_at
		FROM orders
		WHERE id = $1 AND customer_id = $2
	`, orderID, userID).Scan(&o.ID, &o.CustomerID, &o.Status, &o.TotalCents,
		&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	o.Items, err = r.items(ctx, o.ID)
	return o, err
}

// UpdateStatus applies one guarded transition and reports from/to.
func (r *Repo) UpdateStatus(ctx context.Context, userID, orderID string, next Status) (from Status, err error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`SELECT status FROM orders WHERE id=$1 AND customer_id=$2 FOR UPDATE`,
		orderID, userID).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if !CanTransition(from, next) {
		return "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, next)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, orderID, next); err != nil {
		return "", err
	}
	return from, tx.Commit(ctx)
}

func (r *Repo) items(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT oi.id, oi.product_id, p.name, oi.qty, oi.price_cents
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.Qty, &it.PriceCents); err != nil {
			return nil, err
		}
		it.SubtotalCents = it.Qty * it.PriceCents
		out = append(out, it)
	}
	return out, rows.Err()
}
