package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Checkout converts the caller's cart into a pending order in a single
// transaction: copy the cart's price snapshots into order items, decrement
// stock, clear the cart. Product rows are locked up front (in product_id
// order, so concurrent checkouts cannot deadlock) and any shortage rolls
// the whole thing back. No oversell, no backorder.
func (r *Repo) Checkout(ctx context.Context, userID string) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		SELECT ci.product_id, p.name, ci.qty, ci.price_cents, p.stock
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_user_id = $1
		ORDER BY ci.product_id
		FOR UPDATE OF p
	`, userID)
	if err != nil {
		return Order{}, err
	}

	type line struct {
		productID string
		name      string
		qty       int
		price     int
		stock     int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.name, &l.qty, &l.price, &l.stock); err != nil {
			rows.Close()
			return Order{}, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Order{}, err
	}
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	var shortages []StockShortage
	total := 0
	for _, l := range lines {
		if l.qty > l.stock {
			shortages = append(shortages, StockShortage{
				ProductID: l.productID, Required: l.qty, Available: l.stock,
			})
			continue
		}
		total += l.qty * l.price
	}
	if len(shortages) > 0 {
		return Order{}, &InsufficientStockError{Details: shortages}
	}

	now := time.Now().UTC()
	o := Order{
		ID:         uuid.NewString(),
		CustomerID: userID,
		Status:     StatusPending,
		TotalCents: total,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO orders(id, customer_id, status, total_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`, o.ID, o.CustomerID, o.Status, o.TotalCents, now); err != nil {
		return Order{}, err
	}

	for _, l := range lines {
		it := Item{
			ID:            uuid.NewString(),
			ProductID:     l.productID,
			ProductName:   l.name,
			Qty:           l.qty,
			PriceCents:    l.price, // cart snapshot, not the live price
			SubtotalCents: l.qty * l.price,
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(id, order_id, product_id, qty, price_cents)
			VALUES ($1, $2, $3, $4, $5)
		`, it.ID, o.ID, it.ProductID, it.Qty, it.PriceCents); err != nil {
			return Order{}, err
		}

		ct, err := tx.Exec(ctx, `
			UPDATE products SET stock = stock - $2, updated_at = now()
			WHERE id = $1 AND stock >= $2
		`, l.productID, l.qty)
		if err != nil {
			return Order{}, err
		}
		if ct.RowsAffected() != 1 {
			// cannot happen while we hold the row locks, but keep the
			// conditional decrement as the last line of defense
			return Order{}, &InsufficientStockError{Details: []StockShortage{
				{ProductID: l.productID, Required: l.qty, Available: l.stock},
			}}
		}
		o.Items = append(o.Items, it)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_user_id = $1`, userID); err != nil {
		return Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}
