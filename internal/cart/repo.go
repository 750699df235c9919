package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProductNotFound = errors.New("invalid product_id")
	ErrItemNotFound    = errors.New("invalid item_id")
)

type Repo struct{ DB *pgxpool.Pool }

// Get returns the caller's cart, creating the row lazily on first access.
func (r *Repo) Get(ctx context.Context, userID string) (Cart, error) {
	if _, err := r.DB.Exec(ctx,
		`INSERT INTO carts(user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return Cart{}, err
	}

	c := Cart{UserID: userID}
	if err := r.DB.QueryRow(ctx,
		`SELECT created_at, updated_at FROM carts WHERE user_id=$1`, userID).
		Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return Cart{}, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT ci.id, ci.product_id, p.name, p.slug, ci.qty, ci.price_cents
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_user_id = $1
		ORDER BY ci.id
	`, userID)
	if err != nil {
		return Cart{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.ProductSlug,
			&it.Qty, &it.PriceCents); err != nil {
			return Cart{}, err
		}
		it.SubtotalCents = it.Qty * it.PriceCents
		c.TotalCents += it.SubtotalCents
		c.Items = append(c.Items, it)
	}
	return c, rows.Err()
}

// AddItem upserts on (cart, product): re-adding overwrites qty and
// re-snapshots the price from the live product. Stock is not checked here;
// checkout enforces it.
func (r *Repo) AddItem(ctx context.Context, userID, productID string, qty int) (Cart, error) {
	var priceCents int
	err := r.DB.QueryRow(ctx,
		`SELECT price_cents FROM products WHERE id=$1`, productID).Scan(&priceCents)
	if errors.Is(err, pgx.ErrNoRows) {
		return Cart{}, ErrProductNotFound
	}
	if err != nil {
		return Cart{}, err
	}

	if _, err := r.DB.Exec(ctx,
		`INSERT INTO carts(user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return Cart{}, err
	}
	if _, err := r.DB.Exec(ctx, `
		INSERT INTO cart_items(id, cart_user_id, product_id, qty, price_cents)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_user_id, product_id)
		DO UPDATE SET qty = EXCLUDED.qty, price_cents = EXCLUDED.price_cents
	`, uuid.NewString(), userID, productID, qty, priceCents); err != nil {
		return Cart{}, err
	}
	if _, err := r.DB.Exec(ctx,
		`UPDATE carts SET updated_at=now() WHERE user_id=$1`, userID); err != nil {
		return Cart{}, err
	}
	return r.Get(ctx, userID)
}

// RemoveItem deletes an item only when it belongs to the caller's cart.
func (r *Repo) RemoveItem(ctx context.Context, userID, itemID string) (Cart, error) {
	ct, err := r.DB.Exec(ctx,
		`DELETE FROM cart_items WHERE id=$1 AND cart_user_id=$2`, itemID, userID)
	if err != nil {
		return Cart{}, err
	}
	if ct.RowsAffected() == 0 {
		return Cart{}, ErrItemNotFound
	}
	if _, err := r.DB.Exec(ctx,
		`UPDATE carts SET updated_at=now() WHERE user_id=$1`, userID); err != nil {
		return Cart{}, err
	}
	return r.Get(ctx, userID)
}
