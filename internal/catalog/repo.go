package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("already exists")
	ErrProductInUse = errors.New("product is referenced by order history")
)

type Repo struct{ DB *pgxpool.Pool }

// ---- categories ----

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCategory(ctx context.Context, categorySlug string) (Category, error) {
	var c Category
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, slug FROM categories WHERE slug=$1`, categorySlug).
		Scan(&c.ID, &c.Name, &c.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	return c, err
}

func (r *Repo) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	c := Category{ID: uuid.NewString(), Name: in.Name, Slug: in.Slug}
	if c.Slug == "" {
		c.Slug = slug.Make(in.Name)
	}
	_, err := r.DB.Exec(ctx,
		`INSERT INTO categories(id, name, slug) VALUES ($1, $2, $3)`, c.ID, c.Name, c.Slug)
	if isUniqueViolation(err) {
		return Category{}, ErrDuplicate
	}
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

// UpdateCategory renames a category. The slug is derived once at creation
// and never recomputed from the new name.
func (r *Repo) UpdateCategory(ctx context.Context, categorySlug, name string) (Category, error) {
	var c Category
	err := r.DB.QueryRow(ctx,
		`UPDATE categories SET name=$2 WHERE slug=$1 RETURNING id, name, slug`,
		categorySlug, name).Scan(&c.ID, &c.Name, &c.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if isUniqueViolation(err) {
		return Category{}, ErrDuplicate
	}
	return c, err
}

func (r *Repo) DeleteCategory(ctx context.Context, categorySlug string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE slug=$1`, categorySlug)
	if err != nil {
		if isFKViolation(err) {
			return ErrProductInUse
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- products ----

// orderings whitelists user-supplied sort keys.
var orderings = map[string]string{
	"price":       "p.price_cents ASC",
	"-price":      "p.price_cents DESC",
	"created_at":  "p.created_at ASC",
	"-created_at": "p.created_at DESC",
}

func orderingClause(key string) string {
	if o, ok := orderings[key]; ok {
		return o
	}
	return orderings["-created_at"]
}

func (r *Repo) ListProducts(ctx context.Context, f ProductFilter) ([]Product, error) {
	q := `
		SELECT p.id, p.category_id, c.slug, p.name, p.slug, p.description,
		       p.price_cents, p.stock, p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE 1=1`
	var args []any
	if f.CategorySlug != "" {
		args = append(args, f.CategorySlug)
		q += fmt.Sprintf(" AND c.slug = $%d", len(args))
	}
	if f.StockGTE != nil {
		args = append(args, *f.StockGTE)
		q += fmt.Sprintf(" AND p.stock >= $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		q += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args))
	}
	q += " ORDER BY " + orderingClause(f.Ordering)
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.CategorySlug, &p.Name, &p.Slug,
			&p.Description, &p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, productSlug string) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT p.id, p.category_id, c.slug, p.name, p.slug, p.description,
		       p.price_cents, p.stock, p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.slug = $1
	`, productSlug).Scan(&p.ID, &p.CategoryID, &p.CategorySlug, &p.Name, &p.Slug,
		&p.Description, &p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}

	specs, err := r.DB.Query(ctx,
		`SELECT id, name, value FROM product_specifications WHERE product_id=$1 ORDER BY name`, p.ID)
	if err != nil {
		return Product{}, err
	}
	defer specs.Close()
	for specs.Next() {
		var s Specification
		if err := specs.Scan(&s.ID, &s.Name, &s.Value); err != nil {
			return Product{}, err
		}
		p.Specifications = append(p.Specifications, s)
	}
	if err := specs.Err(); err != nil {
		return Product{}, err
	}

	imgs, err := r.DB.Query(ctx,
		`SELECT id, url FROM product_images WHERE product_id=$1 ORDER BY id`, p.ID)
	if err != nil {
		return Product{}, err
	}
	defer imgs.Close()
	for imgs.Next() {
		var im Image
		if err := imgs.Scan(&im.ID, &im.URL); err != nil {
			return Product{}, err
		}
		p.Images = append(p.Images, im)
	}
	return p, imgs.Err()
}

func (r *Repo) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	cat, err := r.GetCategory(ctx, in.CategorySlug)
	if err != nil {
		return Product{}, err
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Product{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	productSlug := in.Slug
	if productSlug == "" {
		productSlug = slug.Make(in.Name)
	}
	id := uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO products(id, category_id, name, slug, description, price_cents, stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, cat.ID, in.Name, productSlug, in.Description, in.PriceCents, in.Stock)
	if isUniqueViolation(err) {
		return Product{}, ErrDuplicate
	}
	if err != nil {
		return Product{}, err
	}

	for _, s := range in.Specifications {
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_specifications(id, product_id, name, value) VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), id, s.Name, s.Value); err != nil {
			return Product{}, err
		}
	}
	for _, im := range in.Images {
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_images(id, product_id, url) VALUES ($1, $2, $3)
		`, uuid.NewString(), id, im.URL); err != nil {
			return Product{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Product{}, err
	}
	return r.GetProduct(ctx, productSlug)
}

func (r *Repo) UpdateProduct(ctx context.Context, productSlug string, in ProductInput) (Product, error) {
	cat, err := r.GetCategory(ctx, in.CategorySlug)
	if err != nil {
		return Product{}, err
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE products
		SET category_id=$2, name=$3, description=$4, price_cents=$5, stock=$6, updated_at=now()
		WHERE slug=$1
	`, productSlug, cat.ID, in.Name, in.Description, in.PriceCents, in.Stock)
	if err != nil {
		return Product{}, err
	}
	if ct.RowsAffected() == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetProduct(ctx, productSlug)
}

func (r *Repo) DeleteProduct(ctx context.Context, productSlug string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE slug=$1`, productSlug)
	if err != nil {
		if isFKViolation(err) {
			return ErrProductInUse
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isFKViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
