package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrNotFound      = errors.New("user not found")
)

type Repo struct{ DB *pgxpool.Pool }

// CreateUser inserts the user and its customer profile in one transaction,
// so a user row never exists without its profile.
func (r *Repo) CreateUser(ctx context.Context, in RegisterInput, passwordHash string) (string, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username=$1)`, in.Username).Scan(&exists); err != nil {
		return "", err
	}
	if exists {
		return "", ErrUsernameTaken
	}

	userID := uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO users(id, username, email, first_name, last_name, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, in.Username, in.Email, in.FirstName, in.LastName, passwordHash)
	if err != nil {
		return "", err
	}

	// explicit post-creation hook: provision the customer profile
	if _, err := tx.Exec(ctx, `INSERT INTO customers(user_id) VALUES ($1)`, userID); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return userID, nil
}

func (r *Repo) GetProfile(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	err := r.DB.QueryRow(ctx, `
		SELECT u.username, u.email, u.first_name, u.last_name,
		       c.phone, c.street_address, c.city, c.state, c.postal_code, c.country
		FROM users u
		JOIN customers c ON c.user_id = u.id
		WHERE u.id = $1
	`, userID).Scan(
		&p.Username, &p.Email, &p.FirstName, &p.LastName,
		&p.Phone, &p.StreetAddress, &p.City, &p.State, &p.PostalCode, &p.Country,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// UpdateProfile applies a partial update: absent fields keep their values.
func (r *Repo) UpdateProfile(ctx context.Context, userID string, up ProfileUpdate) (Profile, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Profile{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var p Profile
	err = tx.QueryRow(ctx, `
		SELECT u.username, u.email, u.first_name, u.last_name,
		       c.phone, c.street_address, c.city, c.state, c.postal_code, c.country
		FROM users u
		JOIN customers c ON c.user_id = u.id
		WHERE u.id = $1
		FOR UPDATE
	`, userID).Scan(
		&p.Username, &p.Email, &p.FirstName, &p.LastName,
		&p.Phone, &p.StreetAddress, &p.City, &p.State, &p.PostalCode, &p.Country,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}

	merge(&p.Username, up.Username)
	merge(&p.Email, up.Email)
	merge(&p.FirstName, up.FirstName)
	merge(&p.LastName, up.LastName)
	merge(&p.Phone, up.Phone)
	merge(&p.StreetAddress, up.StreetAddress)
	merge(&p.City, up.City)
	merge(&p.State, up.State)
	merge(&p.PostalCode, up.PostalCode)
	merge(&p.Country, up.Country)

	if _, err := tx.Exec(ctx, `
		UPDATE users SET username=$2, email=$3, first_name=$4, last_name=$5 WHERE id=$1
	`, userID, p.Username, p.Email, p.FirstName, p.LastName); err != nil {
		return Profile{}, err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE customers
		SET phone=$2, street_address=$3, city=$4, state=$5, postal_code=$6, country=$7, updated_at=now()
		WHERE user_id=$1
	`, userID, p.Phone, p.StreetAddress, p.City, p.State, p.PostalCode, p.Country); err != nil {
		return Profile{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func merge(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
