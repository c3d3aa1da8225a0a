// Package postgres reads and writes the products table over a direct
// Postgres connection, such as the database behind a Supabase project.
package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
)

// Store implements store.Remote on a pgx connection pool
type Store struct {
	pool  *pgxpool.Pool
	table string
}

var _ store.Remote = (*Store)(nil)

// Open connects to the database at dsn and verifies the connection
func Open(ctx context.Context, dsn, table string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	return New(pool, table), nil
}

// New wraps an existing pool
func New(pool *pgxpool.Pool, table string) *Store {
	return &Store{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
	}
}

// Name returns the backend name
func (s *Store) Name() string {
	return "postgres"
}

// EnsureSchema creates the products table when it does not exist
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		price BIGINT NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT ''
	)`, s.table))
	if err != nil {
		return errors.Wrap(err, "create products table")
	}
	return nil
}

// SelectProducts returns every row as a JSON array
func (s *Store) SelectProducts(ctx context.Context) (store.Response, error) {
	query := fmt.Sprintf(`SELECT COALESCE(json_agg(p ORDER BY p.id), '[]'::json) FROM %s p`, s.table)

	var body []byte
	if err := s.pool.QueryRow(ctx, query).Scan(&body); err != nil {
		return nil, errors.Wrap(err, "select products")
	}
	return store.Response(body), nil
}

// InsertProduct inserts a single row
func (s *Store) InsertProduct(ctx context.Context, product models.Product) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (id, name, price, description, image, category) VALUES ($1, $2, $3, $4, $5, $6)`,
		s.table,
	)
	_, err := s.pool.Exec(ctx, query,
		product.ID, product.Name, product.Price, product.Description, product.Image, product.Category,
	)
	if err != nil {
		return errors.Wrapf(err, "insert product %d", product.ID)
	}
	return nil
}

// Close releases the pool
func (s *Store) Close() {
	s.pool.Close()
}
