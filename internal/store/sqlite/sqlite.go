// Package sqlite keeps the products table in an embedded SQLite database,
// standing in for the hosted store during local development.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	_ "modernc.org/sqlite"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
)

// Store implements store.Remote on a SQLite database file
type Store struct {
	db    *sql.DB
	table string
}

var _ store.Remote = (*Store)(nil)

// Open opens (creating if needed) the database at path and its products table
func Open(ctx context.Context, path, table string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	s := &Store{db: db, table: quoteIdent(table)}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			price INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT ''
		)
	`, s.table))
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create products table")
	}

	return s, nil
}

// Name returns the backend name
func (s *Store) Name() string {
	return "sqlite"
}

// SelectProducts returns every row as a JSON array
func (s *Store) SelectProducts(ctx context.Context) (store.Response, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(json_group_array(json_object(
			'id', id,
			'name', name,
			'price', price,
			'description', description,
			'image', image,
			'category', category
		)), '[]')
		FROM (SELECT * FROM %s ORDER BY id)
	`, s.table)

	var body string
	if err := s.db.QueryRowContext(ctx, query).Scan(&body); err != nil {
		return nil, errors.Wrap(err, "select products")
	}
	return store.Response(body), nil
}

// InsertProduct inserts a single row
func (s *Store) InsertProduct(ctx context.Context, product models.Product) error {
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, name, price, description, image, category) VALUES (?, ?, ?, ?, ?, ?)`, s.table),
		product.ID, product.Name, product.Price, product.Description, product.Image, product.Category,
	)
	if err != nil {
		return errors.Wrapf(err, "insert product %d", product.ID)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
