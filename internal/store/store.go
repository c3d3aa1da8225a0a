// Package store defines the remote product store contract and the
// normalization of the heterogeneous payloads remote backends return.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

var (
	// ErrSchema is returned when a stored record cannot be mapped to a product
	ErrSchema = errors.New("invalid product record")
)

// Response is the raw JSON payload returned by a remote select
type Response json.RawMessage

// Remote is a remote products table supporting select and insert
type Remote interface {
	// SelectProducts returns every row of the products table
	SelectProducts(ctx context.Context) (Response, error)
	// InsertProduct inserts a single product row
	InsertProduct(ctx context.Context, product models.Product) error
	// Name identifies the backend in logs
	Name() string
}
