package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

var (
	// ErrDuplicateID is returned when inserting a product whose ID is taken
	ErrDuplicateID = errors.New("duplicate product id")
)

// Memory implements Remote with in-memory storage
type Memory struct {
	mu       sync.RWMutex
	products map[int64]models.Product
	shape    Shape
}

// MemoryOption configures a Memory store
type MemoryOption func(*Memory)

// WithShape makes the store answer selects wrapped in the given shape
func WithShape(shape Shape) MemoryOption {
	return func(m *Memory) {
		m.shape = shape
	}
}

// NewMemory creates an in-memory store seeded with products
func NewMemory(products []models.Product, opts ...MemoryOption) *Memory {
	m := &Memory{
		products: make(map[int64]models.Product, len(products)),
		shape:    ShapeList,
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

// Name returns the backend name
func (m *Memory) Name() string {
	return "memory"
}

// SelectProducts returns all products ordered by ID
func (m *Memory) SelectProducts(ctx context.Context) (Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Encode(m.Products(), m.shape)
}

// InsertProduct stores a product, rejecting duplicate IDs
func (m *Memory) InsertProduct(ctx context.Context, product models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.products[product.ID]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateID, product.ID)
	}
	m.products[product.ID] = product
	return nil
}

// Products returns a copy of the stored products ordered by ID
func (m *Memory) Products() []models.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]models.Product, 0, len(m.products))
	for _, product := range m.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})
	return products
}
