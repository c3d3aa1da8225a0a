package service

import (
	"context"
	"errors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// Catalog provides the current product list
type Catalog interface {
	GetAllProducts(ctx context.Context) []models.Product
}

// ProductService handles business logic for products
type ProductService struct {
	catalog Catalog
}

// NewProductService creates a new product service
func NewProductService(catalog Catalog) *ProductService {
	return &ProductService{
		catalog: catalog,
	}
}

// ListProducts returns all available products
func (s *ProductService) ListProducts(ctx context.Context) []models.Product {
	return s.catalog.GetAllProducts(ctx)
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, ok := findProduct(s.catalog.GetAllProducts(ctx), id)
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

func findProduct(products []models.Product, id int64) (models.Product, bool) {
	for _, product := range products {
		if product.ID == id {
			return product, true
		}
	}
	return models.Product{}, false
}
