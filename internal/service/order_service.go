package service

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/whatsapp"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrOrderTooLarge   = errors.New("order total out of range")
)

// OrderService turns carts into WhatsApp order links
type OrderService struct {
	catalog  Catalog
	phone    string
	currency string
}

// NewOrderService creates a new order service sending orders to phone
func NewOrderService(catalog Catalog, phone, currency string) *OrderService {
	return &OrderService{
		catalog:  catalog,
		phone:    phone,
		currency: currency,
	}
}

// CreateWhatsAppLink prices the cart against the catalog and builds the deep
// link. Items whose product is unknown are left out of the message.
func (s *OrderService) CreateWhatsAppLink(ctx context.Context, req models.OrderRequest, origin string) (*models.OrderLink, error) {
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	products := s.catalog.GetAllProducts(ctx)

	msg := whatsapp.NewMessage(s.currency, origin)
	var total int64
	for _, item := range req.Items {
		product, ok := findProduct(products, item.ProductID)
		if !ok {
			continue
		}
		if total, ok = addLine(total, product.Price, item.Quantity); !ok {
			return nil, ErrOrderTooLarge
		}
		msg.AddLine(product, item.Quantity)
	}

	text := msg.String()
	return &models.OrderLink{
		URL:       whatsapp.DeepLink(s.phone, text),
		Reference: generateOrderReference(),
		Total:     msg.Total(),
		Message:   text,
	}, nil
}

// addLine adds price*quantity to total, reporting false when either the line
// amount or the new total does not fit in an int64
func addLine(total, price, quantity int64) (int64, bool) {
	if price == math.MinInt64 {
		return 0, false
	}
	unit := price
	if unit < 0 {
		unit = -unit
	}
	if unit != 0 && quantity > math.MaxInt64/unit {
		return 0, false
	}

	amount := price * quantity
	if (amount > 0 && total > math.MaxInt64-amount) || (amount < 0 && total < math.MinInt64-amount) {
		return 0, false
	}
	return total + amount, true
}

// generateOrderReference generates a unique order reference using UUID
func generateOrderReference() string {
	return uuid.New().String()
}
