// Package whatsapp builds the order message and wa.me deep link sent by the
// storefront's cart.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

const (
	deepLinkBase = "https://wa.me/"
	greeting     = "Bonjour, je voudrais commander:\n\n"
)

// Message accumulates cart lines into the free-text order message
type Message struct {
	body     strings.Builder
	total    int64
	currency string
	origin   string
}

// NewMessage starts a message. origin is the absolute base URL used to
// resolve relative product images.
func NewMessage(currency, origin string) *Message {
	m := &Message{
		currency: currency,
		origin:   origin,
	}
	m.body.WriteString(greeting)
	return m
}

// AddLine appends a product line and adds its amount to the total
func (m *Message) AddLine(product models.Product, quantity int64) {
	amount := product.Price * quantity
	m.total += amount

	fmt.Fprintf(&m.body, "- %s x%d = %d %s\n", product.Name, quantity, amount, m.currency)
	if product.Image != "" {
		fmt.Fprintf(&m.body, "Image: %s\n", ResolveImageURL(m.origin, product.Image))
	}
}

// Total is the sum of all line amounts
func (m *Message) Total() int64 {
	return m.total
}

// String returns the complete message including the total line
func (m *Message) String() string {
	return m.body.String() + fmt.Sprintf("\nTotal: %d %s", m.total, m.currency)
}

// ResolveImageURL returns an absolute URL for a product image. Absolute URLs
// pass through; relative paths are served from the origin's /static/ tree.
func ResolveImageURL(origin, image string) string {
	if strings.HasPrefix(image, "http") {
		return image
	}

	path := strings.TrimLeft(image, "/")
	path = strings.TrimPrefix(path, "static/")
	return strings.TrimRight(origin, "/") + "/static/" + path
}

// DeepLink builds the wa.me link opening a chat with phone prefilled with message
func DeepLink(phone, message string) string {
	return deepLinkBase + phone + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}
