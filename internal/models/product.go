package models

// Product represents a catalog item offered in the storefront
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
}

// Defaults applied to fields missing from a stored product record
const (
	DefaultName        = "Produit sans nom"
	DefaultDescription = ""
	DefaultImage       = "img/placeholder.png"
	DefaultCategory    = "Autres"
)
