package models

// OrderRequest represents the cart posted to the WhatsApp link endpoint
type OrderRequest struct {
	Items []OrderItem `json:"items"`
}

// OrderItem represents a single cart line
type OrderItem struct {
	ProductID int64 `json:"id"`
	Quantity  int64 `json:"quantity"`
}

// OrderLink is the generated WhatsApp deep link for a cart
type OrderLink struct {
	URL       string `json:"url"`
	Reference string `json:"reference"`
	Total     int64  `json:"-"`
	Message   string `json:"-"`
}
