package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService  *service.OrderService
	publicBaseURL string
	log           *slog.Logger
}

// NewOrderHandler creates a new order handler. publicBaseURL, when set,
// replaces the request origin in image links.
func NewOrderHandler(orderService *service.OrderService, publicBaseURL string, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService:  orderService,
		publicBaseURL: publicBaseURL,
		log:           log,
	}
}

// WhatsAppLinkResponse is the body returned by POST /api/whatsapp-link
type WhatsAppLinkResponse struct {
	URL       string `json:"url"`
	Reference string `json:"reference"`
}

// CreateWhatsAppLink handles POST /api/whatsapp-link
func (h *OrderHandler) CreateWhatsAppLink(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	link, err := h.orderService.CreateWhatsAppLink(r.Context(), req, requestOrigin(r, h.publicBaseURL))
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuantity) {
			h.log.Warn("rejected order request", "error", err)
			WriteError(w, http.StatusBadRequest, "Quantity must be positive", h.log)
			return
		}
		if errors.Is(err, service.ErrOrderTooLarge) {
			h.log.Warn("rejected order request", "error", err)
			WriteError(w, http.StatusBadRequest, "Order total too large", h.log)
			return
		}

		h.log.Error("failed to create whatsapp link", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, WhatsAppLinkResponse{URL: link.URL, Reference: link.Reference}, h.log)
	h.log.Info("whatsapp link created",
		"reference", link.Reference,
		"items_count", len(req.Items),
		"total", link.Total,
	)
}
