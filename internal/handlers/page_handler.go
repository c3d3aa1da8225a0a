package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/web"
)

// PageHandler serves the storefront's HTML pages
type PageHandler struct {
	service  *service.ProductService
	renderer *web.Renderer
	logger   *slog.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(service *service.ProductService, renderer *web.Renderer, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		service:  service,
		renderer: renderer,
		logger:   logger,
	}
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	products := h.service.ListProducts(r.Context())

	h.render(w, web.PageIndex, web.IndexData{
		Products:   products,
		Categories: web.Categories(products),
	})
}

// ProductDetail handles GET /product/{productId}
func (h *PageHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		http.Error(w, msgProductNotFound, http.StatusNotFound)
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			http.Error(w, msgProductNotFound, http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get product", "productId", id, "error", err)
		http.Error(w, "Erreur: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.render(w, web.PageProduct, product)
}

// About handles GET /about
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, web.PageAbout, nil)
}

func (h *PageHandler) render(w http.ResponseWriter, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, page, data); err != nil {
		h.logger.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "Erreur: "+err.Error(), http.StatusInternalServerError)
	}
}
