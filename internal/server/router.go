package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/catalog"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/web"
)

const docsTitle = "Storefront API"

// Dependencies are the collaborators the router wires into handlers
type Dependencies struct {
	Config   *config.Config
	Catalog  *catalog.Loader
	Renderer *web.Renderer
	Logger   *slog.Logger
}

// NewRouter builds the storefront's HTTP routes
func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	log := deps.Logger

	productService := service.NewProductService(deps.Catalog)
	orderService := service.NewOrderService(deps.Catalog, cfg.Order.WhatsAppPhone, cfg.Order.Currency)

	healthHandler := handlers.NewHealthHandler(log)
	productHandler := handlers.NewProductHandler(productService, log)
	pageHandler := handlers.NewPageHandler(productService, deps.Renderer, log)
	orderHandler := handlers.NewOrderHandler(orderService, cfg.Server.PublicBaseURL, log)
	docsHandler := handlers.NewDocsHandler(cfg.Catalog.DocsPath(), docsTitle, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.APIKeyHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/_health", healthHandler.ServeHTTP)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/docs", docsHandler.ServeHTTP)

	fileServer := http.FileServer(http.Dir(cfg.Catalog.StaticPath()))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	r.Get("/", pageHandler.Index)
	r.Get("/product/{productId}", pageHandler.ProductDetail)
	r.Get("/about", pageHandler.About)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", productHandler.ListProducts)
		r.Get("/product/{productId}", productHandler.GetProduct)

		r.With(middleware.RateLimit(cfg.Order.RateLimit, cfg.Order.RateBurst)).
			Post("/whatsapp-link", orderHandler.CreateWhatsAppLink)

		switch {
		case len(cfg.Auth.AdminAPIKeys) == 0:
			log.Info("admin routes disabled", "reason", "ADMIN_API_KEYS not set")
		case !deps.Catalog.HasRemote():
			log.Info("admin routes disabled", "reason", "no remote store configured")
		default:
			adminHandler := handlers.NewAdminHandler(deps.Catalog, log)
			r.With(middleware.APIKeyAuth(cfg.Auth)).Post("/admin/sync", adminHandler.SyncSnapshot)
		}
	})

	return r
}
