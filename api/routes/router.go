package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/sellerdesk-backend/api/controllers"
	"github.com/angelmondragon/sellerdesk-backend/api/middleware"
	"github.com/angelmondragon/sellerdesk-backend/internal/auth"
	"github.com/angelmondragon/sellerdesk-backend/internal/clients"
	"github.com/angelmondragon/sellerdesk-backend/internal/orders"
	products "github.com/angelmondragon/sellerdesk-backend/internal/products"
	"github.com/angelmondragon/sellerdesk-backend/internal/reports"
	"github.com/angelmondragon/sellerdesk-backend/pkg/config"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
	"github.com/angelmondragon/sellerdesk-backend/pkg/metrics"
	"github.com/angelmondragon/sellerdesk-backend/pkg/redis"
)

// Dependencies is everything the HTTP surface needs. Idempotency, RateLimiter,
// HTTPMetrics and MetricsHandler are optional.
type Dependencies struct {
	Config    *config.Config
	Logger    *logger.Logger
	Readiness []controllers.ReadinessCheck

	Idempotency    redis.IdempotencyStore
	RateLimiter    redis.RateLimiter
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	Auth     auth.Service
	Products products.Service
	Clients  clients.Service
	Orders   orders.Service
	Reports  reports.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins()),
		middleware.Metrics(deps.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness...))
	})
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimiter, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RateLimiter, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/me", controllers.Me(deps.Auth, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Get("/search", controllers.SearchProducts(deps.Products, logg))
			r.Get("/{productId}", controllers.GetProduct(deps.Products, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(deps.Products, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(deps.Products, logg))
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ListClients(deps.Clients, logg))
			r.Post("/", controllers.CreateClient(deps.Clients, logg))
			r.Get("/{clientId}", controllers.GetClient(deps.Clients, logg))
			r.Patch("/{clientId}", controllers.UpdateClient(deps.Clients, logg))
			r.Delete("/{clientId}", controllers.DeleteClient(deps.Clients, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.With(middleware.Idempotency(deps.Idempotency, logg)).Post("/", controllers.CreateOrder(deps.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
			r.Patch("/{orderId}", controllers.UpdateOrder(deps.Orders, logg))
			r.Delete("/{orderId}", controllers.DeleteOrder(deps.Orders, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/best-clients", controllers.BestClients(deps.Reports, logg))
			r.Get("/best-sellers", controllers.BestSellers(deps.Reports, logg))
		})
	})

	return r
}
