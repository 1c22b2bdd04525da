package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrimarket/agrimarket-backend/api/controllers"
	"github.com/agrimarket/agrimarket-backend/api/middleware"
	adminsvc "github.com/agrimarket/agrimarket-backend/internal/admin"
	"github.com/agrimarket/agrimarket-backend/internal/auth"
	cartsvc "github.com/agrimarket/agrimarket-backend/internal/cart"
	checkoutsvc "github.com/agrimarket/agrimarket-backend/internal/checkout"
	ordersvc "github.com/agrimarket/agrimarket-backend/internal/orders"
	paymentsvc "github.com/agrimarket/agrimarket-backend/internal/payments"
	productsvc "github.com/agrimarket/agrimarket-backend/internal/products"
	"github.com/agrimarket/agrimarket-backend/pkg/config"
	"github.com/agrimarket/agrimarket-backend/pkg/enums"
	"github.com/agrimarket/agrimarket-backend/pkg/logger"
	"github.com/agrimarket/agrimarket-backend/pkg/metrics"
	pkgredis "github.com/agrimarket/agrimarket-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. The router stays a pure
// wiring layer; construction and lifecycle live in cmd/api.
type Deps struct {
	Cfg      *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    *pkgredis.Client
	Sessions middleware.AccessSessionChecker

	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	AuthService     auth.Service
	ProductService  productsvc.Service
	CartService     cartsvc.Service
	CheckoutService checkoutsvc.Service
	OrderService    ordersvc.Service
	PaymentService  paymentsvc.Service
	AdminService    adminsvc.Service
}

// NewRouter assembles the full route tree with its middleware chains.
func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Cfg, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": d.DB,
			"redis":    d.Redis,
		}))
	})

	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Get("/api/public/ping", controllers.PublicPing())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, d.Redis, logg),
			middleware.Idempotency(d.Redis, logg),
		).Post("/register", controllers.AuthRegister(d.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(d.AuthService, cfg.JWT, logg))

		// Profile lives under the auth mount so it cannot be shadowed by it.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Get("/me", controllers.AuthProfile(d.AuthService, logg))
			r.Put("/me", controllers.AuthUpdateProfile(d.AuthService, logg))
			r.Put("/me/password", controllers.AuthChangePassword(d.AuthService, cfg.JWT, logg))
		})
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AdminAuthLogin(d.AuthService, logg))
	})

	// Public catalog. Browsing never requires an account.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(d.ProductService, logg))
		r.Get("/featured", controllers.ProductFeatured(d.ProductService, logg))
		r.Get("/{productId}", controllers.ProductDetail(d.ProductService, logg))
	})
	r.Get("/api/v1/categories", controllers.CategoryList(d.ProductService, logg))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(d.CartService, logg))
			r.Post("/", controllers.CartAdd(d.CartService, logg))
			r.Delete("/", controllers.CartClear(d.CartService, logg))
			r.Put("/{itemId}", controllers.CartUpdateItem(d.CartService, logg))
			r.Delete("/{itemId}", controllers.CartRemoveItem(d.CartService, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Post("/", controllers.Checkout(d.CheckoutService, logg))
			r.Get("/", controllers.OrderList(d.OrderService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(d.OrderService, logg))
		})

		r.Route("/v1/payments", func(r chi.Router) {
			r.Post("/mobile-money", controllers.PaymentMobileMoney(d.PaymentService, logg))
			r.Get("/verify/{transactionId}", controllers.PaymentVerify(d.PaymentService, logg))
			r.Get("/status/{orderId}", controllers.PaymentStatus(d.PaymentService, logg))
			r.Get("/history", controllers.PaymentHistory(d.PaymentService, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Get("/ping", controllers.AdminPing())

		r.Get("/v1/dashboard", controllers.AdminDashboard(d.AdminService, logg))

		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(d.ProductService, logg))
			r.Post("/", controllers.AdminProductCreate(d.ProductService, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(d.ProductService, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(d.ProductService, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(d.OrderService, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderStatus(d.OrderService, logg))
		})

		r.Route("/v1/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUserList(d.AdminService, logg))
			r.Patch("/{userId}/status", controllers.AdminUserStatus(d.AdminService, logg))
		})

		r.Post("/v1/payments/{paymentId}/refund", controllers.AdminPaymentRefund(d.PaymentService, logg))
	})

	return r
}
