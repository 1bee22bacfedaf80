package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kanchanlabs/delivery-backend/api/controllers"
	"github.com/kanchanlabs/delivery-backend/api/middleware"
	"github.com/kanchanlabs/delivery-backend/internal/billing"
	"github.com/kanchanlabs/delivery-backend/internal/customers"
	"github.com/kanchanlabs/delivery-backend/internal/dailyupdates"
	"github.com/kanchanlabs/delivery-backend/internal/dashboard"
	"github.com/kanchanlabs/delivery-backend/internal/orders"
	"github.com/kanchanlabs/delivery-backend/internal/pricing"
	"github.com/kanchanlabs/delivery-backend/pkg/config"
	"github.com/kanchanlabs/delivery-backend/pkg/db"
	"github.com/kanchanlabs/delivery-backend/pkg/logger"
	"github.com/kanchanlabs/delivery-backend/pkg/metrics"
	pkgredis "github.com/kanchanlabs/delivery-backend/pkg/redis"
)

// Params carries everything the router wires together.
type Params struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        pkgredis.IdempotencyStore
	HTTPMetrics  *metrics.HTTPMetrics
	Registry     *prometheus.Registry
	Customers    *customers.Service
	DailyUpdates *dailyupdates.Service
	Billing      *billing.Service
	Pricing      *pricing.Service
	Orders       *orders.Service
	Dashboard    *dashboard.Service
}

// NewRouter builds the full HTTP surface.
func NewRouter(p Params) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(p.Config.CORS),
		middleware.Idempotency(p.Redis, p.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.DB, p.Logger))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(p.Customers, p.Logger))
			r.Post("/", controllers.CustomerCreate(p.Customers, p.Logger))
			r.Get("/{customerId}", controllers.CustomerGet(p.Customers, p.Logger))
			r.Put("/{customerId}", controllers.CustomerUpdate(p.Customers, p.Logger))
			r.Delete("/{customerId}", controllers.CustomerDelete(p.Customers, p.Logger))
		})

		r.Route("/daily-updates", func(r chi.Router) {
			r.Get("/", controllers.DailyUpdateList(p.DailyUpdates, p.Logger))
			r.Post("/", controllers.DailyUpdateUpsert(p.DailyUpdates, p.Logger))
			r.Get("/ledger", controllers.DailyUpdateLedger(p.DailyUpdates, p.Logger))
		})

		r.Route("/bills", func(r chi.Router) {
			r.Get("/", controllers.BillList(p.Billing, p.Logger))
			r.Post("/compute", controllers.BillCompute(p.Billing, p.Logger))
			r.Post("/save-monthly", controllers.BillSaveMonthly(p.Billing, p.Logger))
			r.Put("/{billId}/status", controllers.BillUpdateStatus(p.Billing, p.Logger))
			r.Delete("/{billId}", controllers.BillDelete(p.Billing, p.Logger))
		})

		r.Route("/settings/prices", func(r chi.Router) {
			r.Get("/", controllers.PriceCurrent(p.Pricing, p.Logger))
			r.Post("/", controllers.PriceUpdate(p.Pricing, p.Logger))
			r.Get("/history", controllers.PriceHistory(p.Pricing, p.Logger))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(p.Orders, p.Logger))
			r.Post("/", controllers.OrderCreate(p.Orders, p.Logger))
			r.Get("/{orderId}", controllers.OrderGet(p.Orders, p.Logger))
			r.Put("/{orderId}", controllers.OrderUpdate(p.Orders, p.Logger))
			r.Put("/{orderId}/status", controllers.OrderUpdateStatus(p.Orders, p.Logger))
			r.Delete("/{orderId}", controllers.OrderDelete(p.Orders, p.Logger))
		})

		r.Get("/dashboard", controllers.DashboardStats(p.Dashboard, p.Logger))
	})

	return r
}
