package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anamartins/controledoces-backend/api/controllers"
	"github.com/anamartins/controledoces-backend/api/middleware"
	"github.com/anamartins/controledoces-backend/pkg/config"
	"github.com/anamartins/controledoces-backend/pkg/logger"
	"github.com/anamartins/controledoces-backend/pkg/metrics"
	"github.com/anamartins/controledoces-backend/pkg/redis"
)

// Dependencies carries everything the router mounts.
type Dependencies struct {
	Logger    *logger.Logger
	Metrics   *metrics.HTTPMetrics
	JWTConfig config.JWTConfig

	// IdempotencyStore is nil when Redis is not configured; mutations then
	// skip the replay guard.
	IdempotencyStore redis.IdempotencyStore
	ReplayTTL        time.Duration

	Health      *controllers.HealthController
	Auth        *controllers.AuthController
	Suppliers   *controllers.SuppliersController
	Customers   *controllers.CustomersController
	Products    *controllers.ProductsController
	Sales       *controllers.SalesController
	Settlements *controllers.SettlementsController
	Dashboard   *controllers.DashboardController

	// CloudProxy, when set, takes over every route except health and metrics.
	CloudProxy *controllers.CloudProxyController
}

func New(deps Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(middleware.CORS())

	r.Get("/health/live", deps.Health.Live)
	r.Get("/health/ready", deps.Health.Ready)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	// Proxy mode: the local instance is a dumb pipe to the cloud deployment.
	if deps.CloudProxy != nil {
		r.HandleFunc("/*", deps.CloudProxy.Proxy)
		return r
	}

	r.Post("/register", deps.Auth.Register)
	r.Post("/login", deps.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.JWTConfig, deps.Logger))
		r.Use(middleware.Idempotency(deps.IdempotencyStore, deps.ReplayTTL, deps.Logger))

		r.Put("/usuarios/senha", deps.Auth.UpdatePassword)

		r.Route("/fornecedores", func(r chi.Router) {
			r.Get("/", deps.Suppliers.List)
			r.Post("/", deps.Suppliers.Create)
			r.Get("/{id}", deps.Suppliers.Get)
			r.Put("/{id}", deps.Suppliers.Update)
			r.Delete("/{id}", deps.Suppliers.Delete)
		})

		r.Route("/clientes", func(r chi.Router) {
			r.Get("/", deps.Customers.List)
			r.Post("/", deps.Customers.Create)
			// Fixed path first so chi never treats it as an {id}.
			r.Delete("/limpar-vazios", deps.Customers.PurgeBlank)
			r.Get("/{id}", deps.Customers.Get)
			r.Put("/{id}", deps.Customers.Update)
			r.Delete("/{id}", deps.Customers.Delete)
		})

		r.Route("/produtos", func(r chi.Router) {
			r.Get("/", deps.Products.List)
			r.Post("/", deps.Products.Create)
			r.Get("/{id}", deps.Products.Get)
			r.Put("/{id}", deps.Products.Update)
			r.Delete("/{id}", deps.Products.Delete)
		})

		r.Route("/vendas", func(r chi.Router) {
			r.Get("/", deps.Sales.List)
			r.Post("/", deps.Sales.Create)
			r.Get("/{id}", deps.Sales.Get)
			r.Put("/{id}", deps.Sales.Update)
			r.Delete("/{id}", deps.Sales.Delete)
		})

		r.Route("/acertos", func(r chi.Router) {
			r.Get("/", deps.Settlements.ListPending)
			r.Post("/{id}/receber", deps.Settlements.Receive)
			r.Post("/{id}/reabrir", deps.Settlements.Reopen)
		})

		r.Get("/dashboard/resumo", deps.Dashboard.Summary)
	})

	return r
}
