package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/counterpos/api/internal/cache"
	"github.com/counterpos/api/internal/config"
	"github.com/counterpos/api/internal/database"
	"github.com/counterpos/api/internal/enum"
	"github.com/counterpos/api/internal/handler"
	"github.com/counterpos/api/internal/metrics"
	mw "github.com/counterpos/api/internal/middleware"
	"github.com/counterpos/api/internal/notify"
	"github.com/counterpos/api/internal/service"
	"github.com/counterpos/api/internal/ws"
)

// Deps are the long-lived collaborators shared by every route.
type Deps struct {
	Pool      *pgxpool.Pool
	Hub       *ws.Hub
	Notifier  notify.Notifier
	MenuCache cache.Store
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, deps Deps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	queries := database.New(deps.Pool)

	r := chi.NewRouter()

	// Standard middleware
	r.Use(mw.RequestID())
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.Metrics(deps.Metrics))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Handle("/metrics", deps.Metrics.Handler())

	// Services
	orderService := service.NewOrderService(deps.Pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}, deps.Notifier, deps.Metrics)
	kitchenService := service.NewKitchenService(deps.Pool, func(db database.DBTX) service.KitchenStore {
		return database.New(db)
	}, orderService, deps.Notifier, deps.Metrics)
	tableService := service.NewTableService(deps.Pool, func(db database.DBTX) service.TableStore {
		return database.New(db)
	}, deps.Notifier)
	billService := service.NewBillService(deps.Pool, func(db database.DBTX) service.BillStore {
		return database.New(db)
	}, deps.Notifier, deps.Metrics)
	menuService := service.NewMenuService(deps.Pool, func(db database.DBTX) service.MenuStore {
		return database.New(db)
	}, deps.MenuCache, deps.Notifier, logger)

	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret, cfg.JWTTTL, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	kitchenHandler := handler.NewKitchenHandler(kitchenService, logger)
	tableHandler := handler.NewTableHandler(tableService, logger)
	billHandler := handler.NewBillHandler(billService, logger)
	menuHandler := handler.NewMenuHandler(menuService, logger)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/health", healthHandler(deps.Pool))
		authHandler.RegisterRoutes(r)

		// WebSocket route (handles auth internally via query param)
		r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWS(deps.Hub, cfg.JWTSecret, w, r)
		})

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))

			// Every terminal may read the catalog and floor, and the kitchen
			// display works the queue.
			r.Route("/kitchen", kitchenHandler.RegisterRoutes)

			r.Route("/menu", func(r chi.Router) {
				menuHandler.ReadRoutes(r)
				r.With(mw.RequireRole(enum.RoleManager)).Group(menuHandler.WriteRoutes)
			})

			r.Route("/tables", func(r chi.Router) {
				tableHandler.ReadRoutes(r)
				r.With(mw.RequireRole(enum.RoleManager)).Group(tableHandler.WriteRoutes)
			})

			// Counter routes
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleCounter, enum.RoleManager))
				r.Route("/orders", orderHandler.RegisterRoutes)
				r.Route("/bills", billHandler.RegisterRoutes)
			})
		})
	})

	logger.Info("router initialized")
	return r
}

// healthHandler reports liveness and whether the database answers a ping.
func healthHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if pool == nil || pool.Ping(ctx) != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded","database":"unreachable"}`))
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}
}
