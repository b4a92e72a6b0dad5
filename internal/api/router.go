package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/inventory-backend/internal/api/handlers"
	"github.com/baharkarakas/inventory-backend/internal/metrics"
	"github.com/baharkarakas/inventory-backend/internal/middleware"
	"github.com/baharkarakas/inventory-backend/internal/storage"
)

type RouterDeps struct {
	Log         *slog.Logger
	CORSOrigins []string
	Auth        *handlers.AuthHandler
	Users       *handlers.UserHandler
	Inventory   *handlers.InventoryHandler
	Gate        *middleware.AuthMiddleware
	Images      storage.ImageStore
}

func NewRouter(d RouterDeps) http.Handler {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.AccessLog(d.Log), middleware.Recover, middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	if d.Images != nil {
		r.Handle(storage.PublicPrefix+"*", http.StripPrefix(storage.PublicPrefix, storage.Handler(d.Images)))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)
			r.Get("/activate/{token}", d.Auth.Activate)
			r.Post("/forgot-password", d.Auth.ForgotPassword)
			r.Post("/reset-password/{token}", d.Auth.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(d.Gate.Auth)

			r.Get("/users/profile", d.Users.GetProfile)
			r.Put("/users/profile", d.Users.UpdateProfile)

			r.Route("/inventory", func(r chi.Router) {
				r.Post("/", d.Inventory.Create)
				r.Get("/", d.Inventory.List)
				r.Get("/{id}", d.Inventory.Get)
				r.Put("/{id}", d.Inventory.Update)
				r.Delete("/{id}", d.Inventory.Delete)
			})
		})
	})

	return r
}
