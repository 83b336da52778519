package handler

import (
	"TagService/internal/middleware"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	Logger         *slog.Logger
	RequestTimeout time.Duration
	Guard          middleware.Checker
	Cookies        middleware.Cookies
	Metrics        http.Handler
}

// NewRouter собирает маршруты сервиса. Все маршруты тэгов, /auth/logout
// и /auth/me проходят через guard.
func NewRouter(config RouterConfig, auth *AuthenticationHandler, tags *TagHandler, health *HealthHandler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID(),
		middleware.Logging(config.Logger),
		middleware.Recover(),
	)

	router.Get("/livez", health.Livez)
	router.Get("/healthz", health.Healthz)
	if config.Metrics != nil {
		router.Handle("/metrics", config.Metrics)
	}

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(config.RequestTimeout))

		r.Post("/auth/login", auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(config.Guard, config.Cookies))

			r.Post("/auth/logout", auth.Logout)
			r.Get("/auth/me", auth.Me)

			r.Route("/tag", func(r chi.Router) {
				r.Post("/", tags.Create)
				r.Get("/", tags.GetSorted)
				r.Get("/{id}", tags.Get)
				r.Put("/{id}", tags.Update)
				r.Delete("/{id}", tags.Delete)
			})
		})
	})

	return router
}
