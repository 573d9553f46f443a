package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/RicardoInfonetGyn/bastos/internal/api/handler"
	"github.com/RicardoInfonetGyn/bastos/internal/api/middleware"
	"github.com/RicardoInfonetGyn/bastos/internal/auth"
	"github.com/RicardoInfonetGyn/bastos/internal/client"
	"github.com/RicardoInfonetGyn/bastos/internal/company"
	"github.com/RicardoInfonetGyn/bastos/internal/i18n"
	"github.com/RicardoInfonetGyn/bastos/internal/obs"
	"github.com/RicardoInfonetGyn/bastos/internal/user"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	AuthService    *auth.Service
	UserRepo       user.Repository
	CompanyRepo    company.Repository
	ClientRepo     client.Repository
	I18nService    *i18n.Service
	DBPinger       handler.DBPinger
	Version        string
	AllowedOrigins []string
	LoginBurst     int
	LoginPerMin    int
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(obs.Instrument)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)
	r.Method("GET", "/metrics", obs.Handler())

	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserRepo, deps.I18nService)
	clientHandler := handler.NewClientHandler(deps.ClientRepo, deps.I18nService)
	i18nHandler := handler.NewI18nHandler(deps.I18nService)
	optionsHandler := handler.NewOptionsHandler(deps.UserRepo, deps.CompanyRepo)

	requireAuth := middleware.Auth(deps.AuthService.Verifier())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(deps.LoginBurst, deps.LoginPerMin)).
				Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/select-company-unit", authHandler.SelectCompanyUnit)
				r.Post("/logout", authHandler.Logout)
				r.Get("/validate", authHandler.Validate)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", userHandler.Register)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", userHandler.List)
				r.Get("/{login}", userHandler.Get)
				r.Put("/{login}", userHandler.Update)
				r.Delete("/{login}", userHandler.Deactivate)
			})
		})

		r.Route("/clients", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", clientHandler.Register)
			r.Get("/{login}", clientHandler.Profile)
		})

		r.Route("/i18n", func(r chi.Router) {
			r.Get("/languages", i18nHandler.Languages)
			r.With(requireAuth).Get("/translations", i18nHandler.Translations)
		})

		r.Route("/options", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/groups", optionsHandler.Groups)
			r.Get("/companies", optionsHandler.Companies)
			r.Get("/units", optionsHandler.Units)
		})
	})

	return r
}
