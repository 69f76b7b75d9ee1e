package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/verify-bot/internal/application/verification"
	"github.com/verify-bot/internal/config"
	"github.com/verify-bot/internal/transport/http/handler"
	appmiddleware "github.com/verify-bot/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — the platform retries sparingly, so
	// anything past this is not Discord.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	verifySvc := verification.NewService(
		deps.CodeStore,
		deps.Granter,
		deps.Notifier,
		cfg.GuildID,
		cfg.VerifiedRoleID,
		time.Duration(cfg.CodeTTLSeconds)*time.Second,
	)

	healthH := handler.NewHealthHandler()
	interactionH := handler.NewInteractionHandler(verifySvc)

	r.Get("/", healthH.Root)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
	})

	// Signature verification runs before the handler; an unsigned or
	// tampered request never reaches the verification service.
	r.With(sensitiveRL.Limit, appmiddleware.VerifySignature(deps.PublicKey)).
		Post("/interactions", interactionH.Handle)

	return r
}
