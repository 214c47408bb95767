package routers

import (
	"net/http"
	"time"

	"signaling/internal/handlers"
	"signaling/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *handlers.Handlers, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))
	r.Use(metrics.Middleware("signaling"))

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Long-lived websocket endpoint; kept outside the timeout middleware.
	r.Get("/signaling", h.SignalingWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/webrtc/config", h.GetWebRTCConfig)
		r.Get("/signaling/status", h.SignalingStatus)

		r.Post("/call-links", h.CreateCallLink)
		r.Get("/call-links/{callId}", h.GetCallLink)
	})

	return r
}
