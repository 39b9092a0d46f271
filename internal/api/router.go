// Package api exposes the wizard session operations over HTTP.
package api

import (
	"net/http"
	"time"

	"footfit/internal/common/logger"
	"footfit/internal/export"
	"footfit/internal/session"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler holds the dependencies of every route.
type Handler struct {
	sessions *session.Service
	mailer   *export.Mailer
	texter   *export.Texter
	log      logger.Logger
}

func NewHandler(sessions *session.Service, mailer *export.Mailer, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Handler{sessions: sessions, mailer: mailer, log: log}
}

// WithTexter enables the SMS export route. Without it the route answers
// SMS_DISABLED.
func (h *Handler) WithTexter(t *export.Texter) *Handler {
	h.texter = t
	return h
}

// NewRouter builds the chi route tree.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(chimiddleware.Recoverer)

	// ========================
	// Operational Endpoints
	// ========================
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Wizard API
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(10 * time.Second))

		r.Get("/options", h.Options)

		r.Post("/sessions", h.StartSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.EndSession)
			r.Put("/fields/{field}", h.SetField)
			r.Post("/advance", h.Advance)
			r.Post("/retreat", h.Retreat)
			r.Post("/reset", h.Reset)
			r.Get("/recommendation", h.Recommendation)
			r.Get("/export", h.Export)
			r.Post("/export/email", h.EmailExport)
			r.Post("/export/sms", h.SMSExport)
		})
	})

	return r
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("http request", map[string]interface{}{
				"method":    r.Method,
				"path":      r.URL.Path,
				"status":    ww.Status(),
				"bytes":     ww.BytesWritten(),
				"duration":  time.Since(start).String(),
				"requestId": chimiddleware.GetReqID(r.Context()),
			})
		})
	}
}
