package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-wallpaper-bot/internal/infra/logging"
	"telegram-wallpaper-bot/internal/infra/metrics"
)

// UpdateProcessor is what the front door needs from the bot adapter.
type UpdateProcessor interface {
	ProcessWebhookBody(ctx context.Context, body []byte) error
}

// Server is the HTTP front door: webhook ingress, health, liveness root and
// Prometheus metrics.
type Server struct {
	bot     UpdateProcessor
	botName string
	log     *zerolog.Logger
}

func NewServer(bot UpdateProcessor, botName string, logger *zerolog.Logger) *Server {
	return &Server{bot: bot, botName: botName, log: logger}
}

// Router builds the chi router with all inbound routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/webhook/*", s.handleWebhook)
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleRoot)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// handleWebhook acknowledges the gateway immediately; the update is handed
// off to the bot on a detached context so a slow handler or store write can
// never make Telegram retry the delivery.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		metrics.IncWebhookUpdate("read_error")
		w.WriteHeader(http.StatusOK)
		return
	}

	go func(body []byte) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		ctx = logging.WithTraceID(ctx, uuid.NewString())
		if err := s.bot.ProcessWebhookBody(ctx, body); err != nil {
			metrics.IncWebhookUpdate("error")
			logging.With(ctx, s.log).Error().Err(err).Msg("webhook update processing failed")
			return
		}
		metrics.IncWebhookUpdate("ok")
	}(body)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"bot":       s.botName,
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("wallpaper bot is running"))
}
