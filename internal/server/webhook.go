package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pull_request_notifier/internal/domain"
)

type WebhookEventService interface {
	HandleEvent(ctx context.Context, eventType string, body []byte) error
}

// WebhookServer receives provider webhook deliveries. The provider is
// always acknowledged with 200: a dropped event is logged, never
// surfaced, and retries are indistinguishable from duplicates anyway.
type WebhookServer struct {
	svc WebhookEventService
}

func NewWebhookServer(svc WebhookEventService) *WebhookServer {
	return &WebhookServer{svc: svc}
}

func (s *WebhookServer) RegisterRoutes(router chi.Router) {
	router.Post("/event", s.handleEvent)
}

func (s *WebhookServer) handleEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventType := r.Header.Get("X-Event-Key")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger(ctx).Error("failed to read webhook body", slog.Any("error", err))
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := s.svc.HandleEvent(ctx, eventType, body); err != nil {
		logger(ctx).Error("webhook event dropped",
			slog.String("event_type", eventType),
			slog.String("code", string(domain.ErrorCode(err))),
			slog.Any("error", err))
	}

	w.WriteHeader(http.StatusOK)
}
