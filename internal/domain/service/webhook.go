package service

import (
	"context"
	"fmt"
	"log/slog"

	jsoniter "github.com/json-iterator/go"

	"pull_request_notifier/internal/domain/entity"
	"pull_request_notifier/internal/events"
	"pull_request_notifier/internal/infrastructure/bitbucket"
	"pull_request_notifier/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

type PullRequestRepository interface {
	Add(pr entity.PullRequest)
	Update(pr entity.PullRequest)
	Remove(pr entity.PullRequest)
}

type Normalizer interface {
	Normalize(ctx context.Context, webhook bitbucket.PullRequestPayload) (entity.PullRequest, error)
}

// WebhookEventService classifies inbound webhook events, normalizes
// their payloads, mutates the repository and publishes the matching
// domain event. It is stateless between invocations.
type WebhookEventService struct {
	repo       PullRequestRepository
	normalizer Normalizer
	dispatcher *events.Dispatcher
}

func NewWebhookEventService(
	repo PullRequestRepository,
	normalizer Normalizer,
	dispatcher *events.Dispatcher,
) *WebhookEventService {
	return &WebhookEventService{
		repo:       repo,
		normalizer: normalizer,
		dispatcher: dispatcher,
	}
}

const (
	eventPullRequestCreated    = "pullrequest:created"
	eventPullRequestUpdated    = "pullrequest:updated"
	eventPullRequestApproved   = "pullrequest:approved"
	eventPullRequestUnapproved = "pullrequest:unapproved"
	eventPullRequestFulfilled  = "pullrequest:fulfilled"
	eventPullRequestRejected   = "pullrequest:rejected"
)

// HandleEvent applies one raw webhook delivery. Unknown event types
// are logged and ignored; a normalization failure drops the whole
// event with no repository mutation and no published domain event.
// Neither outcome is fatal for subsequent deliveries.
func (s *WebhookEventService) HandleEvent(ctx context.Context, eventType string, body []byte) error {
	var mutate func(entity.PullRequest)

	switch eventType {
	case eventPullRequestCreated:
		mutate = s.repo.Add
	case eventPullRequestUpdated, eventPullRequestApproved, eventPullRequestUnapproved:
		mutate = s.repo.Update
	case eventPullRequestFulfilled, eventPullRequestRejected:
		mutate = s.repo.Remove
	default:
		logger(ctx).Info("unhandled event payload", slog.String("event_type", eventType))
		return nil
	}

	var payload bitbucket.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	pr, err := s.normalizer.Normalize(ctx, payload.PullRequest)
	if err != nil {
		return fmt.Errorf("normalizer.Normalize: %w", err)
	}

	mutate(pr)

	kind, ok := events.ForWebhook(eventType)
	if !ok {
		return nil
	}

	s.dispatcher.Emit(ctx, kind, events.PullRequestWithActor{
		PullRequest: pr,
		Actor:       bitbucket.NormalizeUser(payload.Actor),
	})

	return nil
}
