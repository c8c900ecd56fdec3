package events

import (
	"context"
	"sync"

	"pull_request_notifier/internal/domain/entity"
)

// Kind is the closed set of domain events published after a webhook
// has been applied to the repository.
type Kind string

const (
	PullRequestCreated    Kind = "webhook:pullrequest:created"
	PullRequestUpdated    Kind = "webhook:pullrequest:updated"
	PullRequestApproved   Kind = "webhook:pullrequest:approved"
	PullRequestUnapproved Kind = "webhook:pullrequest:unapproved"
	PullRequestFulfilled  Kind = "webhook:pullrequest:fulfilled"
	PullRequestRejected   Kind = "webhook:pullrequest:rejected"
)

// Kinds lists every domain event kind, in webhook table order.
func Kinds() []Kind {
	return []Kind{
		PullRequestCreated,
		PullRequestUpdated,
		PullRequestApproved,
		PullRequestUnapproved,
		PullRequestFulfilled,
		PullRequestRejected,
	}
}

// ForWebhook maps a provider webhook event type onto the domain event
// kind published for it. ok is false for unhandled event types.
func ForWebhook(eventType string) (Kind, bool) {
	kind := Kind("webhook:" + eventType)
	switch kind {
	case PullRequestCreated, PullRequestUpdated, PullRequestApproved,
		PullRequestUnapproved, PullRequestFulfilled, PullRequestRejected:
		return kind, true
	}
	return "", false
}

// PullRequestWithActor is the payload of every domain event: the
// normalized pull request plus the user whose action triggered it.
type PullRequestWithActor struct {
	PullRequest entity.PullRequest
	Actor       entity.User
}

type Handler func(ctx context.Context, kind Kind, payload PullRequestWithActor)

// Dispatcher decouples webhook ingestion from notification delivery.
// One instance lives for the whole process and is injected into every
// component that needs it; subscriptions are lost on restart.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Kind][]Handler),
	}
}

func (d *Dispatcher) On(kind Kind, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[kind] = append(d.handlers[kind], handler)
}

// Emit invokes every handler registered for kind synchronously, in
// registration order. The payload is passed unchanged; handlers must
// not mutate it destructively for handlers after them.
func (d *Dispatcher) Emit(ctx context.Context, kind Kind, payload PullRequestWithActor) {
	d.mu.RLock()
	handlers := make([]Handler, len(d.handlers[kind]))
	copy(handlers, d.handlers[kind])
	d.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, kind, payload)
	}
}

// RemoveAllListeners drops every registration. Used by tests to reset
// state between independent processing units.
func (d *Dispatcher) RemoveAllListeners() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers = make(map[Kind][]Handler)
}
