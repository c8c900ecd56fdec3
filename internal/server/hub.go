package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"pull_request_notifier/internal/domain/entity"
	"pull_request_notifier/internal/events"
	"pull_request_notifier/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	clientIntroduce = "client:introduce"
	clientRemind    = "client:remind"

	serverIntroduced          = "server:introduced"
	serverRemind              = "server:remind"
	serverPullRequestsUpdated = "server:pullrequests:updated"
)

// session is one connected client channel. send must not block the
// caller; delivery is best effort.
type session interface {
	send(event string, payload any)
}

type userPullRequestFinder interface {
	FindByUser(username string) []entity.PullRequest
}

// Hub routes notifications to connected users. Raw WebSockets have no
// named-room addressing, so the hub keeps an explicit room table
// (username to set of sessions), pruned on disconnect. Membership
// changes and deliveries share one lock, so a session never receives
// a push after it left a room and never misses one that raced its
// join.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[session]struct{}
	repo  userPullRequestFinder
}

func NewHub(repo userPullRequestFinder) *Hub {
	return &Hub{
		rooms: make(map[string]map[session]struct{}),
		repo:  repo,
	}
}

// Subscribe registers the hub for every domain event kind.
func (h *Hub) Subscribe(dispatcher *events.Dispatcher) {
	for _, kind := range events.Kinds() {
		dispatcher.On(kind, h.onWebhookEvent)
	}
}

func (h *Hub) join(username string, s session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[username]
	if !ok {
		room = make(map[session]struct{})
		h.rooms[username] = room
	}
	room[s] = struct{}{}
}

func (h *Hub) leave(s session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for username, room := range h.rooms {
		delete(room, s)
		if len(room) == 0 {
			delete(h.rooms, username)
		}
	}
}

// emitToRoom delivers to every session of username. An empty room is
// a silent no-op.
func (h *Hub) emitToRoom(username string, event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.rooms[username] {
		s.send(event, payload)
	}
}

// Introduce joins the session to the room named by username and
// immediately pushes the user's current pull-request snapshot.
func (h *Hub) Introduce(ctx context.Context, username string, s session) {
	logger(ctx).Info("client introduced", slog.String("username", username))
	h.join(username, s)

	h.emitToRoom(username, serverIntroduced, entity.PullRequestEvent{
		SourceEvent:  clientIntroduce,
		PullRequests: h.repo.FindByUser(username),
	})
}

// Remind pushes a reminder carrying the unmodified pull request to
// every reviewer who has not approved it yet, in reviewer list order.
func (h *Hub) Remind(ctx context.Context, pr entity.PullRequest) {
	reviewersToRemind := lo.FilterMap(pr.Reviewers, func(reviewer entity.Reviewer, _ int) (string, bool) {
		return reviewer.User.Username, !reviewer.Approved
	})

	for _, username := range reviewersToRemind {
		logger(ctx).Info("sending reminder", slog.String("username", username))
		h.emitToRoom(username, serverRemind, pr)
	}
}

// onWebhookEvent fans a just-applied change out to its author and
// reviewers, each with a personalized snapshot recomputed after the
// repository mutation.
func (h *Hub) onWebhookEvent(ctx context.Context, kind events.Kind, payload events.PullRequestWithActor) {
	logger(ctx).Info("webhook event received", slog.String("event", string(kind)))

	pr := payload.PullRequest
	actor := payload.Actor

	affected := lo.Uniq(append(
		[]string{pr.Author.Username},
		lo.Map(pr.Reviewers, func(reviewer entity.Reviewer, _ int) string {
			return reviewer.User.Username
		})...,
	))

	for _, username := range affected {
		h.emitToRoom(username, serverPullRequestsUpdated, entity.PullRequestEvent{
			SourceEvent:  string(kind),
			Actor:        &actor,
			Context:      &pr,
			PullRequests: h.repo.FindByUser(username),
		})
	}
}
