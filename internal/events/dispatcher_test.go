package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pull_request_notifier/internal/domain/entity"
)

func TestEmitInvokesHandlersInRegistrationOrder(t *testing.T) {
	dispatcher := NewDispatcher()

	var calls []string
	dispatcher.On(PullRequestCreated, func(context.Context, Kind, PullRequestWithActor) {
		calls = append(calls, "first")
	})
	dispatcher.On(PullRequestCreated, func(context.Context, Kind, PullRequestWithActor) {
		calls = append(calls, "second")
	})

	dispatcher.Emit(context.Background(), PullRequestCreated, PullRequestWithActor{})

	require.Equal(t, []string{"first", "second"}, calls)
}

func TestEmitPassesPayloadUnchanged(t *testing.T) {
	dispatcher := NewDispatcher()

	var got PullRequestWithActor
	dispatcher.On(PullRequestApproved, func(_ context.Context, _ Kind, payload PullRequestWithActor) {
		got = payload
	})

	sent := PullRequestWithActor{
		PullRequest: entity.PullRequest{ID: 1, Title: "Title of pull request"},
		Actor:       entity.User{Username: "john.smith"},
	}
	dispatcher.Emit(context.Background(), PullRequestApproved, sent)

	require.Equal(t, sent, got)
}

func TestEmitOnlyReachesHandlersOfThatKind(t *testing.T) {
	dispatcher := NewDispatcher()

	created, rejected := 0, 0
	dispatcher.On(PullRequestCreated, func(context.Context, Kind, PullRequestWithActor) { created++ })
	dispatcher.On(PullRequestRejected, func(context.Context, Kind, PullRequestWithActor) { rejected++ })

	dispatcher.Emit(context.Background(), PullRequestCreated, PullRequestWithActor{})

	require.Equal(t, 1, created)
	require.Equal(t, 0, rejected)
}

func TestRemoveAllListenersClearsEveryRegistration(t *testing.T) {
	dispatcher := NewDispatcher()

	calls := 0
	dispatcher.On(PullRequestUpdated, func(context.Context, Kind, PullRequestWithActor) { calls++ })

	dispatcher.RemoveAllListeners()
	dispatcher.Emit(context.Background(), PullRequestUpdated, PullRequestWithActor{})

	require.Equal(t, 0, calls)
}

func TestForWebhookMapsEveryHandledEventType(t *testing.T) {
	cases := map[string]Kind{
		"pullrequest:created":    PullRequestCreated,
		"pullrequest:updated":    PullRequestUpdated,
		"pullrequest:approved":   PullRequestApproved,
		"pullrequest:unapproved": PullRequestUnapproved,
		"pullrequest:fulfilled":  PullRequestFulfilled,
		"pullrequest:rejected":   PullRequestRejected,
	}

	for eventType, want := range cases {
		kind, ok := ForWebhook(eventType)
		require.True(t, ok, eventType)
		require.Equal(t, want, kind)
	}

	_, ok := ForWebhook("repo:push")
	require.False(t, ok)
}
