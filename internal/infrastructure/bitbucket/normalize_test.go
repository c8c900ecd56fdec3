package bitbucket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"pull_request_notifier/internal/config"
	"pull_request_notifier/internal/domain/entity"
)

const detailBody = `{
	"id": 1,
	"title": "Title of pull request",
	"description": "Description of pull request",
	"state": "OPEN",
	"author": {"username": "emmap1", "display_name": "Emma"},
	"destination": {
		"branch": {"name": "master"},
		"repository": {"full_name": "team_name/repo_name", "name": "repo_name"}
	},
	"participants": [
		{"role": "REVIEWER", "approved": true, "user": {"username": "john.smith", "display_name": "John Smith"}},
		{"role": "PARTICIPANT", "approved": false, "user": {"username": "watcher", "display_name": "Watcher"}},
		{"role": "REVIEWER", "approved": false, "user": {"username": "anna.kowalsky", "display_name": "Anna Kowalsky"}}
	],
	"links": {"self": {"href": "ignored"}}
}`

func newTestClient(serverURL string) *Client {
	return NewClient(config.Bitbucket{
		BaseURL:      serverURL,
		Username:     "my.user",
		Password:     "topsecret",
		FetchTimeout: 0,
	})
}

// webhookPayload is a deliberately partial webhook body: authoritative
// id and destination, a self link, nothing trustworthy beyond that.
func webhookPayload(selfLink string) PullRequestPayload {
	return PullRequestPayload{
		ID:    1,
		Title: "Stale webhook title",
		Destination: DestinationPayload{
			Branch:     BranchPayload{Name: "master"},
			Repository: RepositoryPayload{FullName: "team_name/repo_name", Name: "repo_name"},
		},
		Links: LinksPayload{Self: LinkPayload{Href: selfLink}},
	}
}

func TestNormalizeBuildsPullRequestFromFetchedDetail(t *testing.T) {
	var sawBasicAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		sawBasicAuth = ok && user == "my.user" && pass == "topsecret"
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(detailBody))
	}))
	defer srv.Close()

	normalizer := NewNormalizer(newTestClient(srv.URL), "http://example.com/")

	pr, err := normalizer.Normalize(context.Background(), webhookPayload(srv.URL+"/pullrequests/1"))
	require.NoError(t, err)
	require.True(t, sawBasicAuth)

	require.Equal(t, 1, pr.ID)
	require.Equal(t, "Title of pull request", pr.Title)
	require.Equal(t, "Description of pull request", pr.Description)
	require.Equal(t, entity.StateOpen, pr.State)
	require.Equal(t, "master", pr.TargetBranch)
	require.Equal(t, entity.User{Username: "emmap1", DisplayName: "Emma"}, pr.Author)
	require.Equal(t, "team_name/repo_name", pr.TargetRepository.FullName)
	require.Equal(t, "http://example.com/repositories/team_name/repo_name/pullrequests",
		pr.TargetRepository.PullRequestsURL)
	require.Equal(t, srv.URL+"/pullrequests/1", pr.SelfLink)
}

func TestNormalizeKeepsOnlyReviewersInParticipantOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(detailBody))
	}))
	defer srv.Close()

	normalizer := NewNormalizer(newTestClient(srv.URL), srv.URL)

	pr, err := normalizer.Normalize(context.Background(), webhookPayload(srv.URL))
	require.NoError(t, err)

	require.Equal(t, []entity.Reviewer{
		{User: entity.User{Username: "john.smith", DisplayName: "John Smith"}, Approved: true},
		{User: entity.User{Username: "anna.kowalsky", DisplayName: "Anna Kowalsky"}, Approved: false},
	}, pr.Reviewers)
}

func TestNormalizeFailsOnNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	normalizer := NewNormalizer(newTestClient(srv.URL), srv.URL)

	_, err := normalizer.Normalize(context.Background(), webhookPayload(srv.URL))
	require.Error(t, err)
}

func TestNormalizeFailsOnUnrecognizedState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": 1, "state": "SUPERSEDED"}`))
	}))
	defer srv.Close()

	normalizer := NewNormalizer(newTestClient(srv.URL), srv.URL)

	_, err := normalizer.Normalize(context.Background(), webhookPayload(srv.URL))
	require.Error(t, err)
}

func TestNormalizeFailsOnMalformedDetailBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	normalizer := NewNormalizer(newTestClient(srv.URL), srv.URL)

	_, err := normalizer.Normalize(context.Background(), webhookPayload(srv.URL))
	require.Error(t, err)
}

func TestNormalizeRejectsWebhookWithoutSelfLink(t *testing.T) {
	normalizer := NewNormalizer(newTestClient("http://example.com"), "http://example.com")

	payload := webhookPayload("")

	_, err := normalizer.Normalize(context.Background(), payload)
	require.Error(t, err)
}
