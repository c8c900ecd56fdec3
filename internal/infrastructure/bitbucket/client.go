package bitbucket

import (
	"context"
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"pull_request_notifier/internal/config"
	"pull_request_notifier/internal/domain"
	"pull_request_notifier/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// Client fetches full pull-request detail from the provider's REST
// API. The fetch timeout bounds every call so a slow provider never
// leaves a webhook event pending indefinitely.
type Client struct {
	httpClient *http.Client
	username   string
	password   string
}

func NewClient(cfg config.Bitbucket) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
		username:   cfg.Username,
		password:   cfg.Password,
	}
}

// PullRequestDetail GETs selfLink with basic auth and decodes the
// fully-populated pull-request document.
func (c *Client) PullRequestDetail(ctx context.Context, selfLink string) (PullRequestPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, selfLink, nil)
	if err != nil {
		return PullRequestPayload{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PullRequestPayload{}, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return PullRequestPayload{}, domain.NewError(errcodes.NormalizationFailed,
			fmt.Sprintf("detail fetch of %s returned status %d", selfLink, resp.StatusCode))
	}

	var payload PullRequestPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return PullRequestPayload{}, domain.WrapError(err, errcodes.NormalizationFailed,
			"failed to decode pull request detail")
	}

	return payload, nil
}
