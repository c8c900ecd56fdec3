package bitbucket

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"pull_request_notifier/internal/domain"
	"pull_request_notifier/internal/domain/entity"
	"pull_request_notifier/pkg/errcodes"
)

type detailFetcher interface {
	PullRequestDetail(ctx context.Context, selfLink string) (PullRequestPayload, error)
}

// Normalizer reconciles a partial webhook payload into a complete
// domain pull request. The webhook body is authoritative for the id
// and target repository only; everything else is rebuilt from the
// detail fetch, because webhook bodies are not guaranteed complete
// (reviewer approval state in particular).
type Normalizer struct {
	fetcher  detailFetcher
	validate *validator.Validate
	baseURL  string
}

func NewNormalizer(fetcher detailFetcher, baseURL string) *Normalizer {
	return &Normalizer{
		fetcher:  fetcher,
		validate: validator.New(),
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

func (n *Normalizer) Normalize(ctx context.Context, webhook PullRequestPayload) (entity.PullRequest, error) {
	if err := n.validate.Struct(webhook); err != nil {
		return entity.PullRequest{}, domain.WrapError(err, errcodes.InvalidPayload,
			"webhook pull request payload is incomplete")
	}

	detail, err := n.fetcher.PullRequestDetail(ctx, webhook.Links.Self.Href)
	if err != nil {
		return entity.PullRequest{}, fmt.Errorf("fetcher.PullRequestDetail: %w", err)
	}

	state, err := normalizeState(detail.State)
	if err != nil {
		return entity.PullRequest{}, err
	}

	fullName := webhook.Destination.Repository.FullName

	return entity.PullRequest{
		ID:          webhook.ID,
		Title:       detail.Title,
		Description: detail.Description,
		Author:      NormalizeUser(detail.Author),
		TargetRepository: entity.Project{
			Name:            webhook.Destination.Repository.Name,
			FullName:        fullName,
			PullRequestsURL: fmt.Sprintf("%s/repositories/%s/pullrequests", n.baseURL, fullName),
		},
		TargetBranch: detail.Destination.Branch.Name,
		Reviewers:    normalizeReviewers(detail.Participants),
		State:        state,
		SelfLink:     webhook.Links.Self.Href,
	}, nil
}

func NormalizeUser(payload UserPayload) entity.User {
	return entity.User{
		Username:    payload.Username,
		DisplayName: payload.DisplayName,
	}
}

// normalizeReviewers keeps the provider's participant order.
func normalizeReviewers(participants []ParticipantPayload) []entity.Reviewer {
	return lo.FilterMap(participants, func(p ParticipantPayload, _ int) (entity.Reviewer, bool) {
		if p.Role != RoleReviewer {
			return entity.Reviewer{}, false
		}
		return entity.Reviewer{
			User:     NormalizeUser(p.User),
			Approved: p.Approved,
		}, true
	})
}

func normalizeState(state string) (entity.State, error) {
	switch state {
	case string(entity.StateOpen):
		return entity.StateOpen, nil
	case string(entity.StateMerged):
		return entity.StateMerged, nil
	case string(entity.StateDeclined):
		return entity.StateDeclined, nil
	default:
		return "", domain.NewError(errcodes.UnknownState,
			fmt.Sprintf("unrecognized pull request state %q", state))
	}
}
