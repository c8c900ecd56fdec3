package bitbucket

// Wire shapes of the provider's webhook and REST payloads. The same
// pull-request document appears in webhook bodies (possibly partial)
// and in detail-fetch responses (fully populated).

const RoleReviewer = "REVIEWER"

type UserPayload struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type BranchPayload struct {
	Name string `json:"name"`
}

type RepositoryPayload struct {
	FullName string `json:"full_name" validate:"required"`
	Name     string `json:"name"`
}

type DestinationPayload struct {
	Branch     BranchPayload     `json:"branch"`
	Repository RepositoryPayload `json:"repository"`
}

type ParticipantPayload struct {
	Role     string      `json:"role"`
	Approved bool        `json:"approved"`
	User     UserPayload `json:"user"`
}

type LinkPayload struct {
	Href string `json:"href" validate:"required"`
}

type LinksPayload struct {
	Self LinkPayload `json:"self"`
}

type PullRequestPayload struct {
	ID           int                  `json:"id" validate:"required"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	State        string               `json:"state"`
	Author       UserPayload          `json:"author"`
	Destination  DestinationPayload   `json:"destination"`
	Participants []ParticipantPayload `json:"participants"`
	Links        LinksPayload         `json:"links"`
}

// WebhookPayload is the envelope of every pull-request webhook body.
type WebhookPayload struct {
	PullRequest PullRequestPayload `json:"pullrequest"`
	Actor       UserPayload        `json:"actor"`
}
