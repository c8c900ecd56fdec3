package entity

// PullRequestEvent is the outbound notification payload, built fresh
// for every recipient and never stored. Actor and Context are nil for
// connection-triggered snapshots.
type PullRequestEvent struct {
	SourceEvent  string        `json:"sourceEvent"`
	Actor        *User         `json:"actor,omitempty"`
	Context      *PullRequest  `json:"context,omitempty"`
	PullRequests []PullRequest `json:"pullRequests"`
}
