package entity

type State string

const (
	StateOpen     State = "OPEN"
	StateMerged   State = "MERGED"
	StateDeclined State = "DECLINED"
)

// Reviewer is always embedded in a pull request's reviewer list,
// never stored on its own.
type Reviewer struct {
	User     User `json:"user"`
	Approved bool `json:"approved"`
}

type PullRequest struct {
	ID               int        `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Author           User       `json:"author"`
	TargetRepository Project    `json:"targetRepository"`
	TargetBranch     string     `json:"targetBranch"`
	Reviewers        []Reviewer `json:"reviewers"`
	State            State      `json:"state"`
	SelfLink         string     `json:"selfLink"`
}

// Clone returns a deep copy. The repository hands out clones so a
// caller mutating a pushed snapshot never touches stored state.
func (pr PullRequest) Clone() PullRequest {
	clone := pr
	clone.Reviewers = make([]Reviewer, len(pr.Reviewers))
	copy(clone.Reviewers, pr.Reviewers)

	return clone
}
