package entity

// Project is the target repository of a pull request. FullName
// ("team/repo") is the unique key.
type Project struct {
	Name            string `json:"name"`
	FullName        string `json:"fullName"`
	PullRequestsURL string `json:"pullRequestsUrl"`
}
