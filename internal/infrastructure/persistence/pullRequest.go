package persistence

import (
	"sync"

	"github.com/samber/lo"

	"pull_request_notifier/internal/domain/entity"
)

// projectList holds the open pull requests of a single project in
// insertion order, behind its own lock so a write on one project
// never blocks a read on another.
type projectList struct {
	mu           sync.RWMutex
	pullRequests []entity.PullRequest
}

// PullRequestRepository is the process-wide in-memory store of open
// pull requests, keyed by the target project's full name. All
// entities handed out are deep copies; callers never observe later
// mutations of stored state.
type PullRequestRepository struct {
	mu       sync.RWMutex
	order    []string
	projects map[string]*projectList
}

func NewPullRequestRepository() *PullRequestRepository {
	return &PullRequestRepository{
		projects: make(map[string]*projectList),
	}
}

func (r *PullRequestRepository) project(fullName string) *projectList {
	r.mu.RLock()
	list, ok := r.projects[fullName]
	r.mu.RUnlock()
	if ok {
		return list
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if list, ok := r.projects[fullName]; ok {
		return list
	}

	list = &projectList{}
	r.projects[fullName] = list
	r.order = append(r.order, fullName)

	return list
}

// Add appends pr to its project's list. A pull request with the same
// id already stored for that project makes Add a no-op, so repeated
// created webhooks stay idempotent.
func (r *PullRequestRepository) Add(pr entity.PullRequest) {
	list := r.project(pr.TargetRepository.FullName)

	list.mu.Lock()
	defer list.mu.Unlock()

	for _, stored := range list.pullRequests {
		if stored.ID == pr.ID {
			return
		}
	}

	list.pullRequests = append(list.pullRequests, pr.Clone())
}

// Update replaces the stored pull request with the same (project, id)
// wholesale. When no such entry exists it behaves as Add: an update
// webhook delivered before its create must still land.
func (r *PullRequestRepository) Update(pr entity.PullRequest) {
	list := r.project(pr.TargetRepository.FullName)

	list.mu.Lock()
	defer list.mu.Unlock()

	for i, stored := range list.pullRequests {
		if stored.ID == pr.ID {
			list.pullRequests[i] = pr.Clone()
			return
		}
	}

	list.pullRequests = append(list.pullRequests, pr.Clone())
}

// Remove deletes the entry with matching (project, id); absent
// entries are a no-op.
func (r *PullRequestRepository) Remove(pr entity.PullRequest) {
	r.mu.RLock()
	list, ok := r.projects[pr.TargetRepository.FullName]
	r.mu.RUnlock()
	if !ok {
		return
	}

	list.mu.Lock()
	defer list.mu.Unlock()

	for i, stored := range list.pullRequests {
		if stored.ID == pr.ID {
			list.pullRequests = append(list.pullRequests[:i], list.pullRequests[i+1:]...)
			return
		}
	}
}

// FindAll returns every stored pull request, projects in insertion
// order and pull requests in insertion order within each project.
func (r *PullRequestRepository) FindAll() []entity.PullRequest {
	r.mu.RLock()
	lists := make([]*projectList, 0, len(r.order))
	for _, fullName := range r.order {
		lists = append(lists, r.projects[fullName])
	}
	r.mu.RUnlock()

	all := make([]entity.PullRequest, 0)
	for _, list := range lists {
		list.mu.RLock()
		for _, pr := range list.pullRequests {
			all = append(all, pr.Clone())
		}
		list.mu.RUnlock()
	}

	return all
}

// FindByUser returns the pull requests the user authored or reviews,
// in FindAll order. A user who is both author and reviewer of the
// same pull request gets it once.
func (r *PullRequestRepository) FindByUser(username string) []entity.PullRequest {
	return lo.Filter(r.FindAll(), func(pr entity.PullRequest, _ int) bool {
		if pr.Author.Username == username {
			return true
		}
		return lo.SomeBy(pr.Reviewers, func(reviewer entity.Reviewer) bool {
			return reviewer.User.Username == username
		})
	})
}

// Reset drops all stored state. Tests only.
func (r *PullRequestRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = nil
	r.projects = make(map[string]*projectList)
}
