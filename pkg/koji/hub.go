package koji

import (
	"context"
	"errors"
	"time"
)

// ErrNoDescendants signals that a completion estimate is structurally
// impossible because the task's buildArch children have not started yet.
// Callers distinguish it with errors.Is; it is not a transport failure.
var ErrNoDescendants = errors.New("koji: task has no started descendants")

// TaskFilter selects tasks by state and owner. Results are always ordered
// by priority then creation time, ascending; that ordering is part of the
// TaskLister contract, callers never re-sort.
type TaskFilter struct {
	State TaskState
	Owner int
}

// UserDirectory looks accounts up by name. A nil user with a nil error
// means the account does not exist.
type UserDirectory interface {
	GetUser(ctx context.Context, name string) (*User, error)
}

// TaskLister lists tasks matching a filter.
type TaskLister interface {
	ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error)
}

// CompletionEstimator predicts when an in-progress build task will finish.
// Returns ErrNoDescendants when the estimate cannot be computed yet.
type CompletionEstimator interface {
	EstimateCompletion(ctx context.Context, task *Task) (time.Time, error)
}

// BuildAccessor resolves a build's target name and tag list. An empty
// target with a nil error means the build has no target.
type BuildAccessor interface {
	Target(ctx context.Context, build *Build) (string, error)
	Tags(ctx context.Context, build *Build) ([]Tag, error)
}

// Hub is the full capability surface the notifier consumes.
type Hub interface {
	UserDirectory
	TaskLister
	CompletionEstimator
	BuildAccessor
}
