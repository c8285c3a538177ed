// Package tasks resolves parsed task queries against the hub and renders
// the answer as a single chat message.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/koji-go/pkg/format"
	"github.com/theapemachine/koji-go/pkg/koji"
	"github.com/theapemachine/koji-go/pkg/query"
)

// childMethods are sub-units of a parent task and never reported
// standalone.
var childMethods = map[string]bool{
	"buildArch":        true,
	"buildSRPMFromSCM": true,
	"createrepo":       true,
}

// API is the hub capability surface the query service consumes.
type API interface {
	koji.UserDirectory
	koji.TaskLister
	koji.CompletionEstimator
}

// Service answers task queries. Every outcome, including lookup
// failures, is a user-facing message string; Resolve never errors.
type Service struct {
	hub API
	now func() time.Time
}

// NewService creates a query service on top of the given hub.
func NewService(hub API) *Service {
	return &Service{hub: hub, now: time.Now}
}

// Resolve answers q for the requesting nick.
func (s *Service) Resolve(ctx context.Context, q *query.Query, nick string) string {
	stateName := strings.ToUpper(q.State)
	state, ok := koji.StateFromName(stateName)
	if !ok {
		return fmt.Sprintf("%s, I do not know about %s tasks.", nick, stateName)
	}

	owner, err := s.hub.GetUser(ctx, q.User)
	if err != nil {
		log.Error("user lookup failed", "user", q.User, "err", err)
		return fmt.Sprintf("%s, I could not reach koji right now.", nick)
	}
	if owner == nil {
		return fmt.Sprintf("%s, I could not find a koji user account for %s", nick, q.User)
	}

	all, err := s.hub.ListTasks(ctx, koji.TaskFilter{State: state, Owner: owner.ID})
	if err != nil {
		log.Error("task listing failed", "owner", owner.Name, "err", err)
		return fmt.Sprintf("%s, I could not reach koji right now.", nick)
	}

	// Filter out the child tasks. We don't need to be that literal here.
	matched := all[:0]
	for _, task := range all {
		if !childMethods[task.Method] {
			matched = append(matched, task)
		}
	}

	switch len(matched) {
	case 0:
		return format.NoTasks(nick, q)
	case 1:
		task := matched[0]
		return format.OneTask(nick, &task, q, s.estimate(ctx, &task), s.now())
	default:
		return format.MultipleTasks(nick, matched, q)
	}
}

// List returns the non-child tasks matching q, for callers that want the
// raw tasks instead of a chat message (the CLI's long listing).
func (s *Service) List(ctx context.Context, q *query.Query) ([]koji.Task, error) {
	state, ok := koji.StateFromName(q.State)
	if !ok {
		return nil, fmt.Errorf("unknown task state %q", q.State)
	}

	owner, err := s.hub.GetUser(ctx, q.User)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("no koji user account for %q", q.User)
	}

	all, err := s.hub.ListTasks(ctx, koji.TaskFilter{State: state, Owner: owner.ID})
	if err != nil {
		return nil, err
	}

	matched := all[:0]
	for _, task := range all {
		if !childMethods[task.Method] {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

// estimate fetches a completion estimate for an open build task. The
// zero time means no estimate; the describer falls back to elapsed run
// time, and a hub that cannot estimate yet is not an error.
func (s *Service) estimate(ctx context.Context, task *koji.Task) time.Time {
	if task.Method != "build" || task.State != koji.StateOpen {
		return time.Time{}
	}

	estimate, err := s.hub.EstimateCompletion(ctx, task)
	if err != nil {
		if !errors.Is(err, koji.ErrNoDescendants) {
			log.Warn("completion estimate failed", "task", task.ID, "err", err)
		}
		return time.Time{}
	}
	return estimate
}
