package format

import (
	"fmt"
	"time"

	"github.com/theapemachine/koji-go/pkg/koji"
	"github.com/theapemachine/koji-go/pkg/query"
)

// OneTask describes a single matched task. estimate is the predicted
// completion time for an open build task; pass the zero time when no
// estimate is available and the phrasing falls back to elapsed run time.
// A remainder of exactly zero still reads "should be done in 0 secs".
func OneTask(nick string, task *koji.Task, q *query.Query, estimate, now time.Time) string {
	method := task.Method
	if task.Scratch {
		method = "scratch " + method
	}

	var duration string
	if !estimate.IsZero() {
		remaining := estimate.Sub(now)
		if remaining >= 0 {
			duration = fmt.Sprintf("should be done in %s", Duration(remaining))
		} else {
			duration = fmt.Sprintf("exceeds estimate by %s", Duration(remaining))
		}
	} else {
		tmpl := "run time is %s"
		if task.State.Terminal() {
			tmpl = "run time was %s"
		}
		duration = fmt.Sprintf(tmpl, Duration(task.Duration(now)))
	}

	// Not every method carries a package (newRepo, tagBuild).
	subject := method
	if task.Package != "" {
		subject = task.Package + " " + method
	}

	return fmt.Sprintf("%s, %s's %s %s (%s)",
		nick, q.User, subject, duration, task.URL())
}

// MultipleTasks summarizes several matched tasks with a link to the hub's
// filtered tree view.
func MultipleTasks(nick string, tasks []koji.Task, q *query.Query) string {
	url := fmt.Sprintf("%s/tasks?owner=%s&state=%s&view=tree&order=-id",
		tasks[0].WebURL, q.User, q.State)
	return fmt.Sprintf("%s, %s has %d %s tasks %s",
		nick, q.User, len(tasks), q.State, url)
}

// NoTasks is the reply when nothing matched the query.
func NoTasks(nick string, q *query.Query) string {
	return fmt.Sprintf("%s, I could not find %s tasks for %s.", nick, q.State, q.User)
}

// TaskSummary is a compact one-line description of a task, used by the
// CLI output: "[package] [scratch] method [for target] [for arch]".
func TaskSummary(task *koji.Task) string {
	desc := task.Method
	if task.Scratch {
		desc = "scratch " + desc
	}
	if task.Package != "" {
		desc = task.Package + " " + desc
	}
	if task.Target != "" {
		desc += " for " + task.Target
	}
	if task.Arch != "" {
		desc += " for " + task.Arch
	}
	return desc
}
