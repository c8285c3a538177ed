package koji

import (
	"fmt"
	"time"
)

// Task is one unit of work tracked by the hub. The fields mirror what
// listTasks returns, plus the owning hub's web root so the task can render
// its own URL.
type Task struct {
	ID        int
	Method    string
	State     TaskState
	Package   string
	Target    string
	Arch      string
	Scratch   bool
	Priority  int
	Created   time.Time
	Started   time.Time
	Completed time.Time

	// WebURL is the web root of the hub this task came from.
	WebURL string
}

// URL returns the task detail page on the hub's web frontend.
func (t *Task) URL() string {
	return fmt.Sprintf("%s/taskinfo?taskID=%d", t.WebURL, t.ID)
}

// Duration returns how long the task has been running, or ran for.
// Running tasks measure against now, finished tasks against their
// completion time.
func (t *Task) Duration(now time.Time) time.Duration {
	if t.Started.IsZero() {
		return 0
	}
	if t.Completed.IsZero() {
		return now.Sub(t.Started)
	}
	return t.Completed.Sub(t.Started)
}
