package koji

import "fmt"

// Build is a completed (or in-flight) build artifact record.
type Build struct {
	ID     int
	NVR    string
	State  string
	TaskID int

	// WebURL is the web root of the hub this build came from.
	WebURL string
}

// URL returns the build detail page on the hub's web frontend.
func (b *Build) URL() string {
	return fmt.Sprintf("%s/buildinfo?buildID=%d", b.WebURL, b.ID)
}

// Tag is a named grouping a build can be placed into.
type Tag struct {
	ID   int
	Name string
}

// User is a hub account that owns tasks and build actions.
type User struct {
	ID   int
	Name string
}
