// Package product classifies build notifications by product, derived
// from a target or tag name.
package product

import (
	"context"
	"regexp"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/koji-go/pkg/koji"
)

// Logger is the slice of logging the resolver needs. Tests substitute a
// recording implementation to assert on warning and error entries.
type Logger interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type charmLogger struct{}

func (charmLogger) Warnf(format string, args ...any)  { log.Warnf(format, args...) }
func (charmLogger) Errorf(format string, args ...any) { log.Errorf(format, args...) }

// DefaultLogger logs through charmbracelet/log.
var DefaultLogger Logger = charmLogger{}

// namePattern recognizes the "<product>-<version>" prefix convention in
// tag and target names, e.g. "ceph-3.2-rhel-7-candidate" -> "ceph-3.2".
var namePattern = regexp.MustCompile(`^([a-z][\w.]*?-\d[\d.]*)`)

// FromName derives a product label from a tag or target name. Names that
// do not follow a known convention pass through as their own label.
func FromName(name string) string {
	if m := namePattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}

// Resolver classifies builds, trying the build's target name first and
// falling back to its tag list.
type Resolver struct {
	builds koji.BuildAccessor
	logger Logger
}

// NewResolver creates a Resolver. A nil logger means DefaultLogger.
func NewResolver(builds koji.BuildAccessor, logger Logger) *Resolver {
	if logger == nil {
		logger = DefaultLogger
	}
	return &Resolver{builds: builds, logger: logger}
}

// Resolve returns the product label for a build. An empty string with a
// nil error means the build could not be classified; the notification
// still goes out, untagged. Only transport failures return an error.
func (r *Resolver) Resolve(ctx context.Context, build *koji.Build) (string, error) {
	target, err := r.builds.Target(ctx, build)
	if err != nil {
		return "", err
	}
	if target != "" {
		return FromName(target), nil
	}

	tags, err := r.builds.Tags(ctx, build)
	if err != nil {
		return "", err
	}
	if len(tags) > 0 {
		if len(tags) > 1 {
			// Are the other ones relevant?
			r.logger.Warnf("%s has multiple tags: %v", build.URL(), tagNames(tags))
		}
		return FromName(tags[0].Name), nil
	}

	r.logger.Errorf("found no tag nor target name for %s %s", build.State, build.URL())
	return "", nil
}

func tagNames(tags []koji.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}
