package product

import (
	"context"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/koji-go/pkg/koji"
)

type recordingLogger struct {
	warnings []string
	errors   []string
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(format string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

type fakeBuilds struct {
	target string
	tags   []koji.Tag
	err    error
}

func (f *fakeBuilds) Target(ctx context.Context, build *koji.Build) (string, error) {
	return f.target, f.err
}

func (f *fakeBuilds) Tags(ctx context.Context, build *koji.Build) ([]koji.Tag, error) {
	return f.tags, f.err
}

func TestFromName(t *testing.T) {
	Convey("Given names following the product-version convention", t, func() {
		So(FromName("ceph-3.2-rhel-7-candidate"), ShouldEqual, "ceph-3.2")
		So(FromName("rhel-7.6-candidate"), ShouldEqual, "rhel-7.6")
		So(FromName("ceph-5"), ShouldEqual, "ceph-5")
	})

	Convey("Given names outside the convention", t, func() {
		Convey("They pass through as their own label", func() {
			So(FromName("trashcan"), ShouldEqual, "trashcan")
			So(FromName("f34-candidate"), ShouldEqual, "f34-candidate")
		})
	})
}

func TestResolve(t *testing.T) {
	build := &koji.Build{ID: 42, NVR: "ceph-12.2.8-1.el7", WebURL: "https://koji.example.com/koji"}

	Convey("Given a build with a target", t, func() {
		logger := &recordingLogger{}
		resolver := NewResolver(&fakeBuilds{target: "ceph-3.2-rhel-7-candidate"}, logger)

		prod, err := resolver.Resolve(context.Background(), build)

		Convey("The product comes from the target, quietly", func() {
			So(err, ShouldBeNil)
			So(prod, ShouldEqual, "ceph-3.2")
			So(logger.warnings, ShouldBeEmpty)
			So(logger.errors, ShouldBeEmpty)
		})
	})

	Convey("Given a build with no target and one tag", t, func() {
		logger := &recordingLogger{}
		resolver := NewResolver(&fakeBuilds{tags: []koji.Tag{{Name: "ceph-3.2-rhel-7"}}}, logger)

		prod, err := resolver.Resolve(context.Background(), build)

		Convey("The tag classifies the build without noise", func() {
			So(err, ShouldBeNil)
			So(prod, ShouldEqual, "ceph-3.2")
			So(logger.warnings, ShouldBeEmpty)
		})
	})

	Convey("Given a build with no target and several tags", t, func() {
		logger := &recordingLogger{}
		resolver := NewResolver(&fakeBuilds{
			tags: []koji.Tag{{Name: "tag-a"}, {Name: "tag-b"}},
		}, logger)

		prod, err := resolver.Resolve(context.Background(), build)

		Convey("The first tag wins and exactly one warning is logged", func() {
			So(err, ShouldBeNil)
			So(prod, ShouldEqual, "tag-a")
			So(len(logger.warnings), ShouldEqual, 1)
			So(logger.errors, ShouldBeEmpty)
		})
	})

	Convey("Given a build with neither target nor tags", t, func() {
		logger := &recordingLogger{}
		resolver := NewResolver(&fakeBuilds{}, logger)

		prod, err := resolver.Resolve(context.Background(), build)

		Convey("The product is empty and exactly one error is logged", func() {
			So(err, ShouldBeNil)
			So(prod, ShouldEqual, "")
			So(len(logger.errors), ShouldEqual, 1)
			So(logger.warnings, ShouldBeEmpty)
		})
	})
}
