package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slack-go/slack"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/koji-go/pkg/events"
)

type postedMessage struct {
	channel string
	text    string
}

// slackStub answers chat.postMessage and records what was posted.
func slackStub(posted *[]postedMessage) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		*posted = append(*posted, postedMessage{
			channel: r.FormValue("channel"),
			text:    r.FormValue("text"),
		})
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "channel": "C123", "ts": "1"})
	}))
}

func TestNewSlackSink(t *testing.T) {
	Convey("Given a Slack API and a channel", t, func() {
		var posted []postedMessage
		server := slackStub(&posted)
		defer server.Close()

		api := slack.New("xoxb-test", slack.OptionAPIURL(server.URL+"/"))
		sink := NewSlackSink(api, "#builds")

		Convey("A classified notification posts with the product prefix", func() {
			sink(events.Notification{
				Message: "kdreyer's ceph-12.2.8-1.el7 complete (https://koji.example.com/koji/buildinfo?buildID=42)",
				Product: "ceph-3.2",
			})

			So(len(posted), ShouldEqual, 1)
			So(posted[0].channel, ShouldEqual, "#builds")
			So(posted[0].text, ShouldEqual,
				"[ceph-3.2] kdreyer's ceph-12.2.8-1.el7 complete (https://koji.example.com/koji/buildinfo?buildID=42)")
		})

		Convey("An unclassified notification posts without a prefix", func() {
			sink(events.Notification{Message: "builder tagged ceph-12.2.8-1.el7 into ceph-3.2-rhel-7"})

			So(len(posted), ShouldEqual, 1)
			So(posted[0].text, ShouldEqual, "builder tagged ceph-12.2.8-1.el7 into ceph-3.2-rhel-7")
		})
	})
}
