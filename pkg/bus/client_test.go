package bus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewClient(t *testing.T) {
	Convey("Given a relay URL", t, func() {
		url := "http://example.com/events"

		Convey("When creating a new client", func() {
			client := NewClient(url)

			Convey("It should initialize correctly", func() {
				So(client.URL, ShouldEqual, url)
				So(client.Headers, ShouldNotBeNil)
				So(client.Metrics, ShouldNotBeNil)
				So(client.reconnectChan, ShouldNotBeNil)
				So(client.stopChan, ShouldNotBeNil)
			})
		})
	})
}

func TestSubscribe(t *testing.T) {
	Convey("Given a relay serving one build frame", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("id: 99\n"))
			w.Write([]byte("event: koji.build.complete\n"))
			w.Write([]byte("data: {\"build\": {\"nvr\": \"ceph-12.2.8-1.el7\"}}\n\n"))
			w.(http.Flusher).Flush()
		}))
		defer server.Close()

		client := NewClient(server.URL)

		Convey("When subscribing", func() {
			frameCh := make(chan *Frame, 1)
			errCh := make(chan error, 1)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			go func() {
				errCh <- client.Subscribe(ctx, "", func(frame *Frame) {
					select {
					case frameCh <- frame:
					case <-ctx.Done():
					}
				})
			}()

			var frame *Frame
			select {
			case frame = <-frameCh:
				cancel()
			case <-errCh:
			case <-ctx.Done():
			}

			Convey("The frame carries the topic and body", func() {
				So(frame, ShouldNotBeNil)
				So(frame.ID, ShouldEqual, "99")
				So(frame.Topic, ShouldEqual, "koji.build.complete")
				So(string(frame.Body), ShouldContainSubstring, "ceph-12.2.8-1.el7")
				So(client.Metrics.TotalFrames, ShouldBeGreaterThanOrEqualTo, 1)
			})
		})
	})

	Convey("Given a relay that only returns errors", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL)

		Convey("Subscribing gives up after the retry budget", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			err := client.Subscribe(ctx, "", func(*Frame) {})

			So(err, ShouldNotBeNil)
			So(client.Metrics.FailedConnections, ShouldBeGreaterThanOrEqualTo, 1)
		})
	})
}

func TestFrameWithoutTopicIsDropped(t *testing.T) {
	Convey("Given a relay emitting an unnamed event", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("data: {}\n\n"))
			w.Write([]byte("id: 1\nevent: koji.build.tag\ndata: {}\n\n"))
			w.(http.Flusher).Flush()
		}))
		defer server.Close()

		client := NewClient(server.URL)

		Convey("Only the routable frame reaches the handler", func() {
			frameCh := make(chan *Frame, 2)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			go client.Subscribe(ctx, "", func(frame *Frame) {
				frameCh <- frame
			})

			select {
			case frame := <-frameCh:
				So(frame.Topic, ShouldEqual, "koji.build.tag")
				cancel()
			case <-ctx.Done():
				t.Fatal("no frame received")
			}

			So(client.Metrics.DroppedFrames, ShouldBeGreaterThanOrEqualTo, 1)
		})
	})
}
