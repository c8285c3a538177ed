package service

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/koji-go/pkg/bus"
	"github.com/theapemachine/koji-go/pkg/events"
)

// Sink delivers one finished notification to an output medium.
type Sink func(notification events.Notification)

// BusService consumes the message bus and pushes build notifications to
// a sink. Handler failures are logged and the frame is dropped; the
// subscription itself stays up.
type BusService struct {
	client   *bus.Client
	registry *events.Registry
	sink     Sink
}

func NewBusService(busURL string, registry *events.Registry, sink Sink) *BusService {
	return &BusService{
		client:   bus.NewClient(busURL),
		registry: registry,
		sink:     sink,
	}
}

func (srv *BusService) Run(ctx context.Context) error {
	log.Info("Subscribing to message bus", "url", srv.client.URL, "topics", srv.registry.Topics())

	err := srv.client.Subscribe(ctx, "", func(frame *bus.Frame) {
		notification, handled, err := srv.registry.Dispatch(ctx, frame)
		if err != nil {
			log.Error("failed handling bus frame", "topic", frame.Topic, "id", frame.ID, "err", err)
			return
		}
		if !handled {
			log.Debug("No handler for topic", "topic", frame.Topic)
			return
		}
		srv.sink(notification)
	})

	log.Info("Bus subscription ended", "metrics", srv.client.Metrics.Snapshot())
	return err
}

// Close tears down the bus subscription.
func (srv *BusService) Close() error {
	return srv.client.Close()
}
