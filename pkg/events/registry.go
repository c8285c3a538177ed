package events

import (
	"context"

	"github.com/theapemachine/koji-go/pkg/bus"
)

// Handler turns one bus frame into a notification.
type Handler func(ctx context.Context, frame *bus.Frame) (Notification, error)

// Registry is an explicit topic-to-handler dispatch table, filled at
// process start. There is no implicit global registration.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty dispatch table.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to an exact topic string.
func (r *Registry) Register(topic string, handler Handler) {
	r.handlers[topic] = handler
}

// Topics returns the registered topic strings.
func (r *Registry) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

// Dispatch routes a frame to its topic's handler. The boolean is false
// for topics nobody registered; that is not an error.
func (r *Registry) Dispatch(ctx context.Context, frame *bus.Frame) (Notification, bool, error) {
	handler, ok := r.handlers[frame.Topic]
	if !ok {
		return Notification{}, false, nil
	}
	notification, err := handler(ctx, frame)
	return notification, true, err
}

// stateChangeTopics are the topic suffixes that carry build state
// transitions.
var stateChangeTopics = []string{"building", "canceled", "complete", "deleted", "failed"}

// RegisterAll binds the notifier's handlers under the configured topic
// prefix, e.g. "koji.build" -> "koji.build.complete", "koji.build.tag".
func (n *Notifier) RegisterAll(registry *Registry, prefix string) {
	for _, suffix := range stateChangeTopics {
		registry.Register(prefix+"."+suffix, func(ctx context.Context, frame *bus.Frame) (Notification, error) {
			event, err := DecodeStateChange(frame, n.users, n.webURL)
			if err != nil {
				return Notification{}, err
			}
			return n.StateChange(ctx, event)
		})
	}

	tagHandler := func(ctx context.Context, frame *bus.Frame) (Notification, error) {
		event, err := DecodeTagUntag(frame, n.users, n.webURL)
		if err != nil {
			return Notification{}, err
		}
		return n.TagUntag(ctx, event)
	}
	registry.Register(prefix+".tag", tagHandler)
	registry.Register(prefix+".untag", tagHandler)
}
