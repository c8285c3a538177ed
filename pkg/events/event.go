// Package events decodes build-system bus frames into typed events and
// renders them as short notifications tagged with a product label.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/theapemachine/koji-go/pkg/bus"
	"github.com/theapemachine/koji-go/pkg/koji"
)

// frameBody is the JSON payload shared by build state-change and
// tag/untag frames.
type frameBody struct {
	Build struct {
		ID     int    `json:"id"`
		NVR    string `json:"nvr"`
		State  string `json:"state"`
		TaskID int    `json:"task_id"`
	} `json:"build"`
	New  string `json:"new"`
	User string `json:"user"`
	Tag  struct {
		Name string `json:"name"`
	} `json:"tag"`
}

// StateChange is a build entering a new state.
type StateChange struct {
	Build *koji.Build
	State string

	rawUser string
	users   koji.UserDirectory
}

// TagUntag is a build moving into or out of a tag.
type TagUntag struct {
	Build *koji.Build
	Tag   string
	Untag bool

	rawUser string
	users   koji.UserDirectory
}

// DecodeStateChange decodes a state-change frame. The state word falls
// back to the topic's last segment when the body omits it.
func DecodeStateChange(frame *bus.Frame, users koji.UserDirectory, webURL string) (*StateChange, error) {
	body, build, err := decodeBody(frame, webURL)
	if err != nil {
		return nil, err
	}

	state := body.New
	if state == "" {
		state = topicTail(frame.Topic)
	}

	return &StateChange{
		Build:   build,
		State:   strings.ToLower(state),
		rawUser: body.User,
		users:   users,
	}, nil
}

// DecodeTagUntag decodes a tag or untag frame; the topic's last segment
// carries the direction.
func DecodeTagUntag(frame *bus.Frame, users koji.UserDirectory, webURL string) (*TagUntag, error) {
	body, build, err := decodeBody(frame, webURL)
	if err != nil {
		return nil, err
	}
	if body.Tag.Name == "" {
		return nil, fmt.Errorf("tag frame %s has no tag name", frame.ID)
	}

	return &TagUntag{
		Build:   build,
		Tag:     body.Tag.Name,
		Untag:   topicTail(frame.Topic) == "untag",
		rawUser: body.User,
		users:   users,
	}, nil
}

func decodeBody(frame *bus.Frame, webURL string) (*frameBody, *koji.Build, error) {
	var body frameBody
	if err := json.Unmarshal(frame.Body, &body); err != nil {
		return nil, nil, fmt.Errorf("failed to decode frame %s: %w", frame.ID, err)
	}
	if body.Build.NVR == "" {
		return nil, nil, fmt.Errorf("frame %s has no build", frame.ID)
	}

	return &body, &koji.Build{
		ID:     body.Build.ID,
		NVR:    body.Build.NVR,
		State:  body.Build.State,
		TaskID: body.Build.TaskID,
		WebURL: webURL,
	}, nil
}

// User resolves the acting user to a display name. The frame's principal
// is canonicalized through the user directory when possible; accounts
// the hub does not know keep their raw name.
func (e *StateChange) User(ctx context.Context) (string, error) {
	return resolveUser(ctx, e.users, e.rawUser)
}

// User resolves the acting user, as on StateChange.
func (e *TagUntag) User(ctx context.Context) (string, error) {
	return resolveUser(ctx, e.users, e.rawUser)
}

func resolveUser(ctx context.Context, users koji.UserDirectory, raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	account, err := users.GetUser(ctx, raw)
	if err != nil {
		return "", err
	}
	if account != nil {
		return account.Name, nil
	}
	return raw, nil
}

// ShortenFQDN shortens a fully-qualified principal to its leading label:
// "builder.example.com" and "builder@EXAMPLE.COM" both become "builder".
func ShortenFQDN(name string) string {
	name, _, _ = strings.Cut(name, "@")
	name, _, _ = strings.Cut(name, ".")
	return name
}

func topicTail(topic string) string {
	if i := strings.LastIndex(topic, "."); i >= 0 {
		return topic[i+1:]
	}
	return topic
}
