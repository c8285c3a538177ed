package events

import (
	"context"
	"fmt"

	"github.com/theapemachine/koji-go/pkg/koji"
	"github.com/theapemachine/koji-go/pkg/product"
)

// Notification is one outgoing message plus its product classification.
// An empty Product means the build could not be classified; the message
// still goes out.
type Notification struct {
	Message string
	Product string
}

// Notifier turns decoded build events into notifications.
type Notifier struct {
	users    koji.UserDirectory
	products *product.Resolver
	render   Renderer
	webURL   string
}

// NewNotifier creates a Notifier. A nil renderer means PlainRenderer.
func NewNotifier(users koji.UserDirectory, products *product.Resolver, render Renderer, webURL string) *Notifier {
	if render == nil {
		render = PlainRenderer
	}
	return &Notifier{
		users:    users,
		products: products,
		render:   render,
		webURL:   webURL,
	}
}

// StateChange renders a build state-change event. The product comes from
// the build's target, falling back to its tags.
func (n *Notifier) StateChange(ctx context.Context, event *StateChange) (Notification, error) {
	user, err := event.User(ctx)
	if err != nil {
		return Notification{}, err
	}
	user = ShortenFQDN(user)

	state := n.render(Categorize(event.State), event.State)

	prod, err := n.products.Resolve(ctx, event.Build)
	if err != nil {
		return Notification{}, err
	}

	return Notification{
		Message: fmt.Sprintf("%s's %s %s (%s)", user, event.Build.NVR, state, event.Build.URL()),
		Product: prod,
	}, nil
}

// TagUntag renders a tag or untag event. The tag name itself is the
// classification input, so no fallback chain is needed.
func (n *Notifier) TagUntag(ctx context.Context, event *TagUntag) (Notification, error) {
	user, err := event.User(ctx)
	if err != nil {
		return Notification{}, err
	}
	user = ShortenFQDN(user)

	tmpl := "%s tagged %s into %s"
	if event.Untag {
		tmpl = "%s untagged %s from %s"
	}

	return Notification{
		Message: fmt.Sprintf(tmpl, user, event.Build.NVR, event.Tag),
		Product: product.FromName(event.Tag),
	}, nil
}
