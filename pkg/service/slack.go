package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"github.com/theapemachine/koji-go/pkg/events"
	"github.com/theapemachine/koji-go/pkg/query"
	"github.com/theapemachine/koji-go/pkg/tasks"
)

// NewSlackSink returns a Sink that posts build notifications to one
// Slack channel. The product label prefixes the message text so readers
// can filter by product; unclassified notifications go out unprefixed.
// Delivery failures are logged and the notification is dropped.
func NewSlackSink(api *slack.Client, channel string) Sink {
	return func(notification events.Notification) {
		text := notification.Message
		if notification.Product != "" {
			text = "[" + notification.Product + "] " + text
		}
		if _, _, err := api.PostMessage(channel, slack.MsgOptionText(text, false)); err != nil {
			log.Error("failed posting notification to Slack", "channel", channel, "err", err)
		}
	}
}

// SlackService answers task queries in Slack. Every app mention is run
// through the query parser; text that is not a task query is ignored so
// other integrations can pick it up.
type SlackService struct {
	appToken string
	botToken string
	tasks    *tasks.Service
}

func NewSlackService(appToken, botToken string, taskService *tasks.Service) *SlackService {
	return &SlackService{
		appToken: appToken,
		botToken: botToken,
		tasks:    taskService,
	}
}

func (srv *SlackService) Run() error {
	api := slack.New(
		srv.botToken,
		slack.OptionAppLevelToken(srv.appToken),
	)

	client := socketmode.New(api)

	socketmodeHandler := socketmode.NewSocketmodeHandler(client)

	socketmodeHandler.Handle(socketmode.EventTypeConnecting, middlewareConnecting)
	socketmodeHandler.Handle(socketmode.EventTypeConnectionError, middlewareConnectionError)
	socketmodeHandler.Handle(socketmode.EventTypeConnected, middlewareConnected)
	socketmodeHandler.Handle(socketmode.EventTypeHello, middlewareHello)
	socketmodeHandler.HandleEvents(slackevents.AppMention, srv.middlewareAppMentionEvent)

	return socketmodeHandler.RunEventLoop()
}

func middlewareConnecting(evt *socketmode.Event, client *socketmode.Client) {
	log.Info("Connecting to Slack with Socket Mode...")
}

func middlewareConnectionError(evt *socketmode.Event, client *socketmode.Client) {
	log.Error("Connection failed. Retrying later...")
}

func middlewareConnected(evt *socketmode.Event, client *socketmode.Client) {
	log.Info("Connected to Slack with Socket Mode.")
}

func middlewareHello(evt *socketmode.Event, client *socketmode.Client) {
	log.Info("Received a hello message. Howdy to you too.")
}

var mentionPrefix = regexp.MustCompile(`^<@[^>]+>\s*`)

func (srv *SlackService) middlewareAppMentionEvent(evt *socketmode.Event, client *socketmode.Client) {
	eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		log.Error("Ignored unexpected event payload", "data", evt.Data)
		return
	}

	client.Ack(*evt.Request)

	ev, ok := eventsAPIEvent.InnerEvent.Data.(*slackevents.AppMentionEvent)
	if !ok {
		log.Error("Ignored: expected AppMentionEvent", "data", eventsAPIEvent.InnerEvent.Data)
		return
	}

	text := strings.TrimSpace(mentionPrefix.ReplaceAllString(ev.Text, ""))
	q := query.Parse(text)
	if q == nil {
		// Not a task query. Somebody else's problem.
		log.Debug("Mention did not parse as a task query", "text", text)
		return
	}

	nick := "<@" + ev.User + ">"
	log.Info("Resolving task query", "user", q.User, "state", q.State, "nick", nick)

	message := srv.tasks.Resolve(context.Background(), q, nick)

	if _, _, err := client.Client.PostMessage(ev.Channel, slack.MsgOptionText(message, false)); err != nil {
		log.Error("failed posting message to Slack", "err", err)
	}
}
