package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/koji-go/pkg/events"
	"github.com/theapemachine/koji-go/pkg/logging"
	"github.com/theapemachine/koji-go/pkg/product"
	"github.com/theapemachine/koji-go/pkg/service"
)

var (
	notifyCmd = &cobra.Command{
		Use:   "notify",
		Short: "Relay build events from the message bus to Slack",
		Long:  longNotify,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.Init(viper.GetString("log.file"), log.InfoLevel); err != nil {
				return err
			}
			defer logging.Close()

			botToken := os.Getenv("SLACK_BOT_TOKEN")
			if botToken == "" {
				return cmd.Help()
			}

			busURL := viper.GetString("bus.url")
			if busURL == "" {
				return fmt.Errorf("bus.url must be set in the config")
			}
			channel := viper.GetString("slack.channel")
			if channel == "" {
				return fmt.Errorf("slack.channel must be set in the config")
			}

			hub, err := hubFromConfig()
			if err != nil {
				return err
			}

			notifier := events.NewNotifier(
				hub,
				product.NewResolver(hub, nil),
				nil,
				hub.WebURL(),
			)

			registry := events.NewRegistry()
			notifier.RegisterAll(registry, viper.GetString("koji.topic_prefix"))

			sink := service.NewSlackSink(slack.New(botToken), channel)
			srv := service.NewBusService(busURL, registry, sink)
			defer srv.Close()

			return srv.Run(cmd.Context())
		},
	}
)

func init() {
	rootCmd.AddCommand(notifyCmd)
}

var longNotify = `
Subscribe to the message bus and post build state-change and tag/untag
notifications to the configured Slack channel, each tagged with the
product the build belongs to.

This service requires the SLACK_BOT_TOKEN environment variable.

Examples:
  # Relay build events to the slack.channel from the config.
  SLACK_BOT_TOKEN=xoxb-... koji-go notify
`
