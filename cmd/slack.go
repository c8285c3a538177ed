package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/koji-go/pkg/koji"
	"github.com/theapemachine/koji-go/pkg/logging"
	"github.com/theapemachine/koji-go/pkg/service"
	"github.com/theapemachine/koji-go/pkg/tasks"
)

var (
	slackCmd = &cobra.Command{
		Use:   "slack",
		Short: "Run the Slack query service",
		Long:  longSlack,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.Init(viper.GetString("log.file"), log.InfoLevel); err != nil {
				return err
			}
			defer logging.Close()

			appToken := os.Getenv("SLACK_APP_TOKEN")
			botToken := os.Getenv("SLACK_BOT_TOKEN")

			if appToken == "" || botToken == "" {
				return cmd.Help()
			}

			hub, err := hubFromConfig()
			if err != nil {
				return err
			}

			return service.NewSlackService(appToken, botToken, tasks.NewService(hub)).Run()
		},
	}
)

func init() {
	rootCmd.AddCommand(slackCmd)
}

// hubFromConfig builds the hub client from the viper config.
func hubFromConfig() (*koji.Client, error) {
	v := viper.GetViper()

	hubURL := v.GetString("koji.hub")
	webURL := v.GetString("koji.weburl")
	if hubURL == "" || webURL == "" {
		return nil, fmt.Errorf("koji.hub and koji.weburl must be set in the config")
	}

	return koji.NewClient(hubURL, webURL)
}

var longSlack = `
Serve the Slack task query integration.

The service answers app mentions of the form "<user>'s tasks" or
"<user> <state> tasks" with a status summary from the hub.

This service requires SLACK_APP_TOKEN and SLACK_BOT_TOKEN environment variables.

Examples:
  # Serve the Slack service.
  SLACK_APP_TOKEN=xapp-... SLACK_BOT_TOKEN=xoxb-... koji-go slack
`
