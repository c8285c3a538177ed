package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/koji-go/pkg/events"
	"github.com/theapemachine/koji-go/pkg/logging"
	"github.com/theapemachine/koji-go/pkg/product"
	"github.com/theapemachine/koji-go/pkg/service"
	"github.com/theapemachine/koji-go/pkg/ui"
)

var (
	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Follow build events from the message bus in the terminal",
		Long:  longWatch,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.Init(viper.GetString("log.file"), log.InfoLevel); err != nil {
				return err
			}
			defer logging.Close()

			busURL := viper.GetString("bus.url")
			if busURL == "" {
				return fmt.Errorf("bus.url must be set in the config")
			}

			hub, err := hubFromConfig()
			if err != nil {
				return err
			}

			notifier := events.NewNotifier(
				hub,
				product.NewResolver(hub, nil),
				ui.Render,
				hub.WebURL(),
			)

			registry := events.NewRegistry()
			notifier.RegisterAll(registry, viper.GetString("koji.topic_prefix"))

			srv := service.NewBusService(busURL, registry, func(n events.Notification) {
				fmt.Printf("%s %s\n", ui.RenderProduct(n.Product), n.Message)
			})
			defer srv.Close()

			return srv.Run(cmd.Context())
		},
	}
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var longWatch = `
Subscribe to the message bus and print build state-change and tag/untag
notifications to the terminal, colorized by state and tagged with the
product each build belongs to.

Examples:
  # Follow build events.
  koji-go watch
`
