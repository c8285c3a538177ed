package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/koji-go/pkg/format"
	"github.com/theapemachine/koji-go/pkg/logging"
	"github.com/theapemachine/koji-go/pkg/query"
	"github.com/theapemachine/koji-go/pkg/tasks"
)

var (
	tasksLong bool

	tasksCmd = &cobra.Command{
		Use:   "tasks <query>",
		Short: "Answer a task query from the command line",
		Long:  longTasks,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.Init(viper.GetString("log.file"), log.WarnLevel); err != nil {
				return err
			}
			defer logging.Close()

			text := strings.Join(args, " ")
			q := query.Parse(text)
			if q == nil {
				return fmt.Errorf("%q is not a task query; try \"alice's tasks\"", text)
			}

			hub, err := hubFromConfig()
			if err != nil {
				return err
			}
			svc := tasks.NewService(hub)

			nick := os.Getenv("USER")
			if nick == "" {
				nick = "you"
			}
			fmt.Println(svc.Resolve(cmd.Context(), q, nick))

			if tasksLong {
				matched, err := svc.List(cmd.Context(), q)
				if err != nil {
					return err
				}
				for _, task := range matched {
					fmt.Printf("  %d  %s\n", task.ID, format.TaskSummary(&task))
				}
			}
			return nil
		},
	}
)

func init() {
	tasksCmd.Flags().BoolVarP(&tasksLong, "long", "l", false, "also list each matching task")
	rootCmd.AddCommand(tasksCmd)
}

var longTasks = `
Resolve a task query once and print the answer, exactly as the Slack
service would phrase it.

Examples:
  # Open tasks for kdreyer.
  koji-go tasks "kdreyer's tasks"

  # Failed tasks, with a line per task.
  koji-go tasks -l "kdreyer failed tasks"
`
