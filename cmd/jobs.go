package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/ytgrab-cli/ytgrab/api"
	"github.com/ytgrab-cli/ytgrab/color"
	"github.com/ytgrab-cli/ytgrab/config"
	"github.com/ytgrab-cli/ytgrab/icon"
	"github.com/ytgrab-cli/ytgrab/inline"
	"github.com/ytgrab-cli/ytgrab/jobs"
	"github.com/ytgrab-cli/ytgrab/style"
	"github.com/ytgrab-cli/ytgrab/util"
)

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.Flags().StringP("tab", "t", "all", "Which downloads to list: all, completed or scheduled")
	jobsCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	lo.Must0(jobsCmd.RegisterFlagCompletionFunc("tab", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"all", "completed", "scheduled"}, cobra.ShellCompDirectiveNoFileComp
	}))
}

var jobsCmd = &cobra.Command{
	Use:     "jobs",
	Aliases: []string{"downloads"},
	Short:   "List completed and scheduled downloads",
	Run: func(cmd *cobra.Command, args []string) {
		tab, err := inline.ParseTab(lo.Must(cmd.Flags().GetString("tab")))
		handleErr(err)

		client, err := api.FromConfig()
		handleErr(err)

		loc, err := config.Location()
		handleErr(err)

		handleErr(inline.Jobs(context.Background(), &inline.Options{
			Out:      os.Stdout,
			Client:   client,
			Location: loc,
			Json:     lo.Must(cmd.Flags().GetBool("json")),
			Tab:      tab,
		}))
	},
}

func init() {
	jobsCmd.AddCommand(jobsDeleteCmd)
	jobsDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var jobsDeleteCmd = &cobra.Command{
	Use:     "delete [task id]",
	Aliases: []string{"remove", "cancel"},
	Short:   "Cancel a scheduled download",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := api.FromConfig()
		handleErr(err)

		ctx := context.Background()
		board := jobs.NewBoard(client)
		if err := board.Refresh(ctx); err != nil {
			handleErr(errors.New(board.Message))
		}

		job, ok := board.Snapshot.Find(args[0]).Get()
		if !ok {
			handleErr(fmt.Errorf("no download with task id %s", args[0]))
		}
		if !job.Deletable() {
			handleErr(fmt.Errorf("%s is %s, only scheduled downloads can be deleted", job.TaskID, job.Status))
		}

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			var confirm bool
			prompt := &survey.Confirm{
				Message: jobs.ConfirmDelete,
				Help:    fmt.Sprintf("%s %s (%s)", job.TaskID, job.URL, job.Qualities()),
			}
			handleErr(survey.AskOne(prompt, &confirm))
			if !confirm {
				return
			}
		}

		if err := board.Delete(ctx, job); err != nil {
			handleErr(errors.New(board.Message))
		}

		fmt.Printf(
			"%s deleted %s, %s left\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(job.TaskID),
			util.Quantify(len(board.Snapshot.Scheduled), "scheduled download", "scheduled downloads"),
		)
	},
}
