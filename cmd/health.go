package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/ytgrab-cli/ytgrab/api"
	"github.com/ytgrab-cli/ytgrab/color"
	"github.com/ytgrab-cli/ytgrab/config"
	"github.com/ytgrab-cli/ytgrab/icon"
	"github.com/ytgrab-cli/ytgrab/style"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().BoolP("json", "j", false, "Print the service answer as JSON")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the download service is up",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := api.FromConfig()
		handleErr(err)

		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout())
		defer cancel()

		health, err := client.Health(ctx)

		if lo.Must(cmd.Flags().GetBool("json")) {
			out := struct {
				URL     string `json:"url"`
				OK      bool   `json:"ok"`
				Status  string `json:"status,omitempty"`
				Message string `json:"message,omitempty"`
				Error   string `json:"error,omitempty"`
			}{
				URL:     client.BaseURL(),
				OK:      err == nil && health.OK(),
				Status:  health.Status,
				Message: health.Message,
			}
			if err != nil {
				out.Error = api.Message(err, err.Error())
			}
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(out))
			return
		}

		handleErr(err)
		if !health.OK() {
			handleErr(fmt.Errorf("%s answered %q", client.BaseURL(), health.String()))
		}

		fmt.Printf(
			"%s %s is up %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(client.BaseURL()),
			style.Faint(health.String()),
		)
	},
}
