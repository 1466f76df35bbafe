package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"github.com/ytgrab-cli/ytgrab/api"
	"github.com/ytgrab-cli/ytgrab/config"
	"github.com/ytgrab-cli/ytgrab/icon"
	"github.com/ytgrab-cli/ytgrab/key"
	"github.com/ytgrab-cli/ytgrab/style"
	"github.com/ytgrab-cli/ytgrab/util"
)

// CheckService exits with a hint when the download service does not answer.
func CheckService() {
	client, err := api.FromConfig()
	handleErr(err)

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout())
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Contacting %s...", icon.Get(icon.Progress), client.BaseURL()))
	_, err = client.Health(ctx)
	erase()

	if err != nil {
		printUnreachable(client.BaseURL(), err)
		os.Exit(1)
	}
}

func printUnreachable(base string, err error) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.Red).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.Red).Render(fmt.Sprintf("%s %s", icon.Get(icon.Fail), api.Message(err, "The download service returned an error")))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("No healthy service at %s.", base))

	hint := fmt.Sprintf(
		"\n\nStart the backend, or point %s at it:\n  %s\n\nSkip this check with %s.",
		style.Fg(style.Mauve)(key.APIBaseURL),
		style.New().Foreground(style.AccentColor).Bold(true).Render(fmt.Sprintf("ytgrab config set %s %s", key.APIBaseURL, viper.GetString(key.APIBaseURL))),
		style.Bold("--health-check=false"),
	)

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			hint,
		),
	))
}
