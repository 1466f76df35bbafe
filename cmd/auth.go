package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/ytgrab-cli/ytgrab/auth"
	"github.com/ytgrab-cli/ytgrab/color"
	"github.com/ytgrab-cli/ytgrab/icon"
	"github.com/ytgrab-cli/ytgrab/style"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the bearer token sent to the download service",
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authSetCmd.Flags().StringP("token", "t", "", "Token to store; prompted for when omitted")
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a token in the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		token := lo.Must(cmd.Flags().GetString("token"))
		if token == "" {
			handleErr(survey.AskOne(
				&survey.Password{Message: "Service token"},
				&token,
				survey.WithValidator(survey.Required),
			))
		}

		token = strings.TrimSpace(token)
		if token == "" {
			handleErr(errors.New("empty token"))
		}

		handleErr(auth.SetToken(token))
		fmt.Printf("%s token saved\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	authCmd.AddCommand(authClearCmd)
}

var authClearCmd = &cobra.Command{
	Use:     "clear",
	Aliases: []string{"logout"},
	Short:   "Remove the stored token",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken())
		fmt.Printf("%s token removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	authCmd.AddCommand(authStatusCmd)
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Tell whether a token is stored",
	Run: func(cmd *cobra.Command, args []string) {
		token, err := auth.Token()
		handleErr(err)

		if token == "" {
			fmt.Println(style.Faint("no token stored, requests are sent without authorization"))
			return
		}

		fmt.Printf("%s token stored %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Faint(mask(token)))
	},
}

func mask(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
