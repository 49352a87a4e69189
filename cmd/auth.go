package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tubular-cli/tubular/auth"
	"github.com/tubular-cli/tubular/color"
	"github.com/tubular-cli/tubular/icon"
	"github.com/tubular-cli/tubular/log"
	"github.com/tubular-cli/tubular/style"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd, authLogoutCmd, authStatusCmd)

	authLoginCmd.Flags().StringP("token", "t", "", "Use this access token instead of asking for one")
}

// authCmd groups the commands that manage the signed-in account.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the account used for likes and subscriptions",
	Long: `Store, inspect or remove the OAuth access token used for likes and subscriptions.
The token lives in the system keyring. Browsing works without one.`,
}

// authLoginCmd stores an access token in the system keyring.
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an OAuth access token in the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		token := lo.Must(cmd.Flags().GetString("token"))

		if token == "" {
			prompt := survey.Password{
				Message: "Paste your OAuth access token:",
				Help:    "The token needs the youtube scope to rate videos and manage subscriptions",
			}
			handleErr(survey.AskOne(&prompt, &token))
		}

		token = strings.TrimSpace(token)
		if token == "" {
			handleErr(errors.New("empty token"))
		}

		handleErr(auth.SetToken(token))
		log.Info("access token stored")
		fmt.Printf("%s signed in\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

// authLogoutCmd removes the stored access token.
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored access token",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken())
		log.Info("access token removed")
		fmt.Printf("%s signed out\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

// authStatusCmd reports whether an access token is stored.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether an account is signed in",
	Run: func(cmd *cobra.Command, args []string) {
		if auth.Authenticated(auth.Keyring{}) {
			fmt.Printf("%s signed in\n", style.Fg(color.Green)(icon.Get(icon.Success)))
			return
		}

		fmt.Printf("%s not signed in, run %s\n",
			style.Fg(color.Yellow)(icon.Get(icon.Fail)),
			style.Fg(color.Purple)("auth login"),
		)
	},
}
