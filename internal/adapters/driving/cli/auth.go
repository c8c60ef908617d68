package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to your online account",
	Long: `Sign in with your browser.

A sign-in page is opened (or its URL printed when not attached to a
terminal). After you approve access the account is stored in the local
settings and used by later commands.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored account",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	cmd.Printf("Waiting up to %s for sign-in to complete...\n", appConfig.LoginTimeout)

	result, err := runJob(cmd, domain.Job{Kind: domain.JobLogin})
	if err != nil {
		return err
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("Signed in as %s", result.Detail)))
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if err := authService.Logout(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	account, err := authService.Current(cmd.Context())
	if errors.Is(err, domain.ErrAuthRequired) {
		cmd.Println(mutedStyle.Render("Not signed in. Run 'enginedesk login'."))
		return nil
	}
	if err != nil {
		return err
	}

	cmd.Println(account.Username)
	if account.Token.IsExpired() {
		cmd.Println(warningStyle.Render("Session expired. Run 'enginedesk login' again."))
	}
	return nil
}
