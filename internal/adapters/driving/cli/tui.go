package cli

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/enginedesk/internal/adapters/driving/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse settings and engines interactively",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("browse needs an interactive terminal; use 'settings list' or 'engine list'")
	}

	app, err := tui.NewApp(&tui.Ports{
		Settings: settingsService,
		Engines:  engineService,
	})
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(app.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
	return err
}
