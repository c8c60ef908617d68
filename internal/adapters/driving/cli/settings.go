package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsListJSON bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the key/value settings stored in the local database.

Setting a key that already exists overwrites its value.`,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsList,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print the value of a setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Create or overwrite a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsDeleteCmd = &cobra.Command{
	Use:     "delete KEY",
	Aliases: []string{"rm"},
	Short:   "Delete a setting",
	Long:    `Delete a setting. Deleting a key that does not exist is not an error.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runSettingsDelete,
}

func init() {
	settingsListCmd.Flags().BoolVar(&settingsListJSON, "json", false, "print settings as a JSON object")

	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsDeleteCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsList(cmd *cobra.Command, _ []string) error {
	if settingsListJSON {
		all, err := settingsService.All(cmd.Context())
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(all, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	settings, err := settingsService.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(settings) == 0 {
		cmd.Println(mutedStyle.Render("No settings stored."))
		return nil
	}

	rows := make([][2]string, 0, len(settings))
	for _, s := range settings {
		rows = append(rows, [2]string{s.Key, s.Value})
	}
	cmd.Print(renderPairs(rows))
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	value, err := settingsService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Println(value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := settingsService.Set(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runSettingsDelete(cmd *cobra.Command, args []string) error {
	if err := settingsService.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}
