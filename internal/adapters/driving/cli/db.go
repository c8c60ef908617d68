package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/enginedesk/internal/adapters/driven/storage/sqlite"
)

var dbRevertYes bool

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect and maintain the database schema",
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which schema migrations are applied",
	Args:  cobra.NoArgs,
	RunE:  runDBStatus,
}

var dbRevertCmd = &cobra.Command{
	Use:   "revert",
	Short: "Revert the most recently applied migration",
	Long: `Revert the most recently applied migration.

Data in tables created by that migration is lost. Every other command
re-applies pending migrations when it starts, so this is mostly useful
for development.`,
	Args: cobra.NoArgs,
	RunE: runDBRevert,
}

func init() {
	dbRevertCmd.Flags().BoolVar(&dbRevertYes, "yes", false, "confirm the revert")

	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbRevertCmd)
	rootCmd.AddCommand(dbCmd)
}

func runDBStatus(cmd *cobra.Command, _ []string) error {
	states, err := migrations.MigrationStatus(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading migration status: %w", err)
	}

	rows := make([][2]string, 0, len(states))
	for _, s := range states {
		status := warningStyle.Render("pending")
		if s.Applied {
			status = successStyle.Render("applied " + s.AppliedAt.Local().Format(time.DateTime))
		}
		rows = append(rows, [2]string{s.Version + "_" + s.Name, status})
	}
	cmd.Print(renderPairs(rows))
	return nil
}

func runDBRevert(cmd *cobra.Command, _ []string) error {
	if !dbRevertYes {
		return errors.New("refusing to revert without --yes")
	}

	reverted, err := migrations.RevertLast(cmd.Context())
	if errors.Is(err, sqlite.ErrNothingToRevert) {
		cmd.Println(mutedStyle.Render("Nothing to revert."))
		return nil
	}
	if err != nil {
		return err
	}
	cmd.Printf("Reverted %s\n", reverted)
	return nil
}
