package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

var engineListJSON bool

var engineCmd = &cobra.Command{
	Use:     "engine",
	Aliases: []string{"engines"},
	Short:   "Manage the engine registry",
	Long: `Register, inspect and remove analysis engine binaries.

An engine keeps the path it was first registered with; registering the
same ID again leaves the existing entry untouched. Remove it first to
change its path.`,
}

var engineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered engines",
	Args:  cobra.NoArgs,
	RunE:  runEngineList,
}

var engineAddCmd = &cobra.Command{
	Use:   "add ID PATH",
	Short: "Register an engine binary",
	Args:  cobra.ExactArgs(2),
	RunE:  runEngineAdd,
}

var engineRemoveCmd = &cobra.Command{
	Use:     "remove ID",
	Aliases: []string{"rm"},
	Short:   "Unregister an engine",
	Args:    cobra.ExactArgs(1),
	RunE:    runEngineRemove,
}

var enginePathCmd = &cobra.Command{
	Use:   "path ID",
	Short: "Print the binary location of an engine",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnginePath,
}

var engineCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of registered engines",
	Args:  cobra.NoArgs,
	RunE:  runEngineCount,
}

var engineInstallCmd = &cobra.Command{
	Use:   "install ID SOURCE",
	Short: "Copy an engine binary into the data directory and register it",
	Long: `Copy SOURCE into the engines directory and register it under ID.

The copy runs on the background worker. If ID is already registered the
existing registration is kept and its path is printed.`,
	Args: cobra.ExactArgs(2),
	RunE: runEngineInstall,
}

func init() {
	engineListCmd.Flags().BoolVar(&engineListJSON, "json", false, "print engines as JSON")

	engineCmd.AddCommand(engineListCmd)
	engineCmd.AddCommand(engineAddCmd)
	engineCmd.AddCommand(engineRemoveCmd)
	engineCmd.AddCommand(enginePathCmd)
	engineCmd.AddCommand(engineCountCmd)
	engineCmd.AddCommand(engineInstallCmd)
	rootCmd.AddCommand(engineCmd)
}

type engineJSON struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

func runEngineList(cmd *cobra.Command, _ []string) error {
	engines, err := engineService.List(cmd.Context())
	if err != nil {
		return err
	}

	if engineListJSON {
		out := make([]engineJSON, 0, len(engines))
		for _, e := range engines {
			out = append(out, engineJSON{ID: e.ID, Path: e.BinaryLocation})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding engines: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(engines) == 0 {
		cmd.Println(mutedStyle.Render("No engines registered."))
		return nil
	}

	rows := make([][2]string, 0, len(engines))
	for _, e := range engines {
		rows = append(rows, [2]string{e.ID, e.BinaryLocation})
	}
	cmd.Print(renderPairs(rows))
	return nil
}

func runEngineAdd(cmd *cobra.Command, args []string) error {
	id, path := args[0], args[1]
	if err := engineService.Register(cmd.Context(), id, path); err != nil {
		return err
	}

	registered, err := engineService.Path(cmd.Context(), id)
	if err != nil {
		return err
	}
	if registered != path {
		cmd.Println(warningStyle.Render(fmt.Sprintf("%s is already registered at %s; kept existing entry", id, registered)))
		return nil
	}
	cmd.Printf("Registered %s at %s\n", id, registered)
	return nil
}

func runEngineRemove(cmd *cobra.Command, args []string) error {
	if err := engineService.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func runEnginePath(cmd *cobra.Command, args []string) error {
	path, err := engineService.Path(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Println(path)
	return nil
}

func runEngineCount(cmd *cobra.Command, _ []string) error {
	count, err := engineService.Count(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Println(count)
	return nil
}

func runEngineInstall(cmd *cobra.Command, args []string) error {
	source, err := filepath.Abs(args[1])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[1], err)
	}

	result, err := runJob(cmd, domain.Job{
		Kind:   domain.JobInstallEngine,
		Engine: domain.EngineSource{ID: args[0], Path: source},
	})
	if err != nil {
		return err
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("Installed %s at %s", args[0], result.Detail)))
	return nil
}
