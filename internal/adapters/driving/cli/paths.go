package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/enginedesk/internal/adapters/driven/config/file"
	"github.com/custodia-labs/enginedesk/internal/adapters/driving/oauth"
	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

var pathsJSON bool

// openPath hands a file or directory to the desktop. Replaced in tests.
var openPath = oauth.OpenBrowser

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show where enginedesk keeps its files",
	Args:  cobra.NoArgs,
	RunE:  runPaths,
}

var openCmd = &cobra.Command{
	Use:   "open [data|config|database|engines|PATH]",
	Short: "Open a location in the system file manager",
	Long: `Open one of the enginedesk locations, or any existing path, with the
desktop's default handler. Without an argument the data directory is opened.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

func init() {
	pathsCmd.Flags().BoolVar(&pathsJSON, "json", false, "print paths as JSON")
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(openCmd)
}

type pathsOutput struct {
	Data     string `json:"data"`
	Config   string `json:"config"`
	Database string `json:"database"`
	Engines  string `json:"engines"`
}

func currentPaths() pathsOutput {
	return pathsOutput{
		Data:     appConfig.DataDir,
		Config:   filepath.Join(appConfig.DataDir, file.ConfigFileName),
		Database: appConfig.DatabasePath,
		Engines:  appConfig.EnginesDir,
	}
}

func runPaths(cmd *cobra.Command, _ []string) error {
	p := currentPaths()

	if pathsJSON {
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Print(renderPairs([][2]string{
		{"data", p.Data},
		{"config", p.Config},
		{"database", p.Database},
		{"engines", p.Engines},
	}))
	return nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	p := currentPaths()
	target := p.Data
	if len(args) == 1 {
		switch args[0] {
		case "data":
		case "config":
			target = p.Config
		case "database":
			target = p.Database
		case "engines":
			target = p.Engines
		default:
			target = args[0]
		}
	}

	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("%s: %w", target, domain.ErrNotFound)
	}

	cmd.Printf("Opening %s\n", target)
	return openPath(target)
}
