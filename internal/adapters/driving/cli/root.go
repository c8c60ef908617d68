// Package cli is the enginedesk command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/enginedesk/internal/adapters/driven/config/file"
	"github.com/custodia-labs/enginedesk/internal/adapters/driven/installer"
	oauthclient "github.com/custodia-labs/enginedesk/internal/adapters/driven/oauth"
	"github.com/custodia-labs/enginedesk/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/enginedesk/internal/adapters/driving/oauth"
	"github.com/custodia-labs/enginedesk/internal/core/domain"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driven"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driving"
	"github.com/custodia-labs/enginedesk/internal/core/services"
	"github.com/custodia-labs/enginedesk/internal/logger"
	"github.com/custodia-labs/enginedesk/internal/paths"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// annotationNoStore marks commands that run without opening the store.
const annotationNoStore = "enginedesk/no-store"

// callbackPortSpan is how many ports above the first one login may try.
const callbackPortSpan = 17

// Persistent flags.
var (
	dataDirFlag string
	verboseFlag bool
)

// Wired by setup before any command that needs them runs.
var (
	appConfig       domain.AppConfig
	settingsService driving.SettingsService
	engineService   driving.EngineService
	authService     driving.AuthService
	worker          driving.Worker
	migrations      migrationAdmin
	workerStarted   bool
)

// migrationAdmin is the part of the store the db commands use.
type migrationAdmin interface {
	MigrationStatus(ctx context.Context) ([]sqlite.MigrationState, error)
	RevertLast(ctx context.Context) (string, error)
}

var rootCmd = &cobra.Command{
	Use:   "enginedesk",
	Short: "Manage analysis engines and application settings",
	Long: `enginedesk keeps the application's settings and the registry of
installed analysis engines in a local SQLite database.

The database lives in the data directory ($ENGINEDESK_HOME, or the
enginedesk folder under your user configuration directory) and is
migrated to the current schema every time a command starts.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default $ENGINEDESK_HOME or user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the command tree.
// Errors from opening the store are returned before any command runs.
func Execute(ctx context.Context) error {
	defer shutdown()
	// cmd.Print* falls back to stderr unless an output is set.
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

// setup opens the configuration and the store and wires the services.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)
	if _, skip := cmd.Annotations[annotationNoStore]; skip || cmd.Name() == "help" {
		return nil
	}

	dir := dataDirFlag
	if dir == "" {
		var err error
		if dir, err = paths.DataDir(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorageSetup, err)
		}
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageSetup, err)
	}
	cfg, err := file.LoadAppConfig(configStore, dir)
	if err != nil {
		return err
	}
	logger.Debug("data directory: %s", cfg.DataDir)

	store, err := sqlite.Open(cmd.Context(), cfg.DatabasePath)
	if err != nil {
		return err
	}
	logger.Debug("database ready: %s", store.Path())

	wire(cfg, store, browserOpener(cmd.ErrOrStderr()))
	return nil
}

// wire builds the services around an opened store.
func wire(cfg domain.AppConfig, store *sqlite.Store, opener driven.BrowserOpener) {
	settingsStore := store.SettingStore()

	var client driven.AccountClient
	if cfg.OAuth.IsConfigured() {
		client = oauthclient.NewAccountClient(cfg.OAuth)
	}

	firstPort := cfg.CallbackPort
	if firstPort == 0 {
		firstPort = oauth.DefaultPortStart
	}

	appConfig = cfg
	migrations = store
	settingsService = services.NewSettingsService(settingsStore)
	engineService = services.NewEngineService(store.EngineStore(), installer.New(cfg.EnginesDir))
	authService = services.NewAuthService(
		settingsStore,
		client,
		oauth.NewCallbackFactory(firstPort, firstPort+callbackPortSpan),
		opener,
		cfg.LoginTimeout,
	)
	worker = services.NewWorker(authService, engineService)
	workerStarted = false
}

// shutdown stops the background worker if a command started it.
func shutdown() {
	if worker != nil && workerStarted {
		if err := worker.Stop(); err != nil {
			logger.Warn("stopping worker: %v", err)
		}
		workerStarted = false
	}
}

// runJob hands a job to the background worker and waits for its result.
func runJob(cmd *cobra.Command, job domain.Job) (domain.JobResult, error) {
	ctx := cmd.Context()
	if !workerStarted {
		if err := worker.Start(ctx); err != nil {
			return domain.JobResult{}, fmt.Errorf("starting worker: %w", err)
		}
		workerStarted = true
	}

	results, err := worker.Submit(job)
	if err != nil {
		return domain.JobResult{}, err
	}

	select {
	case result := <-results:
		return result, result.Err
	case <-ctx.Done():
		return domain.JobResult{}, ctx.Err()
	}
}

// browserOpener prints the sign-in URL and opens it when attached to a terminal.
func browserOpener(out io.Writer) driven.BrowserOpener {
	return func(url string) error {
		fmt.Fprintf(out, "Open this URL to sign in:\n  %s\n", url)
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return nil
		}
		return oauth.OpenBrowser(url)
	}
}
