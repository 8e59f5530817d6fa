package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/usertable/internal/config"
	"github.com/rshade/usertable/internal/logging"
	"github.com/rshade/usertable/pkg/version"
)

// isTerminal checks if the given file is a terminal.
//
//nolint:gochecknoglobals // Swapped out by tests.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// annotationTUI marks commands that draw on the terminal and therefore must
// not log to it.
const annotationTUI = "usertable/tui"

// NewRootCmd creates the root Cobra command for the usertable CLI.
// It loads configuration, wires up logging and tracing, and registers the
// browse, list, serve and config subcommands. Without a subcommand it browses.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	browse := NewBrowseCmd()

	cmd := &cobra.Command{
		Use:           "usertable",
		Short:         "Browse a paginated, sortable, filterable table of users",
		Long:          "usertable fetches a user collection once and presents it as a searchable, sortable, paginated table in the terminal, on stdout or in the browser.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{annotationTUI: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			logger.Debug().Ctx(cmd.Context()).
				Str("command", cmd.CommandPath()).
				Str("build", version.Info()).
				Bool("release", version.IsRelease()).
				Msg("starting")
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
		RunE: browse.RunE,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "YAML file merged over the user configuration, section by section")
	cmd.PersistentFlags().String("source-url", "", "endpoint returning the user collection (overrides config)")

	cmd.AddCommand(browse, NewListCmd(), NewServeCmd(), newConfigCmd())
	return cmd
}

const rootCmdExample = `  # Browse users interactively
  usertable

  # Print the second page, sorted by name descending
  usertable list --page 2 --sort name:desc

  # Filter by city and print JSON
  usertable list --filter address.city=Gwenborough --output json

  # Serve the table in the browser
  usertable serve --port 8080

  # Write a default configuration file
  usertable config init`

// loadConfig resolves configuration from defaults, the config file, .env,
// the environment, an optional --config overlay and flags, then installs it
// as the global configuration.
func loadConfig(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	cfg := config.New()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := config.ShallowMergeYAML(cfg, path); err != nil {
			return fmt.Errorf("loading --config: %w", err)
		}
		// The environment still wins over the overlay file.
		if err := config.ApplyEnv(cfg); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("source-url") {
		cfg.Source.URL, _ = cmd.Flags().GetString("source-url")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	config.SetGlobalConfig(cfg)
	return nil
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
