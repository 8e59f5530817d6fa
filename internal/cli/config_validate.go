package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/usertable/internal/config"
)

// NewConfigValidateCmd creates the config validate command. Loading the
// configuration already validates it, so reaching RunE means it is valid.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration: the config file, .env,
USERTABLE_* environment variables and any --config overlay.`,
		Example: `  # Validate current configuration
  usertable config validate

  # Validate and show the source and server settings
  usertable config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			cmd.Printf("Configuration is valid\n")
			if verbose {
				printVerboseDetails(cmd, cfg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Printf("\nConfiguration file: %s\n", cfg.ConfigPath())
	cmd.Printf("Source: %s (timeout %s, key %q)\n", cfg.Source.URL, cfg.Source.Timeout, cfg.Source.QueryKey)
	cmd.Printf("Table: %d rows per page, options %v, search fields %v\n",
		cfg.Table.PageSize, cfg.Table.PageSizeOptions, cfg.Table.GlobalFilterFields)
	cmd.Printf("Server: %s (session ttl %s)\n", cfg.Server.Addr(), cfg.Server.SessionTTL)
}

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration as YAML.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(config.GetGlobalConfig())
			if err != nil {
				return fmt.Errorf("marshalling configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
