package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/usertable/internal/cli/pagination"
	"github.com/rshade/usertable/internal/config"
	"github.com/rshade/usertable/internal/render"
	"github.com/rshade/usertable/internal/tui"
)

// NewBrowseCmd creates the "browse" subcommand, the interactive table.
// When stdin or stdout is not a terminal it prints the first page instead.
func NewBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse users in an interactive table",
		Long: `Open the interactive user table.

Keys:
  /          edit the global search      f        edit the name filter
  enter/esc  leave the input field        esc      clear the search
  1-6        sort by the Nth column (ascending, descending, off)
  ←/h pgup   previous page                →/l pgdn next page
  g home     first page                   G end    last page
  + / -      change rows per page         ↑/↓      move the cursor
  q ctrl+c   quit

Logs go to the configured log file, or ~/.usertable/logs/usertable.log.`,
		Annotations: map[string]string{annotationTUI: "true"},
		RunE:        runBrowse,
	}
}

// interactive reports whether cmd reads from and writes to a terminal.
func interactive(cmd *cobra.Command) bool {
	out, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !isTerminal(out) {
		return false
	}
	in, ok := cmd.InOrStdin().(*os.File)
	return ok && isTerminal(in)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	if !interactive(cmd) {
		return runList(cmd, listParams{
			PaginationParams: *pagination.NewPaginationParams(),
			output:           render.FormatTable,
		})
	}

	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	m := tui.NewModel(ctx, newQueryClient(cfg), controllerFactory(cfg)(),
		tui.WithLanguage(render.LanguageFromEnv()),
		tui.WithQueryKey(cfg.Source.QueryKey),
	)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}
