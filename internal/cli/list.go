package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/rshade/usertable/internal/cli/pagination"
	"github.com/rshade/usertable/internal/config"
	"github.com/rshade/usertable/internal/render"
)

// listParams holds the flags of the list command.
type listParams struct {
	pagination.PaginationParams

	output string
}

// NewListCmd creates the "list" subcommand, which fetches the collection
// once, applies the requested view and prints a single page.
func NewListCmd() *cobra.Command {
	params := listParams{PaginationParams: *pagination.NewPaginationParams()}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the user table",
		Long: `Fetch the user collection and print one page of it.

The view is built the same way as in the interactive table: filters first,
then the sort, then the page. A page past the end shows the last page.
The global --search matches the fields listed in table.global_filter_fields
(name by default); --filter matches a single column.

Exits non-zero when the collection cannot be fetched.`,
		Example: `  # First page as a table
  usertable list

  # Page 2 with 8 rows, sorted by city descending
  usertable list --page 2 --page-size 8 --sort address.city:desc

  # Users whose name contains "ann", as JSON
  usertable list --filter name=ann --output json

  # Search and print YAML
  usertable list --search howell --output yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, params)
		},
	}

	cmd.Flags().IntVar(&params.Page, "page", pagination.DefaultPage, "page number (1-indexed)")
	cmd.Flags().IntVar(&params.PageSize, "page-size", 0, "rows per page (0 = table.page_size from config)")
	cmd.Flags().StringVar(&params.Sort, "sort", "", "sort as 'field' or 'field:order' (e.g. 'name:desc')")
	cmd.Flags().StringVar(&params.Search, "search", "", "global search text")
	cmd.Flags().StringArrayVar(&params.ColumnFilters, "filter", nil, "column filter as 'field=value' (repeatable)")
	cmd.Flags().StringVarP(&params.output, "output", "o", "", "output format: table, json or yaml (default from config)")

	return cmd
}

func runList(cmd *cobra.Command, params listParams) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	format := params.output
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	if !slices.Contains([]string{render.FormatTable, render.FormatJSON, render.FormatYAML}, format) {
		return fmt.Errorf("%w: %q (valid: table, json, yaml)", render.ErrUnknownFormat, format)
	}
	if err := params.Validate(); err != nil {
		return err
	}

	ctrl := controllerFactory(cfg)()
	records, fetchErr := newQueryClient(cfg).Fetch(ctx, cfg.Source.QueryKey)
	if fetchErr != nil {
		logger.Error().Ctx(ctx).Err(fetchErr).Msg("fetching users failed")
		ctrl.SetError(fetchErr)
	} else {
		ctrl.SetData(records)
	}

	if err := pagination.Apply(ctrl, params.PaginationParams); err != nil {
		return err
	}

	if err := render.Snapshot(cmd.OutOrStdout(), ctrl.Snapshot(), format, render.LanguageFromEnv()); err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}

	if fetchErr != nil {
		return fmt.Errorf("fetching users: %w", fetchErr)
	}
	return nil
}
