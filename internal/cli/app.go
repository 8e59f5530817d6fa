package cli

import (
	"github.com/rshade/usertable/internal/config"
	"github.com/rshade/usertable/internal/source"
	"github.com/rshade/usertable/internal/table"
	"github.com/rshade/usertable/pkg/version"
)

// newQueryClient builds the HTTP-backed query client described by cfg.
func newQueryClient(cfg *config.Config) *source.QueryClient {
	loader := source.NewHTTPLoader(cfg.Source.URL, cfg.Source.Timeout)
	loader.UserAgent = version.UserAgent()
	return source.NewQueryClient(loader)
}

// controllerFactory returns a constructor for controllers configured by cfg.
func controllerFactory(cfg *config.Config) func() *table.Controller {
	opts := []table.Option{
		table.WithPageSize(cfg.Table.PageSize),
		table.WithPageSizeOptions(cfg.Table.PageSizeOptions...),
		table.WithGlobalFilterFields(cfg.Table.GlobalFilterFields...),
	}
	return func() *table.Controller {
		return table.New(table.UserColumns(), opts...)
	}
}
