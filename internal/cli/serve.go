package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/usertable/internal/config"
	"github.com/rshade/usertable/internal/logging"
	"github.com/rshade/usertable/internal/render"
	"github.com/rshade/usertable/internal/web"
)

// NewServeCmd creates the "serve" subcommand, the browser front end.
func NewServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the user table over HTTP",
		Long: `Serve the user table as a web page.

The collection is fetched once at startup and shared by every visitor. Each
browser session keeps its own search, filters, sort and page; sessions idle
for longer than server.session_ttl are dropped.`,
		Example: `  # Listen on the configured address (127.0.0.1:8080 by default)
  usertable serve

  # Listen on all interfaces, port 9000
  usertable serve --host 0.0.0.0 --port 9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", cfg.Server.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.Server.Addr(), err)
			}
			return serve(ctx, cmd, cfg, ln)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config)")

	return cmd
}

// serve runs the HTTP server on ln until ctx is done, prefetching the
// collection alongside it.
func serve(ctx context.Context, cmd *cobra.Command, cfg *config.Config, ln net.Listener) error {
	log := logging.ComponentLogger(*logging.FromContext(ctx), "web")
	client := newQueryClient(cfg)

	srv := web.NewServer(client, web.Options{
		QueryKey:      cfg.Source.QueryKey,
		NewController: controllerFactory(cfg),
		SessionTTL:    cfg.Server.SessionTTL,
		ReadTimeout:   cfg.Server.ReadTimeout,
		Language:      render.LanguageFromEnv(),
		Logger:        log,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Serve(ln)
	})

	g.Go(func() error {
		fetchCtx := log.WithContext(logging.ContextWithTraceID(gctx, logging.TraceIDFromContext(ctx)))
		if _, err := client.Fetch(fetchCtx, cfg.Source.QueryKey); err != nil {
			// Sessions show the error placeholder; the server keeps running.
			log.Error().Ctx(fetchCtx).Err(err).Msg("prefetching users failed")
			return nil
		}
		log.Info().Ctx(fetchCtx).Msg("users prefetched")
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(max(cfg.Server.SessionTTL/2, time.Second))
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := srv.Sessions().Sweep(); n > 0 {
					log.Debug().Int("sessions", n).Msg("expired sessions dropped")
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	cmd.Printf("Serving users on http://%s\n", ln.Addr())
	return g.Wait()
}
