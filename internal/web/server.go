// Package web serves the user table as HTML pages, one controller per
// browser session. Every mutation is a form POST answered with
// 303 See Other, so the view state never appears in the URL.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/rshade/usertable/internal/cli/pagination"
	"github.com/rshade/usertable/internal/source"
	"github.com/rshade/usertable/internal/table"
	"github.com/rshade/usertable/internal/web/middleware"
)

const (
	defaultReadTimeout  = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	defaultWriteTimeout = 30 * time.Second
)

// Options configures a Server.
type Options struct {
	// QueryKey is the cache key the collection is fetched under.
	QueryKey string
	// NewController builds the controller for a new session.
	NewController func() *table.Controller
	SessionTTL    time.Duration
	ReadTimeout   time.Duration
	// Language is used when the request has no usable Accept-Language.
	Language     language.Tag
	SecureCookie bool
	Logger       zerolog.Logger
}

// Server is the HTTP front end.
type Server struct {
	client   *source.QueryClient
	opts     Options
	sessions *SessionStore
	router   *chi.Mux

	// fields and pageSizes validate form input against the session schema.
	fields    *pagination.ColumnSorter
	pageSizes []int

	server  *http.Server
	baseCtx context.Context
}

// NewServer creates a Server reading the collection through client.
func NewServer(client *source.QueryClient, opts Options) *Server {
	if opts.QueryKey == "" {
		opts.QueryKey = source.DefaultQueryKey
	}
	if opts.NewController == nil {
		opts.NewController = func() *table.Controller { return table.New(table.UserColumns()) }
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaultReadTimeout
	}
	if opts.Language == language.Und {
		opts.Language = language.English
	}

	proto := opts.NewController()
	s := &Server{
		client:    client,
		opts:      opts,
		sessions:  NewSessionStore(opts.SessionTTL, opts.NewController),
		router:    chi.NewRouter(),
		fields:    pagination.NewColumnSorter(proto.Columns()),
		pageSizes: proto.PageSizeOptions(),
		baseCtx:   opts.Logger.WithContext(context.Background()),
	}
	s.sessions.secure = opts.SecureCookie
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Handler:           s.router,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return s.baseCtx },
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger(s.opts.Logger))
	s.router.Use(chimw.Recoverer)
	s.router.Use(middleware.SecurityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Post("/search", s.handleSearch)
	s.router.Post("/filter/{field}", s.handleFilter)
	s.router.Post("/sort/{field}", s.handleSort)
	s.router.Post("/page/{action}", s.handlePage)
	s.router.Post("/page-size", s.handlePageSize)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/view", s.handleAPIView)
	})

	s.router.Get("/healthz", s.handleHealth)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Sessions exposes the session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Prefetch starts loading the collection in the background.
func (s *Server) Prefetch(ctx context.Context) {
	s.client.Prefetch(ctx, s.opts.QueryKey)
}

// Serve accepts connections on ln until Shutdown is called.
// http.ErrServerClosed is not reported as an error.
func (s *Server) Serve(ln net.Listener) error {
	s.opts.Logger.Info().Str("addr", ln.Addr().String()).Msg("starting server")
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
