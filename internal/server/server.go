package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/thoreinstein/lighthub/internal/alias"
	"github.com/thoreinstein/lighthub/internal/container"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/logging"
	"github.com/thoreinstein/lighthub/internal/settings"
)

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	MaxUploadBytes  int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		Address:         ":8080",
		MaxUploadBytes:  1 << 20,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Store is the state served over HTTP. *store.Store implements it.
type Store interface {
	Settings() *settings.Settings
	Aliases() *alias.Table
	SetAlias(name string, id alias.Identity) (alias.Entry, error)
	DeleteAlias(name string) error
	PatchSettings(kind settings.PatchKind, patch []byte) (*settings.Settings, error)
	WriteBackup(w io.Writer) (int64, error)
	RestoreBackup(ctx context.Context, r io.Reader) (container.Outcome, error)
}

// Server is the HTTP API server.
type Server struct {
	config  Config
	store   Store
	logger  *slog.Logger
	handler http.Handler
}

// New creates a server for st.
func New(cfg Config, st Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	def := DefaultConfig()
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}

	s := &Server{
		config: cfg,
		store:  st,
		logger: logger.With("component", "http"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /backup", s.handleCreateBackup)
	mux.HandleFunc("POST /backup", s.handleRestoreBackup)
	mux.HandleFunc("GET /aliases", s.handleListAliases)
	mux.HandleFunc("PUT /aliases/{name}", s.handleUpdateAlias)
	mux.HandleFunc("DELETE /aliases/{name}", s.handleDeleteAlias)
	mux.HandleFunc("GET /settings", s.handleGetSettings)
	mux.HandleFunc("PATCH /settings", s.handlePatchSettings)

	s.handler = chain(mux,
		recoveryMiddleware(s.logger),
		loggingMiddleware(s.logger),
	)
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", s.config.Address)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("HTTP server started", "address", ln.Addr().String())

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serving http")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down http server")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serving http")
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
