package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"smartbus/internal/config"
	"smartbus/internal/handler"
	"smartbus/internal/hub"
	"smartbus/internal/logging"
	"smartbus/internal/metrics"
	"smartbus/internal/service"
	"smartbus/internal/session"
	"smartbus/internal/watcher"
)

type serveOptions struct {
	configPath string
	envFile    string
	addr       string
	watch      bool
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the canvas HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: search "+config.EnvConfigPath+", ./"+config.ConfigFileName+", XDG, /etc)")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the config")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the palette when the config file changes")
	return cmd
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func runServe(ctx context.Context, opts serveOptions) error {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return err
	}

	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	logger := logging.New(logging.ParseLevel(cfg.Log.Level))
	if cfgPath != "" {
		logger.Info("config loaded", "path", cfgPath)
	} else {
		logger.Info("no config file found, using defaults")
	}
	logger.Debug("effective config", "summary", cfg.Summary())

	pal, err := cfg.BuildPalette()
	if err != nil {
		return fmt.Errorf("build palette: %w", err)
	}

	// Event bus -> SSE hub
	eventBus := service.NewEventBus()
	sseHub := hub.New(logger)
	hubDone := make(chan struct{})
	defer close(hubDone)
	go sseHub.Run(hubDone)

	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for event := range eventChan {
			sseHub.Broadcast(event)
		}
	}()

	var sessions *session.Manager
	m := metrics.New(func() int { return sessions.Count() }, sseHub.ClientCount)

	sessions = session.NewManager(
		session.WithTTL(cfg.Sessions.IdleTTL.Duration()),
		session.WithMaxSessions(cfg.Sessions.MaxSessions),
		session.WithChangeHook(service.ChangePublisher(eventBus, m)),
		session.WithLogger(logger),
	)
	go sessions.Run(ctx, cfg.Sessions.JanitorInterval.Duration())

	svc := service.NewCanvasService(sessions, pal, eventBus)

	if opts.watch && cfgPath != "" {
		w := watcher.New(cfgPath, func() { reloadPalette(cfgPath, svc, logger) }, logger)
		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("config watcher stopped", "error", err)
			}
		}()
	}

	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		return fmt.Errorf("embedded web content: %w", err)
	}

	router := handler.NewRouter(handler.NewCanvasHandler(svc, logger), handler.RouterConfig{
		Events:     sseHub,
		Metrics:    m.Handler(),
		Static:     http.FS(webContent),
		CORSOrigin: cfg.Server.CORSOrigin,
		Logger:     logger,
	})

	// Cancelled on shutdown so open event streams return
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// No write timeout: event streams stay open
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	cancelBase()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped", "open_sessions", sessions.Count())
	return nil
}

// reloadPalette swaps in the palette of the config at path. A broken file
// keeps the current palette.
func reloadPalette(path string, svc *service.CanvasService, logger *slog.Logger) {
	cfg, _, err := config.LoadFromPath(path)
	if err != nil {
		logger.Warn("config reload failed, keeping current palette", "path", path, "error", err)
		return
	}
	pal, err := cfg.BuildPalette()
	if err != nil {
		logger.Warn("config reload failed, keeping current palette", "path", path, "error", err)
		return
	}
	svc.SetPalette(pal)
	logger.Info("palette reloaded", "sections", len(cfg.Palette))
}
