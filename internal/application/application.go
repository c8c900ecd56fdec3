package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"pull_request_notifier/internal/config"
	"pull_request_notifier/internal/domain/service"
	"pull_request_notifier/internal/events"
	"pull_request_notifier/internal/infrastructure/bitbucket"
	"pull_request_notifier/internal/infrastructure/persistence"
	"pull_request_notifier/internal/server"
	"pull_request_notifier/pkg/application/connectors"
	"pull_request_notifier/pkg/application/modules"
	"pull_request_notifier/pkg/contextx"
	"pull_request_notifier/pkg/middlewarex"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type App struct {
	cfg           config.Config
	slog          *connectors.Slog
	webhookServer modules.HTTPServer
	socketServer  modules.HTTPServer

	prRepo     *persistence.PullRequestRepository
	dispatcher *events.Dispatcher

	webhookService *service.WebhookEventService
	hub            *server.Hub
}

func New(appVersion string) App {
	const appName = "pr_notifier"

	cfg := lo.Must(config.Load())

	return App{
		cfg: cfg,
		slog: &connectors.Slog{
			Name:    appName,
			Version: appVersion,
			Debug:   cfg.Debug,
		},

		webhookServer: modules.HTTPServer{
			Name:            "webhook",
			ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		},
		socketServer: modules.HTTPServer{
			Name:            "socket",
			ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		},
	}
}

func (app App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)

	defer stop()

	ctx = contextx.WithLogger(ctx, app.slog.Logger(ctx))

	logger(ctx).Info("config", slog.Any("config", app.cfg))

	app.prRepo = persistence.NewPullRequestRepository()
	app.dispatcher = events.NewDispatcher()

	client := bitbucket.NewClient(app.cfg.Bitbucket)
	normalizer := bitbucket.NewNormalizer(client, app.cfg.Bitbucket.BaseURL)

	app.webhookService = service.NewWebhookEventService(app.prRepo, normalizer, app.dispatcher)
	app.hub = server.NewHub(app.prRepo)
	app.hub.Subscribe(app.dispatcher)

	g, gCtx := errgroup.WithContext(ctx)

	app.webhookServer.Run(gCtx, g, app.newWebhookHTTPServer(gCtx))
	app.socketServer.Run(gCtx, g, app.newSocketHTTPServer(gCtx))

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

func (app App) newWebhookHTTPServer(ctx context.Context) *http.Server {
	router := chi.NewRouter()

	router.Use(
		middleware.RealIP,
		middlewarex.Logger,
	)

	server.NewWebhookServer(app.webhookService).RegisterRoutes(router)

	return &http.Server{
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
		Addr:              app.cfg.HTTP.ListenAddress,
		WriteTimeout:      app.cfg.HTTP.WriteTimeout,
		ReadTimeout:       app.cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: app.cfg.HTTP.ReadTimeout,
		IdleTimeout:       app.cfg.HTTP.IdleTimeout,
		Handler:           router,
	}
}

func (app App) newSocketHTTPServer(ctx context.Context) *http.Server {
	router := chi.NewRouter()

	router.Use(middleware.RealIP)

	server.NewSocketServer(app.hub, app.cfg.Socket.WriteTimeout).RegisterRoutes(router)

	return &http.Server{
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
		Addr:              app.cfg.Socket.ListenAddress,
		ReadHeaderTimeout: app.cfg.HTTP.ReadTimeout,
		Handler:           router,
	}
}
