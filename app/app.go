// Package app assembles the session layer: storage, credential store, request
// pipeline, invalidation coordinator and navigation, and exposes the surface
// the rest of the client talks to.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gongxings/ai-creator/auth"
	"github.com/gongxings/ai-creator/internal/config"
	"github.com/gongxings/ai-creator/invalidation"
	"github.com/gongxings/ai-creator/metrics"
	"github.com/gongxings/ai-creator/navigation"
	"github.com/gongxings/ai-creator/pipeline"
	"github.com/gongxings/ai-creator/sessions"
	"github.com/gongxings/ai-creator/storage"
	"github.com/gongxings/ai-creator/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type App struct {
	config config.Config
	logger zerolog.Logger

	repo        storage.Repo
	closer      io.Closer
	store       *sessions.Store
	router      *navigation.Router
	guard       *navigation.Guard
	coordinator *invalidation.Coordinator
	client      *pipeline.Client
	api         *auth.API
	service     *auth.Service
	metrics     *metrics.Metrics
}

type options struct {
	logger     *zerolog.Logger
	prompter   invalidation.Prompter
	repo       storage.Repo
	registerer prometheus.Registerer
	httpClient *http.Client
	routes     []navigation.Route
}

type Option func(*options)

// WithPrompter sets the dialog used when the session expires.
func WithPrompter(p invalidation.Prompter) Option {
	return func(o *options) {
		o.prompter = p
	}
}

// WithRepo bypasses the configured storage backend.
func WithRepo(repo storage.Repo) Option {
	return func(o *options) {
		o.repo = repo
	}
}

func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithRoutes replaces the route table (otherwise the configured file, or the
// built-in table).
func WithRoutes(routes []navigation.Route) Option {
	return func(o *options) {
		o.routes = routes
	}
}

func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{config: cfg, logger: log.Logger}
	if o.logger != nil {
		a.logger = *o.logger
	}

	var err error
	a.repo = o.repo
	if a.repo == nil {
		a.repo, a.closer, err = openStorage(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("[App New] open %s storage: %w", cfg.GetStorageBackend(), err)
		}
	}

	a.metrics, err = metrics.New(o.registerer)
	if err != nil {
		a.closeStorage()
		return nil, fmt.Errorf("[App New] register metrics: %w", err)
	}

	routes := o.routes
	if routes == nil {
		routes, err = loadRoutes(cfg)
		if err != nil {
			a.closeStorage()
			return nil, fmt.Errorf("[App New] %w", err)
		}
	}
	table, err := navigation.NewTable(routes)
	if err != nil {
		a.closeStorage()
		return nil, fmt.Errorf("[App New] %w", err)
	}

	a.store = sessions.NewStore(a.repo, sessions.WithLogger(a.logger))
	a.router = navigation.NewRouter(table, navigation.WithLogger(a.logger))
	a.guard = navigation.NewGuard(a.store, cfg)
	a.router.BeforeEach(a.guard.BeforeEach)

	coordinatorOpts := []invalidation.Option{
		invalidation.WithLoginRoute(cfg.GetLoginRoute()),
		invalidation.WithLogger(a.logger),
		invalidation.WithMetrics(a.metrics),
	}
	if o.prompter != nil {
		coordinatorOpts = append(coordinatorOpts, invalidation.WithPrompter(o.prompter))
	}
	a.coordinator = invalidation.New(a.store, a.router, coordinatorOpts...)

	clientOpts := []pipeline.Option{
		pipeline.WithInvalidator(a.coordinator),
		pipeline.WithLogger(a.logger),
		pipeline.WithMetrics(a.metrics),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, pipeline.WithHTTPClient(o.httpClient))
	}
	a.client = pipeline.New(cfg, a.store, clientOpts...)

	a.api = auth.NewAPI(a.client)
	a.service = auth.NewService(a.api, a.store, auth.WithLogger(a.logger))
	return a, nil
}

func loadRoutes(cfg config.NavigationConfig) ([]navigation.Route, error) {
	if path := cfg.GetRoutesFile(); path != "" {
		return navigation.LoadRoutesFile(path)
	}
	return navigation.DefaultRoutes(), nil
}

// Execute runs an API call through the pipeline.
func (a *App) Execute(ctx context.Context, d pipeline.Descriptor) pipeline.Outcome {
	return a.client.Execute(ctx, d)
}

func (a *App) Login(ctx context.Context, username, password string) (sessions.Session, error) {
	return a.service.Login(ctx, username, password)
}

func (a *App) Logout(ctx context.Context) error {
	return a.service.Logout(ctx)
}

func (a *App) Restore(ctx context.Context) error {
	return a.service.Restore(ctx)
}

func (a *App) Register(ctx context.Context, req auth.RegisterRequest) (*users.Profile, error) {
	return a.service.Register(ctx, req)
}

func (a *App) RefreshToken(ctx context.Context) error {
	return a.service.RefreshToken(ctx)
}

// Navigate moves to path through the guard and returns where navigation ended.
func (a *App) Navigate(ctx context.Context, path string) (navigation.Location, error) {
	return a.router.Push(ctx, path)
}

func (a *App) IsAuthenticated() bool {
	return a.store.IsAuthenticated()
}

func (a *App) IsAdmin() bool {
	return a.store.IsAdmin()
}

func (a *App) Session() sessions.Session {
	return a.store.Snapshot()
}

func (a *App) Auth() *auth.Service {
	return a.service
}

func (a *App) Store() *sessions.Store {
	return a.store
}

func (a *App) Router() *navigation.Router {
	return a.router
}

func (a *App) Coordinator() *invalidation.Coordinator {
	return a.coordinator
}

// Close cancels a pending session expired prompt, waits for the recovery flow
// to end and releases the storage backend.
func (a *App) Close() error {
	a.coordinator.Close()
	return a.closeStorage()
}

func (a *App) closeStorage() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	if err != nil {
		return fmt.Errorf("[App Close] %w", err)
	}
	return nil
}
