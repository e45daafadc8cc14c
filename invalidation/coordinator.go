// Package invalidation turns any number of concurrent authentication failures
// into a single recovery: the session is cleared once, the user is asked once
// to log in again, and the app navigates to the login page at most once.
package invalidation

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gongxings/ai-creator/metrics"
	"github.com/gongxings/ai-creator/pipeline"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTitle   = "Session expired"
	DefaultMessage = "Your login has expired. Log in again?"
	defaultLogin   = "/login"
)

type State int

const (
	Idle State = iota
	RecoveryInFlight
)

func (s State) String() string {
	if s == RecoveryInFlight {
		return "recovery_in_flight"
	}
	return "idle"
}

// SessionClearer is the part of the credential store the coordinator needs.
// Generation must change whenever a new session is installed.
type SessionClearer interface {
	AccessToken() string
	Generation() uint64
	Clear(ctx context.Context) error
}

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// Navigator moves the app to another page.
type Navigator interface {
	Navigate(ctx context.Context, path string, query url.Values) error
	CurrentPath() string
}

var _ pipeline.Invalidator = (*Coordinator)(nil)

type Coordinator struct {
	store      SessionClearer
	navigator  Navigator
	prompter   Prompter
	loginRoute string
	title      string
	message    string
	logger     zerolog.Logger
	metrics    *metrics.Metrics

	inFlight atomic.Bool
	// settled is 1 + the store generation the last episode ran against, 0
	// before the first episode.
	settled  atomic.Uint64
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*Coordinator)

// WithPrompter sets the confirmation dialog. Without one the coordinator
// navigates to the login page straight away.
func WithPrompter(p Prompter) Option {
	return func(c *Coordinator) {
		c.prompter = p
	}
}

func WithLoginRoute(route string) Option {
	return func(c *Coordinator) {
		if route != "" {
			c.loginRoute = route
		}
	}
}

func WithMessage(title, message string) Option {
	return func(c *Coordinator) {
		c.title = title
		c.message = message
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

func New(store SessionClearer, navigator Navigator, opts ...Option) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		store:      store,
		navigator:  navigator,
		loginRoute: defaultLogin,
		title:      DefaultTitle,
		message:    DefaultMessage,
		logger:     log.Logger,
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invalidate reports an authentication failure for a request that carried
// failedToken. The first report of an episode clears the session before
// returning and starts the recovery flow in the background. Reports arriving
// while a flow is running, or carrying a token that is no longer current,
// are ignored. Reports from requests that carried no token start at most one
// episode until the store installs a new session.
func (c *Coordinator) Invalidate(failedToken, origin string) {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.metrics.RecoverySuppressed()
		c.logger.Debug().Msg("authentication failure during recovery ignored")
		return
	}

	if current := c.store.AccessToken(); current != failedToken {
		c.inFlight.Store(false)
		c.metrics.RecoverySuppressed()
		c.logger.Debug().Msg("authentication failure for a replaced session ignored")
		return
	}

	generation := c.store.Generation()
	if failedToken == "" && c.settled.Load() == generation+1 {
		c.inFlight.Store(false)
		c.metrics.RecoverySuppressed()
		c.logger.Debug().Msg("authentication failure without a session ignored, already recovered")
		return
	}
	c.settled.Store(generation + 1)

	episode := uuid.NewString()
	c.metrics.RecoveryStarted()
	if origin == "" && c.navigator != nil {
		origin = c.navigator.CurrentPath()
	}

	logger := c.logger.With().Str("episode", episode).Logger()
	logger.Info().Str("origin", origin).Msg("session invalidated")

	if err := c.store.Clear(c.ctx); err != nil {
		logger.Err(err).Msg("clearing session")
	}

	c.wg.Add(1)
	go c.runRecovery(logger, origin)
}

func (c *Coordinator) runRecovery(logger zerolog.Logger, origin string) {
	result := metrics.RecoveryAutomatic
	defer c.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("recovery flow panicked")
			result = metrics.RecoveryFailed
		}
		c.inFlight.Store(false)
		c.metrics.RecoveryFinished(result)
	}()

	if c.prompter != nil {
		confirmed, err := c.prompter.Confirm(c.ctx, c.title, c.message)
		if err != nil {
			logger.Err(err).Msg("session expired prompt")
			result = metrics.RecoveryFailed
			return
		}
		if !confirmed {
			logger.Info().Msg("re-login declined")
			result = metrics.RecoveryCancelled
			return
		}
		result = metrics.RecoveryConfirmed
	}

	if c.navigator == nil {
		return
	}
	if err := c.navigator.Navigate(c.ctx, c.loginRoute, c.redirectQuery(origin)); err != nil {
		logger.Err(err).Str("route", c.loginRoute).Msg("navigating to login")
		result = metrics.RecoveryFailed
	}
}

// redirectQuery carries origin to the login page unless origin is the login
// page itself.
func (c *Coordinator) redirectQuery(origin string) url.Values {
	if origin == "" {
		return nil
	}
	path := origin
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == c.loginRoute {
		return nil
	}
	return url.Values{"redirect": []string{origin}}
}

func (c *Coordinator) State() State {
	if c.inFlight.Load() {
		return RecoveryInFlight
	}
	return Idle
}

// Wait blocks until every started recovery flow has ended.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Close cancels running prompts and navigations and waits for them to end.
func (c *Coordinator) Close() {
	c.cancel()
	c.wg.Wait()
}
