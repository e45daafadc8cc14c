package navigation

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	autherrors "github.com/gongxings/ai-creator/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultMaxRedirects = 5

// Hook runs before every transition. Hooks run in registration order and the
// first non-Allow decision wins.
type Hook func(ctx context.Context, to, from Location) Decision

// Router is the in-process navigation subsystem.
type Router struct {
	table        *Table
	maxRedirects int
	logger       zerolog.Logger

	lock    sync.RWMutex
	hooks   []Hook
	current Location
}

type RouterOption func(*Router)

func WithMaxRedirects(n int) RouterOption {
	return func(r *Router) {
		if n > 0 {
			r.maxRedirects = n
		}
	}
}

func WithLogger(logger zerolog.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

func NewRouter(table *Table, opts ...RouterOption) *Router {
	r := &Router{
		table:        table,
		maxRedirects: defaultMaxRedirects,
		logger:       log.Logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BeforeEach registers a hook.
func (r *Router) BeforeEach(h Hook) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.hooks = append(r.hooks, h)
}

// Navigate moves to path (which may carry its own query, merged with query),
// following hook redirects, and commits the final location.
func (r *Router) Navigate(ctx context.Context, path string, query url.Values) error {
	_, err := r.Push(ctx, joinQuery(path, query))
	return err
}

// Push navigates to a full path and returns the committed location.
func (r *Router) Push(ctx context.Context, fullPath string) (Location, error) {
	r.lock.RLock()
	from := r.current
	hooks := append([]Hook(nil), r.hooks...)
	r.lock.RUnlock()

	target := fullPath
	for redirects := 0; ; redirects++ {
		if err := ctx.Err(); err != nil {
			return Location{}, err
		}
		to, err := r.table.Resolve(target)
		if err != nil {
			return Location{}, err
		}

		decision := runHooks(ctx, hooks, to, from)
		switch {
		case decision.Aborted():
			r.logger.Debug().Str("to", to.FullPath()).Msg("navigation aborted")
			return Location{}, fmt.Errorf("%s: %w", to.FullPath(), autherrors.ErrNavigationAborted)
		case decision.Redirected():
			if redirects >= r.maxRedirects {
				return Location{}, fmt.Errorf("%s: %w", fullPath, autherrors.ErrTooManyRedirects)
			}
			r.logger.Debug().Str("from", to.FullPath()).Str("to", decision.Target()).Msg("navigation redirected")
			target = decision.Target()
			continue
		}

		r.lock.Lock()
		r.current = to
		r.lock.Unlock()
		return to, nil
	}
}

// CurrentPath is the full path of the committed location, "/" before the
// first navigation.
func (r *Router) CurrentPath() string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.current.Path == "" {
		return "/"
	}
	return r.current.FullPath()
}

func (r *Router) Current() Location {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.current
}

// Resolve exposes the table lookup without navigating.
func (r *Router) Resolve(path string) (Location, error) {
	return r.table.Resolve(path)
}

func runHooks(ctx context.Context, hooks []Hook, to, from Location) Decision {
	for _, h := range hooks {
		if d := h(ctx, to, from); !d.Allowed() {
			return d
		}
	}
	return Allow()
}

func joinQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	base, raw, found := strings.Cut(path, "?")
	merged, err := url.ParseQuery(raw)
	if err != nil || !found {
		merged = url.Values{}
	}
	for k, vs := range query {
		merged[k] = append(merged[k], vs...)
	}
	return base + "?" + merged.Encode()
}
