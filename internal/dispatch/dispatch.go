// Package dispatch runs user-triggered mutations: confirmation when the
// action is destructive, the backend call, then the re-fetch of every
// collection the mutation could have changed.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erazemk/unifind/internal/collection"
	"github.com/erazemk/unifind/internal/gateway"
)

var (
	// ErrInFlight is returned when the same action is already running.
	ErrInFlight = errors.New("action already in progress")
	// ErrConfirmationNotFound is returned for unknown, used or expired
	// confirmations.
	ErrConfirmationNotFound = errors.New("confirmation not found")
	// ErrNoUser is returned when a per-user collection is fetched without a
	// signed-in user.
	ErrNoUser = errors.New("no signed-in user")
)

// DefaultConfirmTTL is how long a pending confirmation stays valid.
const DefaultConfirmTTL = 5 * time.Minute

// Env is the session an action runs in.
type Env struct {
	Session string
	UserID  string
	State   *collection.State
	Backend Backend
}

// Level is the severity of a notice.
type Level int

// Notice levels.
const (
	LevelSuccess Level = iota + 1
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return ""
	}
}

// Notice is a transient message for the user.
type Notice struct {
	Level   Level
	Message string
}

// Outcome is the result of submitting or confirming an action. When
// Confirmation is set nothing ran yet. Err carries the backend failure
// behind an error notice.
type Outcome struct {
	Notice       *Notice
	Confirmation *Confirmation
	Err          error
}

// Dispatcher executes actions.
type Dispatcher struct {
	refresher *Refresher
	logger    *zap.Logger
	ttl       time.Duration
	now       func() time.Time

	mu       sync.Mutex
	pending  map[string]*Confirmation
	inflight map[string]struct{}
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithConfirmTTL sets how long confirmations stay pending.
func WithConfirmTTL(d time.Duration) Option {
	return func(di *Dispatcher) { di.ttl = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(di *Dispatcher) { di.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(di *Dispatcher) { di.logger = l }
}

// New returns a dispatcher that re-fetches through refresher.
func New(refresher *Refresher, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		refresher: refresher,
		logger:    zap.NewNop(),
		ttl:       DefaultConfirmTTL,
		now:       time.Now,
		pending:   make(map[string]*Confirmation),
		inflight:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit starts an action. Destructive actions return a pending
// confirmation and issue no backend call.
func (d *Dispatcher) Submit(ctx context.Context, env Env, a Action) (Outcome, error) {
	if a.Prompt() != "" {
		c := &Confirmation{
			ID:      uuid.NewString(),
			Session: env.Session,
			Prompt:  a.Prompt(),
			Label:   a.Name(),
			action:  a,
			expires: d.now().Add(d.ttl),
		}
		d.mu.Lock()
		d.sweepLocked()
		d.pending[c.ID] = c
		d.mu.Unlock()
		return Outcome{Confirmation: c}, nil
	}
	return d.run(ctx, env, a)
}

// run executes the mutation and, on success, applies local changes and
// re-fetches affected collections in order.
func (d *Dispatcher) run(ctx context.Context, env Env, a Action) (Outcome, error) {
	key := env.Session + "|" + a.Key()

	d.mu.Lock()
	if _, busy := d.inflight[key]; busy {
		d.mu.Unlock()
		return Outcome{}, ErrInFlight
	}
	d.inflight[key] = struct{}{}
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.inflight, key)
		d.mu.Unlock()
	}()

	if err := a.Execute(ctx, env.Backend); err != nil {
		d.logger.Warn("action failed",
			zap.String("action", a.Name()),
			zap.String("key", a.Key()),
			zap.Error(err),
		)
		return Outcome{
			Notice: &Notice{Level: LevelError, Message: gateway.Message(err)},
			Err:    err,
		}, nil
	}

	if ap, ok := a.(Applier); ok {
		ap.Apply(env.State)
	}

	for _, name := range a.Affects() {
		if !env.State.Loaded(name) {
			continue
		}
		// Reload errors are recorded on the collection itself.
		_ = d.refresher.Reload(ctx, env, name)
	}

	d.logger.Info("action succeeded",
		zap.String("action", a.Name()),
		zap.String("key", a.Key()),
	)
	return Outcome{Notice: &Notice{Level: LevelSuccess, Message: a.Success()}}, nil
}
