package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/erazemk/unifind/internal/collection"
	"github.com/erazemk/unifind/internal/gateway"
	"github.com/erazemk/unifind/internal/model"
)

// Refresher reloads collections from the backend. Concurrent page-load
// reloads of the same collection in the same session share one request.
// Every fetch is numbered when it starts; a response is stored only if no
// later-started fetch of that collection was stored first.
type Refresher struct {
	group  singleflight.Group
	list   gateway.ListOptions
	logger *zap.Logger

	mu      sync.Mutex
	started map[string]uint64
	stored  map[string]uint64
}

// NewRefresher returns a refresher that fetches public listings with list.
func NewRefresher(list gateway.ListOptions, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		list:    list,
		logger:  logger,
		started: make(map[string]uint64),
		stored:  make(map[string]uint64),
	}
}

func refreshKey(session string, name collection.Name) string {
	return session + ":" + name.String()
}

// Refresh fetches name and replaces it in env.State. A failed fetch puts
// the collection into its error state and is returned.
func (r *Refresher) Refresh(ctx context.Context, env Env, name collection.Name) error {
	_, err, _ := r.group.Do(refreshKey(env.Session, name), func() (any, error) {
		return nil, r.load(ctx, env, name)
	})
	return err
}

// Reload fetches name with a request of its own, never joining one already
// in flight. Mutations use it so the stored data reflects their result.
func (r *Refresher) Reload(ctx context.Context, env Env, name collection.Name) error {
	key := refreshKey(env.Session, name)
	r.group.Forget(key)
	return r.load(ctx, env, name)
}

// EnsureLoaded fetches name unless it was already fetched.
func (r *Refresher) EnsureLoaded(ctx context.Context, env Env, name collection.Name) error {
	if env.State.Loaded(name) {
		return nil
	}
	return r.Refresh(ctx, env, name)
}

// DropSession forgets the fetch counters of session.
func (r *Refresher) DropSession(session string) {
	prefix := session + ":"
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.started {
		if strings.HasPrefix(k, prefix) {
			delete(r.started, k)
			delete(r.stored, k)
		}
	}
}

func (r *Refresher) load(ctx context.Context, env Env, name collection.Name) error {
	key := refreshKey(env.Session, name)

	r.mu.Lock()
	r.started[key]++
	seq := r.started[key]
	r.mu.Unlock()

	apply, err := r.fetch(ctx, env, name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq < r.stored[key] {
		r.logger.Debug("discarded superseded refresh", zap.String("collection", name.String()))
		return err
	}
	r.stored[key] = seq
	if err != nil {
		env.State.Fail(name, err)
		r.logger.Warn("collection refresh failed",
			zap.String("collection", name.String()),
			zap.Error(err),
		)
		return err
	}
	apply()
	return nil
}

// fetch calls the backend for name and returns the function that stores
// the result.
func (r *Refresher) fetch(ctx context.Context, env Env, name collection.Name) (func(), error) {
	b, st := env.Backend, env.State
	switch name {
	case collection.Marketplace:
		items, err := b.ListMarketplaceItems(ctx, r.list)
		if err != nil {
			return nil, err
		}
		return func() { st.Marketplace.Replace(items) }, nil
	case collection.LostFound:
		items, err := b.ListLostFoundItems(ctx, r.list)
		if err != nil {
			return nil, err
		}
		return func() { st.LostFound.Replace(items) }, nil
	case collection.Users:
		users, err := b.Users(ctx, toValues(st.UserFilter()))
		if err != nil {
			return nil, err
		}
		return func() { st.Users.Replace(users) }, nil
	case collection.Reports:
		reports, err := b.Reports(ctx, model.ReportPending)
		if err != nil {
			return nil, err
		}
		return func() { st.Reports.Replace(reports) }, nil
	case collection.Duplicates:
		groups, err := b.Duplicates(ctx)
		if err != nil {
			return nil, err
		}
		return func() { st.Duplicates.Replace(groups) }, nil
	case collection.Stats:
		stats, err := b.Stats(ctx)
		if err != nil {
			return nil, err
		}
		return func() { st.Stats.Replace([]model.Stats{*stats}) }, nil
	case collection.ActivityLogs:
		logs, err := b.ActivityLogs(ctx, toValues(st.ActivityFilter()))
		if err != nil {
			return nil, err
		}
		return func() { st.ActivityLogs.Replace(logs) }, nil
	case collection.MyListings:
		if env.UserID == "" {
			return nil, ErrNoUser
		}
		items, err := b.UserMarketplaceItems(ctx, env.UserID)
		if err != nil {
			return nil, err
		}
		return func() { st.MyListings.Replace(items) }, nil
	case collection.MyLostFound:
		if env.UserID == "" {
			return nil, ErrNoUser
		}
		items, err := b.UserLostFoundItems(ctx, env.UserID)
		if err != nil {
			return nil, err
		}
		return func() { st.MyLostFound.Replace(items) }, nil
	case collection.Favorites:
		if env.UserID == "" {
			return nil, ErrNoUser
		}
		favs, err := b.UserFavorites(ctx, env.UserID)
		if err != nil {
			return nil, err
		}
		return func() { st.Favorites.Replace(favs) }, nil
	case collection.Reviews:
		of := st.ReviewsOf()
		if of == "" {
			of = env.UserID
		}
		if of == "" {
			return nil, ErrNoUser
		}
		reviews, err := b.UserReviews(ctx, of)
		if err != nil {
			return nil, err
		}
		return func() { st.Reviews.Replace(reviews) }, nil
	default:
		return nil, fmt.Errorf("unknown collection %d", name)
	}
}

func toValues(m map[string]string) url.Values {
	v := url.Values{}
	for k, val := range m {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}
