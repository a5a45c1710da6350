package collection

import (
	"maps"
	"sync"
	"time"

	"github.com/erazemk/unifind/internal/filter"
	"github.com/erazemk/unifind/internal/model"
)

// Name identifies a collection.
type Name int

// Collections.
const (
	Marketplace Name = iota
	LostFound
	Users
	Reports
	Duplicates
	Stats
	ActivityLogs
	MyListings
	MyLostFound
	Favorites
	Reviews
	numNames
)

var names = [...]string{
	Marketplace:  "marketplace",
	LostFound:    "lost-found",
	Users:        "users",
	Reports:      "reports",
	Duplicates:   "duplicates",
	Stats:        "stats",
	ActivityLogs: "activity-logs",
	MyListings:   "my-listings",
	MyLostFound:  "my-lost-found",
	Favorites:    "favorites",
	Reviews:      "reviews",
}

var _ [len(names) - int(numNames)]struct{}

func (n Name) String() string {
	if n < 0 || n >= numNames {
		return "unknown"
	}
	return names[n]
}

// State is everything one browser session has loaded, plus its filters.
type State struct {
	Marketplace  Store[model.MarketplaceItem]
	LostFound    Store[model.LostFoundItem]
	Users        Store[model.User]
	Reports      Store[model.Report]
	Duplicates   Store[model.DuplicateGroup]
	Stats        Store[model.Stats]
	ActivityLogs Store[model.ActivityLogEntry]
	MyListings   Store[model.MarketplaceItem]
	MyLostFound  Store[model.LostFoundItem]
	Favorites    Store[model.Favorite]
	Reviews      Store[model.Review]

	mu            sync.Mutex
	marketFilter  filter.Query
	lostFilter    filter.Query
	userFilter    map[string]string
	activityQuery map[string]string
	reviewsOf     string
	flash         *Flash
	verifiedAt    time.Time
}

// NewState returns an empty state.
func NewState() *State {
	return &State{}
}

// Loaded reports whether the named collection was ever fetched.
func (s *State) Loaded(n Name) bool {
	switch n {
	case Marketplace:
		return s.Marketplace.Loaded()
	case LostFound:
		return s.LostFound.Loaded()
	case Users:
		return s.Users.Loaded()
	case Reports:
		return s.Reports.Loaded()
	case Duplicates:
		return s.Duplicates.Loaded()
	case Stats:
		return s.Stats.Loaded()
	case ActivityLogs:
		return s.ActivityLogs.Loaded()
	case MyListings:
		return s.MyListings.Loaded()
	case MyLostFound:
		return s.MyLostFound.Loaded()
	case Favorites:
		return s.Favorites.Loaded()
	case Reviews:
		return s.Reviews.Loaded()
	default:
		return false
	}
}

// Fail records a load failure on the named collection.
func (s *State) Fail(n Name, err error) {
	switch n {
	case Marketplace:
		s.Marketplace.Fail(err)
	case LostFound:
		s.LostFound.Fail(err)
	case Users:
		s.Users.Fail(err)
	case Reports:
		s.Reports.Fail(err)
	case Duplicates:
		s.Duplicates.Fail(err)
	case Stats:
		s.Stats.Fail(err)
	case ActivityLogs:
		s.ActivityLogs.Fail(err)
	case MyListings:
		s.MyListings.Fail(err)
	case MyLostFound:
		s.MyLostFound.Fail(err)
	case Favorites:
		s.Favorites.Fail(err)
	case Reviews:
		s.Reviews.Fail(err)
	}
}

// MarketFilter returns the current marketplace filter.
func (s *State) MarketFilter() filter.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marketFilter
}

// SetMarketFilter stores the marketplace filter.
func (s *State) SetMarketFilter(q filter.Query) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marketFilter = q
}

// LostFilter returns the current lost-and-found filter.
func (s *State) LostFilter() filter.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lostFilter
}

// SetLostFilter stores the lost-and-found filter.
func (s *State) SetLostFilter(q filter.Query) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lostFilter = q
}

// UserFilter returns the server-side filters last used for the users list.
func (s *State) UserFilter() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.userFilter)
}

// SetUserFilter stores the users list filters so re-fetches repeat them.
func (s *State) SetUserFilter(f map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userFilter = maps.Clone(f)
}

// ActivityFilter returns the server-side filters last used for the log.
func (s *State) ActivityFilter() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.activityQuery)
}

// SetActivityFilter stores the activity log filters.
func (s *State) SetActivityFilter(f map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activityQuery = maps.Clone(f)
}

// ReviewsOf returns the user whose reviews are loaded.
func (s *State) ReviewsOf() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reviewsOf
}

// SetReviewsOf records whose reviews are loaded.
func (s *State) SetReviewsOf(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviewsOf = userID
}

// Flash is a one-shot notice shown on the next page.
type Flash struct {
	Level   string
	Message string
}

// SetFlash replaces the pending notice.
func (s *State) SetFlash(level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flash = &Flash{Level: level, Message: message}
}

// TakeFlash returns the pending notice and clears it.
func (s *State) TakeFlash() *Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flash
	s.flash = nil
	return f
}

// VerifiedAt returns when the sign-in was last confirmed by the backend.
func (s *State) VerifiedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifiedAt
}

// MarkVerified records a successful verification at t.
func (s *State) MarkVerified(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifiedAt = t
}
