package view

import (
	"github.com/erazemk/unifind/internal/collection"
	"github.com/erazemk/unifind/internal/filter"
	"github.com/erazemk/unifind/internal/gateway"
	"github.com/erazemk/unifind/internal/model"
)

// EmptyState is shown instead of an empty list.
type EmptyState struct {
	Icon    string
	Heading string
	Hint    string
}

// ErrorState is shown when a collection failed to load.
type ErrorState struct {
	Heading string
	Detail  string
}

const postHint = `Click the "Post Item" button to add something!`

// Empty states per list.
var (
	EmptyMarketplace = EmptyState{Icon: "fa-store", Heading: "No items found. Try adjusting your filters or be the first to post!", Hint: postHint}
	EmptyLostFound   = EmptyState{Icon: "fa-search", Heading: "No items found. Try adjusting your filters or post a lost/found item!", Hint: postHint}
	EmptyReports     = EmptyState{Icon: "fa-check-circle", Heading: "No pending reports", Hint: "All reports have been reviewed!"}
	EmptyUsers       = EmptyState{Icon: "fa-users", Heading: "No users found"}
	EmptyDuplicates  = EmptyState{Icon: "fa-check-circle", Heading: "No duplicates found", Hint: "All items appear to be unique!"}
	EmptyActivity    = EmptyState{Icon: "fa-history", Heading: "No activity logs"}
	EmptyListings    = EmptyState{Icon: "fa-box-open", Heading: "No listings yet"}
	EmptyFavorites   = EmptyState{Icon: "fa-heart", Heading: "No favorites yet"}
	EmptyReviews     = EmptyState{Icon: "fa-star", Heading: "No reviews yet"}
)

// Section is a rendered list: its items, or an empty or error state.
// Exactly one of Items, Empty and Failed is meaningful.
type Section[V any] struct {
	Items  []V
	Empty  *EmptyState
	Failed *ErrorState
}

// Loading reports whether the list has not been fetched yet.
func (s Section[V]) Loading() bool {
	return s.Items == nil && s.Empty == nil && s.Failed == nil
}

func buildSection[E, V any](snap *collection.Snapshot[E], items []E, build func(E) V, empty EmptyState, failHeading string) Section[V] {
	if snap.Failed() {
		return Section[V]{Failed: &ErrorState{Heading: failHeading, Detail: gateway.Message(snap.Err)}}
	}
	if !snap.Loaded {
		return Section[V]{}
	}
	if len(items) == 0 {
		e := empty
		return Section[V]{Empty: &e}
	}
	out := make([]V, 0, len(items))
	for _, it := range items {
		out = append(out, build(it))
	}
	return Section[V]{Items: out}
}

// MarketplaceSection renders the filtered marketplace.
func (b *Builder) MarketplaceSection(snap *collection.Snapshot[model.MarketplaceItem], q filter.Query) Section[MarketplaceCard] {
	return buildSection(snap, filter.Visible(snap.Items, q), b.MarketplaceCard, EmptyMarketplace,
		"Failed to load items. Please refresh the page.")
}

// LostFoundSection renders the filtered lost-and-found list.
func (b *Builder) LostFoundSection(snap *collection.Snapshot[model.LostFoundItem], q filter.Query) Section[LostFoundCard] {
	return buildSection(snap, filter.Visible(snap.Items, q), b.LostFoundCard, EmptyLostFound,
		"Failed to load items. Please refresh the page.")
}

// ReportsSection renders pending reports.
func (b *Builder) ReportsSection(snap *collection.Snapshot[model.Report]) Section[ReportCard] {
	return buildSection(snap, snap.Items, b.ReportCard, EmptyReports, "Failed to load pending reports")
}

// UsersSection renders the users table.
func (b *Builder) UsersSection(snap *collection.Snapshot[model.User]) Section[UserRow] {
	return buildSection(snap, snap.Items, b.UserRow, EmptyUsers, "Failed to load users")
}

// DuplicatesSection renders duplicate groups.
func (b *Builder) DuplicatesSection(snap *collection.Snapshot[model.DuplicateGroup]) Section[DuplicateGroupView] {
	return buildSection(snap, snap.Items, b.DuplicateGroup, EmptyDuplicates, "Failed to load duplicate items")
}

// ActivitySection renders the activity log.
func (b *Builder) ActivitySection(snap *collection.Snapshot[model.ActivityLogEntry]) Section[LogEntryView] {
	return buildSection(snap, snap.Items, b.LogEntry, EmptyActivity, "Failed to load activity logs")
}

// ListingsSection renders the user's marketplace and lost-and-found posts
// as one list, marketplace first.
func (b *Builder) ListingsSection(market *collection.Snapshot[model.MarketplaceItem], lost *collection.Snapshot[model.LostFoundItem]) Section[ListingCard] {
	if market.Failed() {
		return buildSection(market, nil, b.MarketplaceListing, EmptyListings, "Failed to load listings")
	}
	if lost.Failed() {
		return buildSection(lost, nil, b.LostFoundListing, EmptyListings, "Failed to load listings")
	}
	if !market.Loaded && !lost.Loaded {
		return Section[ListingCard]{}
	}
	cards := make([]ListingCard, 0, len(market.Items)+len(lost.Items))
	for _, it := range market.Items {
		cards = append(cards, b.MarketplaceListing(it))
	}
	for _, it := range lost.Items {
		cards = append(cards, b.LostFoundListing(it))
	}
	if len(cards) == 0 {
		e := EmptyListings
		return Section[ListingCard]{Empty: &e}
	}
	return Section[ListingCard]{Items: cards}
}

// FavoritesSection renders saved items.
func (b *Builder) FavoritesSection(snap *collection.Snapshot[model.Favorite]) Section[FavoriteCard] {
	return buildSection(snap, snap.Items, b.Favorite, EmptyFavorites, "Failed to load favorites")
}

// ReviewsSection renders reviews of a user.
func (b *Builder) ReviewsSection(snap *collection.Snapshot[model.Review]) Section[ReviewView] {
	return buildSection(snap, snap.Items, b.Review, EmptyReviews, "Failed to load reviews")
}

// StatsView is the dashboard counters; nil until loaded.
type StatsView struct {
	Stats  *model.Stats
	Failed *ErrorState
}

// Stats renders the dashboard counters.
func (b *Builder) Stats(snap *collection.Snapshot[model.Stats]) StatsView {
	if snap.Failed() {
		return StatsView{Failed: &ErrorState{Heading: "Failed to load dashboard statistics", Detail: gateway.Message(snap.Err)}}
	}
	if len(snap.Items) == 0 {
		return StatsView{}
	}
	s := snap.Items[0]
	return StatsView{Stats: &s}
}
