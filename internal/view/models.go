package view

import (
	"time"

	"github.com/erazemk/unifind/internal/model"
)

// Image fallbacks.
const (
	DefaultAvatar      = "/static/default-avatar.svg"
	PlaceholderListing = "/static/placeholder-listing.svg"
)

// MarketplaceCard is one marketplace listing in the grid.
type MarketplaceCard struct {
	ID          string
	Title       string
	Description string
	Category    string
	Condition   string
	Price       string
	Seller      string
	Status      Badge
	Posted      string
	ImageURL    string
}

// MarketplaceDetail is the full listing view.
type MarketplaceDetail struct {
	MarketplaceCard
	SellerContact string
}

// LostFoundCard is one lost-and-found post in the grid.
type LostFoundCard struct {
	ID          string
	Title       string
	Description string
	Category    string
	Location    string
	Contact     string
	Type        Badge
	Resolved    bool
	CardClass   string
	When        string
	ImageURL    string
}

// LostFoundDetail is the full post view.
type LostFoundDetail struct {
	LostFoundCard
	ContactInfo string
	Status      Badge
	Posted      string
}

// ReportCard is one pending report.
type ReportCard struct {
	ID            string
	ShortID       string
	Reason        string
	Created       string
	Reporter      string
	ReporterEmail string
	HasUser       bool
	UserID        string
	UserName      string
	UserEmail     string
	HasItem       bool
	ItemID        string
	ItemTitle     string
	ItemType      string
	Description   string
}

// UserRow is one row of the admin users table.
type UserRow struct {
	ID          string
	StudentID   string
	FullName    string
	Email       string
	Department  string
	Listings    int
	Rating      string
	ReviewCount string
	Verified    bool
	Blocked     bool
	Status      Badge
	Avatar      string
}

// DuplicateItem is one member of a duplicate group.
type DuplicateItem struct {
	ID       string
	Title    string
	Price    string
	Seller   string
	Posted   string
	ImageURL string
}

// DuplicateGroupView is a group of suspected duplicates.
type DuplicateGroupView struct {
	Count int
	Items []DuplicateItem
}

// LogEntryView is one activity log line.
type LogEntryView struct {
	Style       ActionStyle
	Description string
	Admin       string
	When        string
	IP          string
}

// ListingCard is one of the user's own listings on the profile page.
type ListingCard struct {
	ID          string
	Kind        model.ItemKind
	Title       string
	Price       string
	Status      string
	StatusClass string
	ImageURL    string
	NextStatus  string
}

// FavoriteCard is a saved item on the profile page.
type FavoriteCard struct {
	ID       string
	ItemID   string
	Kind     model.ItemKind
	Title    string
	Price    string
	ImageURL string
}

// ReviewView is one review of a user.
type ReviewView struct {
	Reviewer string
	Stars    []bool
	Comment  string
	When     string
}

// ProfileView is the header of a profile page.
type ProfileView struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	StudentID     string
	Department    string
	Bio           string
	Avatar        string
	TotalListings int
	ActiveSales   int
	TotalSold     int
	Rating        string
	ReviewCount   string
	Verified      bool
	Own           bool
}

// Builder turns entities into view models. Relative dates are computed
// against the injected clock so output is reproducible.
type Builder struct {
	now func() time.Time
	loc *time.Location
}

// NewBuilder returns a builder using now and rendering absolute times in loc.
func NewBuilder(now func() time.Time, loc *time.Location) *Builder {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{now: now, loc: loc}
}

func (b *Builder) relative(ts model.Timestamp) string {
	return RelativeDate(ts, b.now().In(b.loc))
}

// MarketplaceCard builds a marketplace grid card.
func (b *Builder) MarketplaceCard(item model.MarketplaceItem) MarketplaceCard {
	return MarketplaceCard{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		Condition:   item.Condition,
		Price:       FormatPrice(item.Price, CurrencyRs),
		Seller:      item.SellerName,
		Status:      MarketplaceBadge(item.Status),
		Posted:      b.relative(item.PostedAt()),
		ImageURL:    item.ImageURL,
	}
}

// MarketplaceDetail builds the marketplace detail view.
func (b *Builder) MarketplaceDetail(item model.MarketplaceItem) MarketplaceDetail {
	return MarketplaceDetail{
		MarketplaceCard: b.MarketplaceCard(item),
		SellerContact:   item.SellerContact,
	}
}

// LostFoundCard builds a lost-and-found grid card. The card shows the
// event date, not the posting date.
func (b *Builder) LostFoundCard(item model.LostFoundItem) LostFoundCard {
	resolved := item.Status == model.StatusResolved
	class := "lf-item-card"
	if item.Type == model.TypeLost {
		class += " lost"
	} else {
		class += " found"
	}
	if resolved {
		class += " resolved"
	}
	return LostFoundCard{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		Location:    item.Location,
		Contact:     item.ContactName,
		Type:        LostFoundTypeBadge(item.Type),
		Resolved:    resolved,
		CardClass:   class,
		When:        b.relative(item.Date),
		ImageURL:    item.ImageURL,
	}
}

// LostFoundDetail builds the lost-and-found detail view.
func (b *Builder) LostFoundDetail(item model.LostFoundItem) LostFoundDetail {
	return LostFoundDetail{
		LostFoundCard: b.LostFoundCard(item),
		ContactInfo:   item.ContactInfo,
		Status:        LostFoundStatusBadge(item),
		Posted:        b.relative(item.PostedAt()),
	}
}

// ReportCard builds a pending report card.
func (b *Builder) ReportCard(r model.Report) ReportCard {
	short := r.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return ReportCard{
		ID:            r.ID,
		ShortID:       short,
		Reason:        r.Reason,
		Created:       DateTime(r.CreatedAt, b.loc),
		Reporter:      r.ReporterName,
		ReporterEmail: r.ReporterEmail,
		HasUser:       r.ReportedUserID != "",
		UserID:        r.ReportedUserID,
		UserName:      r.ReportedUserName,
		UserEmail:     r.ReportedUserEmail,
		HasItem:       r.ReportedItemID != "",
		ItemID:        r.ReportedItemID,
		ItemTitle:     r.ItemTitle,
		ItemType:      string(r.ItemType),
		Description:   Fallback(r.Description, "No additional details provided"),
	}
}

// UserRow builds an admin users table row.
func (b *Builder) UserRow(u model.User) UserRow {
	return UserRow{
		ID:          u.ID,
		StudentID:   u.StudentID,
		FullName:    u.FullName,
		Email:       u.Email,
		Department:  Fallback(u.Department, "N/A"),
		Listings:    u.TotalListings,
		Rating:      Rating(u.Rating),
		ReviewCount: ReviewCount(u.TotalReviews),
		Verified:    u.IsVerified,
		Blocked:     u.IsBlocked,
		Status:      UserBadge(u),
		Avatar:      Fallback(u.AvatarURL(), DefaultAvatar),
	}
}

// DuplicateGroup builds a duplicate group.
func (b *Builder) DuplicateGroup(g model.DuplicateGroup) DuplicateGroupView {
	items := make([]DuplicateItem, 0, len(g.Items))
	for _, it := range g.Items {
		items = append(items, DuplicateItem{
			ID:       it.ID,
			Title:    it.Title,
			Price:    FormatPrice(it.Price, CurrencyRs),
			Seller:   it.SellerName,
			Posted:   DateTime(it.CreatedAt, b.loc),
			ImageURL: it.ImageURL,
		})
	}
	return DuplicateGroupView{Count: len(g.Items), Items: items}
}

// LogEntry builds an activity log line.
func (b *Builder) LogEntry(e model.ActivityLogEntry) LogEntryView {
	return LogEntryView{
		Style:       StyleFor(e.ActionType),
		Description: e.Description,
		Admin:       e.AdminName,
		When:        DateTime(e.CreatedAt, b.loc),
		IP:          e.IPAddress,
	}
}

// MarketplaceListing builds a profile card for an own marketplace item.
func (b *Builder) MarketplaceListing(item model.MarketplaceItem) ListingCard {
	next := string(model.StatusSold)
	if item.Status == model.StatusSold {
		next = string(model.StatusAvailable)
	}
	return ListingCard{
		ID:          item.ID,
		Kind:        model.KindMarketplace,
		Title:       item.Title,
		Price:       FormatPrice(item.Price, CurrencyNPR),
		Status:      string(item.Status),
		StatusClass: MarketplaceListingClass(item.Status),
		ImageURL:    Fallback(item.ImageURL, PlaceholderListing),
		NextStatus:  next,
	}
}

// LostFoundListing builds a profile card for an own lost-and-found post.
func (b *Builder) LostFoundListing(item model.LostFoundItem) ListingCard {
	next := string(model.StatusResolved)
	if item.Status == model.StatusResolved {
		next = string(model.StatusActive)
	}
	return ListingCard{
		ID:          item.ID,
		Kind:        model.KindLostFound,
		Title:       item.Title,
		Status:      string(item.Status),
		StatusClass: LostFoundListingClass(item.Status),
		ImageURL:    Fallback(item.ImageURL, PlaceholderListing),
		NextStatus:  next,
	}
}

// Favorite builds a favorite card.
func (b *Builder) Favorite(f model.Favorite) FavoriteCard {
	return FavoriteCard{
		ID:       f.ID,
		ItemID:   f.ItemID,
		Kind:     f.ItemType,
		Title:    f.Title,
		Price:    FormatPrice(f.Price, CurrencyNPR),
		ImageURL: Fallback(f.ImageURL, PlaceholderListing),
	}
}

// Review builds a review line with five star slots.
func (b *Builder) Review(r model.Review) ReviewView {
	stars := make([]bool, 5)
	for i := range stars {
		stars[i] = i < r.Rating
	}
	return ReviewView{
		Reviewer: r.ReviewerName,
		Stars:    stars,
		Comment:  r.Comment,
		When:     b.relative(r.CreatedAt),
	}
}

// Profile builds a profile header. own marks the signed-in user's page.
func (b *Builder) Profile(u model.User, own bool) ProfileView {
	return ProfileView{
		ID:            u.ID,
		Name:          Fallback(u.FullName, "User"),
		Email:         u.Email,
		Phone:         Fallback(u.PhoneNumber, "Not provided"),
		StudentID:     Fallback(u.StudentID, "Not provided"),
		Department:    u.Department,
		Bio:           u.Bio,
		Avatar:        Fallback(u.AvatarURL(), DefaultAvatar),
		TotalListings: u.TotalListings,
		ActiveSales:   u.ActiveSales,
		TotalSold:     u.TotalSold,
		Rating:        Rating(u.Rating),
		ReviewCount:   ReviewCount(u.TotalReviews),
		Verified:      u.IsVerified,
		Own:           own,
	}
}

// Detail wraps a detail view with what the viewer may do.
type Detail[T any] struct {
	Item     T
	SignedIn bool
	Admin    bool
}
