package model

// ItemKind selects the endpoint family for an item.
type ItemKind string

// Item kinds.
const (
	KindMarketplace ItemKind = "marketplace"
	KindLostFound   ItemKind = "lost-found"
)

// ParseItemKind validates a kind taken from a URL.
func ParseItemKind(s string) (ItemKind, bool) {
	switch ItemKind(s) {
	case KindMarketplace:
		return KindMarketplace, true
	case KindLostFound:
		return KindLostFound, true
	default:
		return "", false
	}
}

// MarketplaceStatus is the sale state of a marketplace listing.
type MarketplaceStatus string

// Marketplace statuses.
const (
	StatusAvailable MarketplaceStatus = "Available"
	StatusSold      MarketplaceStatus = "Sold"
)

// MarketplaceItem is a listing in the campus marketplace.
type MarketplaceItem struct {
	ID            string            `json:"id,omitempty"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Price         float64           `json:"price"`
	Category      string            `json:"category"`
	Condition     string            `json:"condition"`
	SellerName    string            `json:"seller_name"`
	SellerContact string            `json:"seller_contact"`
	ImageURL      string            `json:"image_url,omitempty"`
	Status        MarketplaceStatus `json:"status"`
	PostedDate    Timestamp         `json:"posted_date,omitzero"`
	CreatedAt     Timestamp         `json:"created_at,omitzero"`
}

// PostedAt returns the posting date, falling back to the creation time.
func (i MarketplaceItem) PostedAt() Timestamp {
	return i.PostedDate.Or(i.CreatedAt)
}

// LostFoundType tells whether an item was lost or found.
type LostFoundType string

// Lost-and-found types.
const (
	TypeLost  LostFoundType = "Lost"
	TypeFound LostFoundType = "Found"
)

// LostFoundStatus is the resolution state of a lost-and-found post.
type LostFoundStatus string

// Lost-and-found statuses.
const (
	StatusActive   LostFoundStatus = "Active"
	StatusResolved LostFoundStatus = "Resolved"
)

// LostFoundItem is a lost-and-found post.
type LostFoundItem struct {
	ID          string          `json:"id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        LostFoundType   `json:"type"`
	Category    string          `json:"category"`
	Location    string          `json:"location"`
	Date        Timestamp       `json:"date,omitzero"`
	ContactName string          `json:"contact_name"`
	ContactInfo string          `json:"contact_info"`
	ImageURL    string          `json:"image_url,omitempty"`
	Status      LostFoundStatus `json:"status"`
	PostedDate  Timestamp       `json:"posted_date,omitzero"`
	CreatedAt   Timestamp       `json:"created_at,omitzero"`
}

// PostedAt returns the posting date, falling back to the creation time.
func (i LostFoundItem) PostedAt() Timestamp {
	return i.PostedDate.Or(i.CreatedAt)
}

// DuplicateGroup is a set of listings the backend considers near-duplicates.
type DuplicateGroup struct {
	Items []MarketplaceItem `json:"items"`
}

// Categories offered by the post forms and the category filter.
var Categories = []string{
	"Electronics",
	"Books",
	"Clothing",
	"Furniture",
	"Sports",
	"Stationery",
	"Accessories",
	"Documents",
	"Keys",
	"Other",
}

// Conditions offered by the marketplace post form.
var Conditions = []string{
	"New",
	"Like New",
	"Good",
	"Fair",
	"Poor",
}

// SearchFields returns the fields the text search looks at.
func (i MarketplaceItem) SearchFields() (title, description string) {
	return i.Title, i.Description
}

// CategoryName returns the item's category.
func (i MarketplaceItem) CategoryName() string { return i.Category }

// HasStatus reports whether the item's status equals s.
func (i MarketplaceItem) HasStatus(s string) bool {
	return string(i.Status) == s
}

// SearchFields returns the fields the text search looks at.
func (i LostFoundItem) SearchFields() (title, description string) {
	return i.Title, i.Description
}

// CategoryName returns the item's category.
func (i LostFoundItem) CategoryName() string { return i.Category }

// HasStatus reports whether either the type or the status equals s, so a
// single selector covers Lost, Found, Active and Resolved.
func (i LostFoundItem) HasStatus(s string) bool {
	return string(i.Type) == s || string(i.Status) == s
}
