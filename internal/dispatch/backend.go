package dispatch

import (
	"context"
	"net/url"

	"github.com/erazemk/unifind/internal/gateway"
	"github.com/erazemk/unifind/internal/model"
)

// Backend is the part of the gateway the dispatcher and refresher use.
// *gateway.Client implements it.
type Backend interface {
	ListMarketplaceItems(ctx context.Context, opts gateway.ListOptions) ([]model.MarketplaceItem, error)
	ListLostFoundItems(ctx context.Context, opts gateway.ListOptions) ([]model.LostFoundItem, error)
	CreateMarketplaceItem(ctx context.Context, item model.MarketplaceItem) (*model.MarketplaceItem, error)
	CreateLostFoundItem(ctx context.Context, item model.LostFoundItem) (*model.LostFoundItem, error)
	DeleteItem(ctx context.Context, kind model.ItemKind, id string) error
	UpdateItemStatus(ctx context.Context, kind model.ItemKind, id, status string) error
	UserMarketplaceItems(ctx context.Context, userID string) ([]model.MarketplaceItem, error)
	UserLostFoundItems(ctx context.Context, userID string) ([]model.LostFoundItem, error)

	UpdateUser(ctx context.Context, id string, upd model.ProfileUpdate) (*model.User, error)
	ChangePassword(ctx context.Context, current, next string) error
	UserFavorites(ctx context.Context, userID string) ([]model.Favorite, error)
	UserReviews(ctx context.Context, userID string) ([]model.Review, error)
	AddFavorite(ctx context.Context, itemID string, kind model.ItemKind) error
	RemoveFavorite(ctx context.Context, favoriteID string) error
	SubmitReport(ctx context.Context, r model.NewReport) error
	SubmitReview(ctx context.Context, r model.NewReview) error

	Stats(ctx context.Context) (*model.Stats, error)
	Reports(ctx context.Context, status model.ReportStatus) ([]model.Report, error)
	TakeReportAction(ctx context.Context, id, action string) error
	DismissReport(ctx context.Context, id string) error
	ResolveReport(ctx context.Context, id, notes string) error
	Users(ctx context.Context, filters url.Values) ([]model.User, error)
	CreateUser(ctx context.Context, u model.NewUser) (*model.User, error)
	BlockUser(ctx context.Context, id, reason string) error
	UnblockUser(ctx context.Context, id string) error
	VerifyUser(ctx context.Context, id string) error
	Duplicates(ctx context.Context) ([]model.DuplicateGroup, error)
	AdminDeleteItem(ctx context.Context, kind model.ItemKind, id string) error
	ActivityLogs(ctx context.Context, filters url.Values) ([]model.ActivityLogEntry, error)
}

var _ Backend = (*gateway.Client)(nil)
