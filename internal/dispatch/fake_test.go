package dispatch

import (
	"context"
	"net/url"
	"sync"

	"github.com/erazemk/unifind/internal/gateway"
	"github.com/erazemk/unifind/internal/model"
)

// fakeBackend records calls and returns canned data.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error

	marketplace []model.MarketplaceItem
	users       []model.User
	stats       model.Stats

	// hooks run inside the named call, before it returns.
	hooks map[string]func()
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{fail: map[string]error{}, hooks: map[string]func(){}}
}

func (f *fakeBackend) record(name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	err := f.fail[name]
	hook := f.hooks[name]
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return err
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) ListMarketplaceItems(ctx context.Context, opts gateway.ListOptions) ([]model.MarketplaceItem, error) {
	if err := f.record("ListMarketplaceItems"); err != nil {
		return nil, err
	}
	return f.marketplace, nil
}

func (f *fakeBackend) ListLostFoundItems(ctx context.Context, opts gateway.ListOptions) ([]model.LostFoundItem, error) {
	return nil, f.record("ListLostFoundItems")
}

func (f *fakeBackend) CreateMarketplaceItem(ctx context.Context, item model.MarketplaceItem) (*model.MarketplaceItem, error) {
	if err := f.record("CreateMarketplaceItem"); err != nil {
		return nil, err
	}
	item.ID = "new-1"
	return &item, nil
}

func (f *fakeBackend) CreateLostFoundItem(ctx context.Context, item model.LostFoundItem) (*model.LostFoundItem, error) {
	if err := f.record("CreateLostFoundItem"); err != nil {
		return nil, err
	}
	item.ID = "new-lf"
	return &item, nil
}

func (f *fakeBackend) DeleteItem(ctx context.Context, kind model.ItemKind, id string) error {
	return f.record("DeleteItem")
}

func (f *fakeBackend) UpdateItemStatus(ctx context.Context, kind model.ItemKind, id, status string) error {
	return f.record("UpdateItemStatus")
}

func (f *fakeBackend) UserMarketplaceItems(ctx context.Context, userID string) ([]model.MarketplaceItem, error) {
	return nil, f.record("UserMarketplaceItems")
}

func (f *fakeBackend) UserLostFoundItems(ctx context.Context, userID string) ([]model.LostFoundItem, error) {
	return nil, f.record("UserLostFoundItems")
}

func (f *fakeBackend) UpdateUser(ctx context.Context, id string, upd model.ProfileUpdate) (*model.User, error) {
	if err := f.record("UpdateUser"); err != nil {
		return nil, err
	}
	return &model.User{ID: id, FullName: upd.FullName}, nil
}

func (f *fakeBackend) ChangePassword(ctx context.Context, current, next string) error {
	return f.record("ChangePassword")
}

func (f *fakeBackend) UserFavorites(ctx context.Context, userID string) ([]model.Favorite, error) {
	return nil, f.record("UserFavorites")
}

func (f *fakeBackend) UserReviews(ctx context.Context, userID string) ([]model.Review, error) {
	return nil, f.record("UserReviews")
}

func (f *fakeBackend) AddFavorite(ctx context.Context, itemID string, kind model.ItemKind) error {
	return f.record("AddFavorite")
}

func (f *fakeBackend) RemoveFavorite(ctx context.Context, favoriteID string) error {
	return f.record("RemoveFavorite")
}

func (f *fakeBackend) SubmitReport(ctx context.Context, r model.NewReport) error {
	return f.record("SubmitReport")
}

func (f *fakeBackend) SubmitReview(ctx context.Context, r model.NewReview) error {
	return f.record("SubmitReview")
}

func (f *fakeBackend) Stats(ctx context.Context) (*model.Stats, error) {
	if err := f.record("Stats"); err != nil {
		return nil, err
	}
	s := f.stats
	return &s, nil
}

func (f *fakeBackend) Reports(ctx context.Context, status model.ReportStatus) ([]model.Report, error) {
	return nil, f.record("Reports")
}

func (f *fakeBackend) TakeReportAction(ctx context.Context, id, action string) error {
	return f.record("TakeReportAction")
}

func (f *fakeBackend) DismissReport(ctx context.Context, id string) error {
	return f.record("DismissReport")
}

func (f *fakeBackend) ResolveReport(ctx context.Context, id, notes string) error {
	return f.record("ResolveReport")
}

// Users answers with the users as they were when the call arrived.
func (f *fakeBackend) Users(ctx context.Context, filters url.Values) ([]model.User, error) {
	f.mu.Lock()
	users := f.users
	f.mu.Unlock()
	if err := f.record("Users"); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (f *fakeBackend) CreateUser(ctx context.Context, u model.NewUser) (*model.User, error) {
	if err := f.record("CreateUser"); err != nil {
		return nil, err
	}
	return &model.User{ID: "u-new", Email: u.Email}, nil
}

func (f *fakeBackend) BlockUser(ctx context.Context, id, reason string) error {
	return f.record("BlockUser")
}

func (f *fakeBackend) UnblockUser(ctx context.Context, id string) error {
	return f.record("UnblockUser")
}

func (f *fakeBackend) VerifyUser(ctx context.Context, id string) error {
	return f.record("VerifyUser")
}

func (f *fakeBackend) Duplicates(ctx context.Context) ([]model.DuplicateGroup, error) {
	return nil, f.record("Duplicates")
}

func (f *fakeBackend) AdminDeleteItem(ctx context.Context, kind model.ItemKind, id string) error {
	return f.record("AdminDeleteItem")
}

func (f *fakeBackend) ActivityLogs(ctx context.Context, filters url.Values) ([]model.ActivityLogEntry, error) {
	return nil, f.record("ActivityLogs")
}
