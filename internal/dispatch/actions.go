package dispatch

import (
	"context"

	"github.com/erazemk/unifind/internal/collection"
	"github.com/erazemk/unifind/internal/model"
)

// Action is one user-triggered mutation.
type Action interface {
	// Name labels the action in logs.
	Name() string
	// Key identifies the action and its target; two submissions with the
	// same key never run at once.
	Key() string
	// Prompt is the confirmation question, or "" when none is needed.
	Prompt() string
	// Execute performs the backend call.
	Execute(ctx context.Context, b Backend) error
	// Affects lists the collections to re-fetch after success, in order.
	Affects() []collection.Name
	// Success is the notice shown after success.
	Success() string
}

// Applier is implemented by actions that change local state after a
// successful backend call and before the re-fetch.
type Applier interface {
	Apply(st *collection.State)
}

func listingCollections(kind model.ItemKind) (public, own collection.Name) {
	if kind == model.KindLostFound {
		return collection.LostFound, collection.MyLostFound
	}
	return collection.Marketplace, collection.MyListings
}

// TakeReportAction applies a moderation action to a report.
type TakeReportAction struct {
	ReportID string
	Action   string
}

func (a TakeReportAction) Name() string   { return "report_action" }
func (a TakeReportAction) Key() string    { return "report:" + a.ReportID }
func (a TakeReportAction) Prompt() string { return "" }
func (a TakeReportAction) Success() string {
	return "Action taken successfully"
}

func (a TakeReportAction) Execute(ctx context.Context, b Backend) error {
	return b.TakeReportAction(ctx, a.ReportID, a.Action)
}

func (a TakeReportAction) Affects() []collection.Name {
	return []collection.Name{collection.Reports, collection.Stats}
}

// DismissReport marks a report dismissed.
type DismissReport struct {
	ReportID string
}

func (a DismissReport) Name() string { return "report_dismiss" }
func (a DismissReport) Key() string  { return "report:" + a.ReportID }
func (a DismissReport) Prompt() string {
	return "Are you sure you want to dismiss this report?"
}
func (a DismissReport) Success() string { return "Report dismissed" }

func (a DismissReport) Execute(ctx context.Context, b Backend) error {
	return b.DismissReport(ctx, a.ReportID)
}

// Affects includes stats: the pending count changes.
func (a DismissReport) Affects() []collection.Name {
	return []collection.Name{collection.Reports, collection.Stats}
}

// ResolveReport closes a report.
type ResolveReport struct {
	ReportID string
	Notes    string
}

func (a ResolveReport) Name() string    { return "report_resolve" }
func (a ResolveReport) Key() string     { return "report:" + a.ReportID }
func (a ResolveReport) Prompt() string  { return "" }
func (a ResolveReport) Success() string { return "Report resolved" }

func (a ResolveReport) Execute(ctx context.Context, b Backend) error {
	return b.ResolveReport(ctx, a.ReportID, a.Notes)
}

func (a ResolveReport) Affects() []collection.Name {
	return []collection.Name{collection.Reports, collection.Stats}
}

// BlockUser blocks an account.
type BlockUser struct {
	UserID string
	Reason string
}

func (a BlockUser) Name() string    { return "user_block" }
func (a BlockUser) Key() string     { return "user:" + a.UserID }
func (a BlockUser) Prompt() string  { return "Are you sure you want to block this user?" }
func (a BlockUser) Success() string { return "User blocked successfully" }

func (a BlockUser) Execute(ctx context.Context, b Backend) error {
	return b.BlockUser(ctx, a.UserID, a.Reason)
}

func (a BlockUser) Affects() []collection.Name {
	return []collection.Name{collection.Users, collection.Stats}
}

// UnblockUser lifts a block.
type UnblockUser struct {
	UserID string
}

func (a UnblockUser) Name() string    { return "user_unblock" }
func (a UnblockUser) Key() string     { return "user:" + a.UserID }
func (a UnblockUser) Prompt() string  { return "Are you sure you want to unblock this user?" }
func (a UnblockUser) Success() string { return "User unblocked successfully" }

func (a UnblockUser) Execute(ctx context.Context, b Backend) error {
	return b.UnblockUser(ctx, a.UserID)
}

func (a UnblockUser) Affects() []collection.Name {
	return []collection.Name{collection.Users, collection.Stats}
}

// VerifyUser marks an account verified.
type VerifyUser struct {
	UserID string
}

func (a VerifyUser) Name() string    { return "user_verify" }
func (a VerifyUser) Key() string     { return "user:" + a.UserID }
func (a VerifyUser) Prompt() string  { return "" }
func (a VerifyUser) Success() string { return "User verified successfully" }

func (a VerifyUser) Execute(ctx context.Context, b Backend) error {
	return b.VerifyUser(ctx, a.UserID)
}

func (a VerifyUser) Affects() []collection.Name {
	return []collection.Name{collection.Users}
}

// CreateUser adds an account from the admin panel.
type CreateUser struct {
	User model.NewUser

	created *model.User
}

func (a *CreateUser) Name() string    { return "user_create" }
func (a *CreateUser) Key() string     { return "user-create:" + a.User.Email }
func (a *CreateUser) Prompt() string  { return "" }
func (a *CreateUser) Success() string { return "User created successfully" }

func (a *CreateUser) Execute(ctx context.Context, b Backend) error {
	u, err := b.CreateUser(ctx, a.User)
	if err != nil {
		return err
	}
	a.created = u
	return nil
}

func (a *CreateUser) Apply(st *collection.State) {
	if a.created != nil && st.Users.Loaded() {
		st.Users.Prepend(*a.created)
	}
}

func (a *CreateUser) Affects() []collection.Name {
	return []collection.Name{collection.Users, collection.Stats}
}

// AdminDeleteItem removes any listing from the admin panel.
type AdminDeleteItem struct {
	Kind   model.ItemKind
	ItemID string
}

func (a AdminDeleteItem) Name() string { return "item_delete" }
func (a AdminDeleteItem) Key() string  { return "item:" + string(a.Kind) + ":" + a.ItemID }
func (a AdminDeleteItem) Prompt() string {
	return "Are you sure you want to delete this item? This action cannot be undone."
}
func (a AdminDeleteItem) Success() string { return "Item deleted successfully" }

func (a AdminDeleteItem) Execute(ctx context.Context, b Backend) error {
	return b.AdminDeleteItem(ctx, a.Kind, a.ItemID)
}

func (a AdminDeleteItem) Affects() []collection.Name {
	public, _ := listingCollections(a.Kind)
	return []collection.Name{collection.Duplicates, collection.Stats, public}
}

// CreateMarketplaceItem posts a listing.
type CreateMarketplaceItem struct {
	Item model.MarketplaceItem

	created *model.MarketplaceItem
}

func (a *CreateMarketplaceItem) Name() string    { return "marketplace_create" }
func (a *CreateMarketplaceItem) Key() string     { return "marketplace-create:" + a.Item.Title }
func (a *CreateMarketplaceItem) Prompt() string  { return "" }
func (a *CreateMarketplaceItem) Success() string { return "Item posted successfully!" }

func (a *CreateMarketplaceItem) Execute(ctx context.Context, b Backend) error {
	created, err := b.CreateMarketplaceItem(ctx, a.Item)
	if err != nil {
		return err
	}
	a.created = created
	return nil
}

// Apply shows the new listing at the head of the list before the re-fetch.
func (a *CreateMarketplaceItem) Apply(st *collection.State) {
	if a.created == nil {
		return
	}
	if st.Marketplace.Loaded() {
		st.Marketplace.Prepend(*a.created)
	}
	if st.MyListings.Loaded() {
		st.MyListings.Prepend(*a.created)
	}
}

func (a *CreateMarketplaceItem) Affects() []collection.Name {
	return []collection.Name{collection.Marketplace, collection.MyListings}
}

// Created returns the stored listing after a successful Execute.
func (a *CreateMarketplaceItem) Created() *model.MarketplaceItem { return a.created }

// CreateLostFoundItem posts a lost-and-found report.
type CreateLostFoundItem struct {
	Item model.LostFoundItem

	created *model.LostFoundItem
}

func (a *CreateLostFoundItem) Name() string    { return "lost_found_create" }
func (a *CreateLostFoundItem) Key() string     { return "lost-found-create:" + a.Item.Title }
func (a *CreateLostFoundItem) Prompt() string  { return "" }
func (a *CreateLostFoundItem) Success() string { return "Item posted successfully!" }

func (a *CreateLostFoundItem) Execute(ctx context.Context, b Backend) error {
	created, err := b.CreateLostFoundItem(ctx, a.Item)
	if err != nil {
		return err
	}
	a.created = created
	return nil
}

func (a *CreateLostFoundItem) Apply(st *collection.State) {
	if a.created == nil {
		return
	}
	if st.LostFound.Loaded() {
		st.LostFound.Prepend(*a.created)
	}
	if st.MyLostFound.Loaded() {
		st.MyLostFound.Prepend(*a.created)
	}
}

func (a *CreateLostFoundItem) Affects() []collection.Name {
	return []collection.Name{collection.LostFound, collection.MyLostFound}
}

// DeleteOwnItem removes one of the user's own listings.
type DeleteOwnItem struct {
	Kind   model.ItemKind
	ItemID string
}

func (a DeleteOwnItem) Name() string    { return "own_item_delete" }
func (a DeleteOwnItem) Key() string     { return "item:" + string(a.Kind) + ":" + a.ItemID }
func (a DeleteOwnItem) Prompt() string  { return "Are you sure you want to delete this item?" }
func (a DeleteOwnItem) Success() string { return "Item deleted successfully" }

func (a DeleteOwnItem) Execute(ctx context.Context, b Backend) error {
	return b.DeleteItem(ctx, a.Kind, a.ItemID)
}

func (a DeleteOwnItem) Affects() []collection.Name {
	public, own := listingCollections(a.Kind)
	return []collection.Name{own, public}
}

// UpdateItemStatus changes the status of an own listing.
type UpdateItemStatus struct {
	Kind   model.ItemKind
	ItemID string
	Status string
}

func (a UpdateItemStatus) Name() string    { return "item_status" }
func (a UpdateItemStatus) Key() string     { return "item:" + string(a.Kind) + ":" + a.ItemID }
func (a UpdateItemStatus) Prompt() string  { return "" }
func (a UpdateItemStatus) Success() string { return "Status updated to " + a.Status }

func (a UpdateItemStatus) Execute(ctx context.Context, b Backend) error {
	return b.UpdateItemStatus(ctx, a.Kind, a.ItemID, a.Status)
}

func (a UpdateItemStatus) Affects() []collection.Name {
	public, own := listingCollections(a.Kind)
	return []collection.Name{own, public}
}

// AddFavorite saves an item.
type AddFavorite struct {
	ItemID string
	Kind   model.ItemKind
}

func (a AddFavorite) Name() string    { return "favorite_add" }
func (a AddFavorite) Key() string     { return "favorite:" + string(a.Kind) + ":" + a.ItemID }
func (a AddFavorite) Prompt() string  { return "" }
func (a AddFavorite) Success() string { return "Added to favorites" }

func (a AddFavorite) Execute(ctx context.Context, b Backend) error {
	return b.AddFavorite(ctx, a.ItemID, a.Kind)
}

func (a AddFavorite) Affects() []collection.Name {
	return []collection.Name{collection.Favorites}
}

// RemoveFavorite deletes a saved item.
type RemoveFavorite struct {
	FavoriteID string
}

func (a RemoveFavorite) Name() string    { return "favorite_remove" }
func (a RemoveFavorite) Key() string     { return "favorite:" + a.FavoriteID }
func (a RemoveFavorite) Prompt() string  { return "Remove this item from favorites?" }
func (a RemoveFavorite) Success() string { return "Removed from favorites" }

func (a RemoveFavorite) Execute(ctx context.Context, b Backend) error {
	return b.RemoveFavorite(ctx, a.FavoriteID)
}

func (a RemoveFavorite) Affects() []collection.Name {
	return []collection.Name{collection.Favorites}
}

// SubmitReport flags a user or an item.
type SubmitReport struct {
	Report model.NewReport
}

func (a SubmitReport) Name() string { return "report_submit" }
func (a SubmitReport) Key() string {
	return "report-submit:" + a.Report.ReportedUserID + ":" + a.Report.ReportedItemID
}
func (a SubmitReport) Prompt() string  { return "" }
func (a SubmitReport) Success() string { return "Report submitted successfully!" }

func (a SubmitReport) Execute(ctx context.Context, b Backend) error {
	return b.SubmitReport(ctx, a.Report)
}

func (a SubmitReport) Affects() []collection.Name {
	return []collection.Name{collection.Reports, collection.Stats}
}

// SubmitReview leaves a review for another user.
type SubmitReview struct {
	Review model.NewReview
}

func (a SubmitReview) Name() string    { return "review_submit" }
func (a SubmitReview) Key() string     { return "review:" + a.Review.ReviewedUserID }
func (a SubmitReview) Prompt() string  { return "" }
func (a SubmitReview) Success() string { return "Review submitted successfully!" }

func (a SubmitReview) Execute(ctx context.Context, b Backend) error {
	return b.SubmitReview(ctx, a.Review)
}

func (a SubmitReview) Affects() []collection.Name {
	return []collection.Name{collection.Reviews}
}

// UpdateProfile saves profile edits. OnSaved receives the updated profile
// so the caller can refresh its stored copy.
type UpdateProfile struct {
	UserID  string
	Update  model.ProfileUpdate
	OnSaved func(*model.User)
}

func (a UpdateProfile) Name() string    { return "profile_update" }
func (a UpdateProfile) Key() string     { return "profile:" + a.UserID }
func (a UpdateProfile) Prompt() string  { return "" }
func (a UpdateProfile) Success() string { return "Profile updated successfully!" }

func (a UpdateProfile) Execute(ctx context.Context, b Backend) error {
	u, err := b.UpdateUser(ctx, a.UserID, a.Update)
	if err != nil {
		return err
	}
	if a.OnSaved != nil {
		a.OnSaved(u)
	}
	return nil
}

func (a UpdateProfile) Affects() []collection.Name {
	return []collection.Name{collection.Users}
}

// ChangePassword forwards a password change.
type ChangePassword struct {
	UserID  string
	Current string
	New     string
}

func (a ChangePassword) Name() string    { return "password_change" }
func (a ChangePassword) Key() string     { return "password:" + a.UserID }
func (a ChangePassword) Prompt() string  { return "" }
func (a ChangePassword) Success() string { return "Password changed successfully!" }

func (a ChangePassword) Execute(ctx context.Context, b Backend) error {
	return b.ChangePassword(ctx, a.Current, a.New)
}

func (a ChangePassword) Affects() []collection.Name { return nil }
