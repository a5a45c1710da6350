package web

import (
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/unifind/internal/collection"
	"github.com/erazemk/unifind/internal/dispatch"
	"github.com/erazemk/unifind/internal/gateway"
	"github.com/erazemk/unifind/internal/model"
	"github.com/erazemk/unifind/internal/view"
)

type profilePage struct {
	PageData
	Own       bool
	Profile   view.ProfileView
	Header    template.HTML
	Listings  template.HTML
	Favorites template.HTML
	Reviews   template.HTML

	Edit       profileForm
	EditError  string
	PassError  string
	ReviewForm reviewForm
}

// ProfilePage handles GET /profile, or another user's profile with ?id=.
func (s *Server) ProfilePage(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	id := r.URL.Query().Get("id")
	if id == "" || id == v.userID() {
		s.renderOwnProfile(w, r, v, &profilePage{}, http.StatusOK)
		return
	}
	s.renderOtherProfile(w, r, v, id, reviewForm{}, "", http.StatusOK)
}

func (s *Server) renderOwnProfile(w http.ResponseWriter, r *http.Request, v *visit, p *profilePage, status int) {
	u := v.user()
	v.state.SetReviewsOf(u.ID)
	if !s.load(w, r, v, status == http.StatusOK,
		collection.MyListings, collection.MyLostFound, collection.Favorites, collection.Reviews) {
		return
	}

	p.PageData = s.page(v, "My Profile", "profile")
	p.Own = true
	p.Profile = s.Builder.Profile(*u, true)
	p.Header = s.partial(view.PartialProfile, p.Profile)
	p.Listings = s.partial(view.PartialListings,
		s.Builder.ListingsSection(v.state.MyListings.Snapshot(), v.state.MyLostFound.Snapshot()))
	p.Favorites = s.partial(view.PartialFavorites, s.Builder.FavoritesSection(v.state.Favorites.Snapshot()))
	p.Reviews = s.partial(view.PartialReviews, s.Builder.ReviewsSection(v.state.Reviews.Snapshot()))
	if p.Edit == (profileForm{}) {
		p.Edit = profileForm{FullName: u.FullName, PhoneNumber: u.PhoneNumber, Bio: u.Bio}
	}
	s.Templates.Render(w, status, "profile.html", p)
}

func (s *Server) renderOtherProfile(w http.ResponseWriter, r *http.Request, v *visit, id string, form reviewForm, reviewErr string, status int) {
	user, err := s.Gateway.WithCredential(v).GetUser(r.Context(), id)
	if err != nil {
		switch {
		case gateway.IsUnauthorized(err):
			s.endSession(w, r, v)
		case notFound(err):
			http.Error(w, "user not found", http.StatusNotFound)
		default:
			s.Logger.Warn("failed to load profile", zap.String("user", id), zap.Error(err))
			flashError(v, gateway.Message(err))
			http.Redirect(w, r, "/", http.StatusSeeOther)
		}
		return
	}

	v.state.SetReviewsOf(id)
	if !s.load(w, r, v, true, collection.Reviews) {
		return
	}

	p := &profilePage{
		PageData:   s.page(v, user.FullName, "profile"),
		Profile:    s.Builder.Profile(*user, false),
		ReviewForm: form,
	}
	p.Error = reviewErr
	p.Header = s.partial(view.PartialProfile, p.Profile)
	p.Reviews = s.partial(view.PartialReviews, s.Builder.ReviewsSection(v.state.Reviews.Snapshot()))
	s.Templates.Render(w, status, "profile.html", p)
}

// ProfileSubmit handles POST /profile.
func (s *Server) ProfileSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	ctx := r.Context()
	form, msg := parseProfileForm(r)

	if msg == "" {
		var done bool
		msg, done = s.submitForm(w, r, v, dispatch.UpdateProfile{
			UserID: v.userID(),
			Update: form.update(),
			OnSaved: func(u *model.User) {
				if err := s.Sessions.UpdateProfile(ctx, v.id, u); err != nil {
					s.Logger.Error("failed to store updated profile", zap.Error(err))
				}
			},
		})
		if done {
			return
		}
	}
	if msg != "" {
		s.renderOwnProfile(w, r, v, &profilePage{Edit: form, EditError: msg}, http.StatusUnprocessableEntity)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// PasswordSubmit handles POST /profile/password.
func (s *Server) PasswordSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	form, msg := parsePasswordForm(r)

	if msg == "" {
		var done bool
		msg, done = s.submitForm(w, r, v, dispatch.ChangePassword{
			UserID:  v.userID(),
			Current: form.Current,
			New:     form.New,
		})
		if done {
			return
		}
	}
	if msg != "" {
		s.renderOwnProfile(w, r, v, &profilePage{PassError: msg}, http.StatusUnprocessableEntity)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func notFound(err error) bool {
	var gwErr *gateway.Error
	return errors.As(err, &gwErr) && gwErr.Kind == gateway.KindServer && gwErr.Status == http.StatusNotFound
}

func listingTarget(w http.ResponseWriter, r *http.Request) (model.ItemKind, string, bool) {
	kind, ok := model.ParseItemKind(r.PathValue("kind"))
	if !ok {
		http.Error(w, "invalid item kind", http.StatusBadRequest)
		return "", "", false
	}
	return kind, r.PathValue("id"), true
}

func validStatus(kind model.ItemKind, status string) bool {
	if kind == model.KindLostFound {
		return status == string(model.StatusActive) || status == string(model.StatusResolved)
	}
	return status == string(model.StatusAvailable) || status == string(model.StatusSold)
}

// ListingStatusSubmit handles POST /listings/{kind}/{id}/status.
func (s *Server) ListingStatusSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	kind, id, ok := listingTarget(w, r)
	if !ok {
		return
	}
	status := r.PostFormValue("status")
	if !validStatus(kind, status) {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	s.act(w, r, v, dispatch.UpdateItemStatus{Kind: kind, ItemID: id, Status: status}, "/profile")
}

// ListingDeleteSubmit handles POST /listings/{kind}/{id}/delete.
func (s *Server) ListingDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	kind, id, ok := listingTarget(w, r)
	if !ok {
		return
	}
	s.act(w, r, v, dispatch.DeleteOwnItem{Kind: kind, ItemID: id}, "/profile")
}

// FavoriteAddSubmit handles POST /favorites.
func (s *Server) FavoriteAddSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	kind, ok := model.ParseItemKind(r.PostFormValue("item_type"))
	itemID := r.PostFormValue("item_id")
	if !ok || itemID == "" {
		http.Error(w, "invalid item", http.StatusBadRequest)
		return
	}
	s.act(w, r, v, dispatch.AddFavorite{ItemID: itemID, Kind: kind}, backTo(r, "/profile"))
}

// FavoriteRemoveSubmit handles POST /favorites/{id}/delete.
func (s *Server) FavoriteRemoveSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	s.act(w, r, v, dispatch.RemoveFavorite{FavoriteID: r.PathValue("id")}, "/profile")
}

type reportPage struct {
	PageData
	Form    reportForm
	Reasons []string
	Back    string
}

func reportBack(f reportForm) string {
	switch {
	case f.ReportedItemID != "" && f.ItemType != "":
		return "/" + f.ItemType + "/" + f.ReportedItemID
	case f.ReportedUserID != "":
		return "/profile?id=" + f.ReportedUserID
	default:
		return "/"
	}
}

// ReportPage handles GET /reports/new?item_id=&item_type= or ?user_id=.
func (s *Server) ReportPage(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	q := r.URL.Query()
	form := reportForm{
		ReportedUserID: q.Get("user_id"),
		ReportedItemID: q.Get("item_id"),
		ItemType:       q.Get("item_type"),
	}
	if _, ok := model.ParseItemKind(form.ItemType); !ok {
		form.ItemType = ""
	}
	s.Templates.Render(w, http.StatusOK, "report.html", &reportPage{
		PageData: s.page(v, "Report", ""),
		Form:     form,
		Reasons:  model.ReportReasons,
		Back:     reportBack(form),
	})
}

// ReportSubmit handles POST /reports.
func (s *Server) ReportSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	form, msg := parseReportForm(r)
	if msg == "" {
		var done bool
		if msg, done = s.submitForm(w, r, v, dispatch.SubmitReport{Report: form.payload()}); done {
			return
		}
	}
	if msg != "" {
		p := &reportPage{
			PageData: s.page(v, "Report", ""),
			Form:     form,
			Reasons:  model.ReportReasons,
			Back:     reportBack(form),
		}
		p.Error = msg
		s.Templates.Render(w, http.StatusUnprocessableEntity, "report.html", p)
		return
	}
	http.Redirect(w, r, reportBack(form), http.StatusSeeOther)
}

// ReviewSubmit handles POST /reviews.
func (s *Server) ReviewSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	form, msg := parseReviewForm(r)
	if form.ReviewedUserID == "" || form.ReviewedUserID == v.userID() {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	if msg == "" {
		var done bool
		msg, done = s.submitForm(w, r, v, dispatch.SubmitReview{Review: model.NewReview{
			ReviewedUserID: form.ReviewedUserID,
			Rating:         form.Rating,
			Comment:        form.Comment,
		}})
		if done {
			return
		}
	}
	if msg != "" {
		s.renderOtherProfile(w, r, v, form.ReviewedUserID, form, msg, http.StatusUnprocessableEntity)
		return
	}
	http.Redirect(w, r, "/profile?id="+form.ReviewedUserID, http.StatusSeeOther)
}
