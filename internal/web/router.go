package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	webembed "github.com/erazemk/unifind/web"
)

// Handler returns the web router with all page routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	page := func(h http.HandlerFunc) http.Handler {
		return s.SessionMiddleware(h)
	}
	user := func(h http.HandlerFunc) http.Handler {
		return s.SessionMiddleware(s.RequireUser(h))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return s.SessionMiddleware(s.RequireAdmin(h))
	}

	// Static assets and operations.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	mux.HandleFunc("GET /healthz", s.Health)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	// Public routes.
	mux.Handle("GET /{$}", page(s.MarketplacePage))
	mux.Handle("GET /marketplace", page(s.MarketplacePage))
	mux.Handle("GET /marketplace/{id}", page(s.MarketplaceDetailPage))
	mux.Handle("GET /lost-found", page(s.LostFoundPage))
	mux.Handle("GET /lost-found/{id}", page(s.LostFoundDetailPage))
	mux.Handle("GET /post", page(s.PostPage))
	mux.Handle("POST /post/marketplace", page(s.PostMarketplaceSubmit))
	mux.Handle("POST /post/lost-found", page(s.PostLostFoundSubmit))

	mux.Handle("GET /login", page(s.LoginPage))
	mux.Handle("POST /login", page(s.LoginSubmit))
	mux.Handle("GET /signup", page(s.SignupPage))
	mux.Handle("POST /signup", page(s.SignupSubmit))
	mux.Handle("POST /logout", page(s.Logout))

	mux.Handle("GET /confirm/{id}", page(s.ConfirmPage))
	mux.Handle("POST /confirm/{id}", page(s.ConfirmSubmit))

	// Signed-in routes.
	mux.Handle("GET /profile", user(s.ProfilePage))
	mux.Handle("POST /profile", user(s.ProfileSubmit))
	mux.Handle("POST /profile/password", user(s.PasswordSubmit))
	mux.Handle("POST /listings/{kind}/{id}/status", user(s.ListingStatusSubmit))
	mux.Handle("POST /listings/{kind}/{id}/delete", user(s.ListingDeleteSubmit))
	mux.Handle("POST /favorites", user(s.FavoriteAddSubmit))
	mux.Handle("POST /favorites/{id}/delete", user(s.FavoriteRemoveSubmit))
	mux.Handle("GET /reports/new", user(s.ReportPage))
	mux.Handle("POST /reports", user(s.ReportSubmit))
	mux.Handle("POST /reviews", user(s.ReviewSubmit))

	// Admin routes.
	mux.Handle("GET /admin", admin(s.AdminPage))
	mux.Handle("POST /admin/reports/{id}/action", admin(s.ReportActionSubmit))
	mux.Handle("POST /admin/reports/{id}/dismiss", admin(s.ReportDismissSubmit))
	mux.Handle("POST /admin/reports/{id}/resolve", admin(s.ReportResolveSubmit))
	mux.Handle("GET /admin/users", admin(s.UsersPage))
	mux.Handle("POST /admin/users", admin(s.CreateUserSubmit))
	mux.Handle("POST /admin/users/{id}/block", admin(s.BlockUserSubmit))
	mux.Handle("POST /admin/users/{id}/unblock", admin(s.UnblockUserSubmit))
	mux.Handle("POST /admin/users/{id}/verify", admin(s.VerifyUserSubmit))
	mux.Handle("GET /admin/duplicates", admin(s.DuplicatesPage))
	mux.Handle("POST /admin/items/{kind}/{id}/delete", admin(s.AdminDeleteItemSubmit))
	mux.Handle("GET /admin/activity", admin(s.ActivityPage))

	return s.AccessLog(mux)
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.PingContext(r.Context()); err != nil {
		s.Logger.Error("health check failed", zap.Error(err))
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
