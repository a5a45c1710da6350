package web

import (
	"html/template"
	"net/http"

	"github.com/erazemk/unifind/internal/collection"
	"github.com/erazemk/unifind/internal/dispatch"
	"github.com/erazemk/unifind/internal/filter"
	"github.com/erazemk/unifind/internal/model"
	"github.com/erazemk/unifind/internal/view"
)

var (
	marketStatuses = []string{string(model.StatusAvailable), string(model.StatusSold)}
	lostStatuses   = []string{
		string(model.TypeLost), string(model.TypeFound),
		string(model.StatusActive), string(model.StatusResolved),
	}
)

type listPage struct {
	PageData
	Query      filter.Query
	Categories []string
	Statuses   []string
	Grid       template.HTML
}

// MarketplacePage handles GET / and GET /marketplace. A plain page load
// re-fetches; filter submissions reuse the loaded listings.
func (s *Server) MarketplacePage(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	q := filter.ParseQuery(r.URL.Query())
	if !s.load(w, r, v, !q.Active(), collection.Marketplace) {
		return
	}
	v.state.SetMarketFilter(q)

	section := s.Builder.MarketplaceSection(v.state.Marketplace.Snapshot(), q)
	s.Templates.Render(w, http.StatusOK, "marketplace.html", &listPage{
		PageData:   s.page(v, "Marketplace", "marketplace"),
		Query:      q,
		Categories: model.Categories,
		Statuses:   marketStatuses,
		Grid:       s.partial(view.PartialMarketplaceGrid, section),
	})
}

// LostFoundPage handles GET /lost-found.
func (s *Server) LostFoundPage(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	q := filter.ParseQuery(r.URL.Query())
	if !s.load(w, r, v, !q.Active(), collection.LostFound) {
		return
	}
	v.state.SetLostFilter(q)

	section := s.Builder.LostFoundSection(v.state.LostFound.Snapshot(), q)
	s.Templates.Render(w, http.StatusOK, "lostfound.html", &listPage{
		PageData:   s.page(v, "Lost & Found", "lost-found"),
		Query:      q,
		Categories: model.Categories,
		Statuses:   lostStatuses,
		Grid:       s.partial(view.PartialLostFoundGrid, section),
	})
}

type detailPage struct {
	PageData
	Back   string
	Detail template.HTML
}

// MarketplaceDetailPage handles GET /marketplace/{id}.
func (s *Server) MarketplaceDetailPage(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	if !s.load(w, r, v, false, collection.Marketplace) {
		return
	}

	id := r.PathValue("id")
	for _, item := range v.state.Marketplace.Snapshot().Items {
		if item.ID != id {
			continue
		}
		pd := s.page(v, item.Title, "marketplace")
		s.Templates.Render(w, http.StatusOK, "detail.html", &detailPage{
			PageData: pd,
			Back:     "/marketplace",
			Detail: s.partial(view.PartialMarketplaceDetail, view.Detail[view.MarketplaceDetail]{
				Item:     s.Builder.MarketplaceDetail(item),
				SignedIn: pd.SignedIn(),
				Admin:    pd.Admin(),
			}),
		})
		return
	}
	http.Error(w, "item not found", http.StatusNotFound)
}

// LostFoundDetailPage handles GET /lost-found/{id}.
func (s *Server) LostFoundDetailPage(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	if !s.load(w, r, v, false, collection.LostFound) {
		return
	}

	id := r.PathValue("id")
	for _, item := range v.state.LostFound.Snapshot().Items {
		if item.ID != id {
			continue
		}
		pd := s.page(v, item.Title, "lost-found")
		s.Templates.Render(w, http.StatusOK, "detail.html", &detailPage{
			PageData: pd,
			Back:     "/lost-found",
			Detail: s.partial(view.PartialLostFoundDetail, view.Detail[view.LostFoundDetail]{
				Item:     s.Builder.LostFoundDetail(item),
				SignedIn: pd.SignedIn(),
				Admin:    pd.Admin(),
			}),
		})
		return
	}
	http.Error(w, "item not found", http.StatusNotFound)
}

type postPage struct {
	PageData
	Tab        string
	Categories []string
	Conditions []string
	Market     marketplaceForm
	Lost       lostFoundForm
}

func (s *Server) renderPost(w http.ResponseWriter, v *visit, status int, p *postPage, errMsg string) {
	p.PageData = s.page(v, "Post Item", "post")
	p.Error = errMsg
	p.Categories = model.Categories
	p.Conditions = model.Conditions
	if p.Tab == "" {
		p.Tab = string(model.KindMarketplace)
	}
	if p.Lost.Date == "" {
		p.Lost.Date = s.now().In(s.location).Format("2006-01-02")
	}
	if p.Lost.Type == "" {
		p.Lost.Type = string(model.TypeLost)
	}
	if u := v.user(); u != nil {
		if p.Market.SellerName == "" {
			p.Market.SellerName = u.FullName
		}
		if p.Lost.ContactName == "" {
			p.Lost.ContactName = u.FullName
		}
	}
	s.Templates.Render(w, status, "post.html", p)
}

// PostPage handles GET /post.
func (s *Server) PostPage(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	tab := r.URL.Query().Get("type")
	if _, ok := model.ParseItemKind(tab); !ok {
		tab = ""
	}
	s.renderPost(w, v, http.StatusOK, &postPage{Tab: tab}, "")
}

// PostMarketplaceSubmit handles POST /post/marketplace. Invalid or
// rejected submissions re-render the form with the entered values.
func (s *Server) PostMarketplaceSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	form, msg := parseMarketplaceForm(r)
	if msg == "" {
		var done bool
		if msg, done = s.submitForm(w, r, v, &dispatch.CreateMarketplaceItem{Item: form.item(s.now())}); done {
			return
		}
	}
	if msg != "" {
		s.renderPost(w, v, http.StatusUnprocessableEntity,
			&postPage{Tab: string(model.KindMarketplace), Market: form}, msg)
		return
	}
	http.Redirect(w, r, "/marketplace", http.StatusSeeOther)
}

// PostLostFoundSubmit handles POST /post/lost-found.
func (s *Server) PostLostFoundSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	form, msg := parseLostFoundForm(r)
	if msg == "" {
		var done bool
		if msg, done = s.submitForm(w, r, v, &dispatch.CreateLostFoundItem{Item: form.item(s.now())}); done {
			return
		}
	}
	if msg != "" {
		s.renderPost(w, v, http.StatusUnprocessableEntity,
			&postPage{Tab: string(model.KindLostFound), Lost: form}, msg)
		return
	}
	http.Redirect(w, r, "/lost-found", http.StatusSeeOther)
}
