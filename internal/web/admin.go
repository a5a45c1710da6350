package web

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/erazemk/unifind/internal/collection"
	"github.com/erazemk/unifind/internal/dispatch"
	"github.com/erazemk/unifind/internal/model"
	"github.com/erazemk/unifind/internal/view"
)

var userStatuses = []string{"active", "blocked", "verified"}

type adminPage struct {
	PageData
	Stats   template.HTML
	Section template.HTML
}

// AdminPage handles GET /admin.
func (s *Server) AdminPage(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	if !s.load(w, r, v, true, collection.Stats, collection.Reports) {
		return
	}
	s.Templates.Render(w, http.StatusOK, "admin.html", &adminPage{
		PageData: s.page(v, "Admin Dashboard", "admin"),
		Stats:    s.partial(view.PartialStats, s.Builder.Stats(v.state.Stats.Snapshot())),
		Section:  s.partial(view.PartialReports, s.Builder.ReportsSection(v.state.Reports.Snapshot())),
	})
}

// ReportActionSubmit handles POST /admin/reports/{id}/action.
func (s *Server) ReportActionSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	action := r.PostFormValue("action")
	if action == "" {
		http.Error(w, "missing action", http.StatusBadRequest)
		return
	}
	s.act(w, r, v, dispatch.TakeReportAction{ReportID: r.PathValue("id"), Action: action}, "/admin")
}

// ReportDismissSubmit handles POST /admin/reports/{id}/dismiss.
func (s *Server) ReportDismissSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	s.act(w, r, v, dispatch.DismissReport{ReportID: r.PathValue("id")}, "/admin")
}

// ReportResolveSubmit handles POST /admin/reports/{id}/resolve.
func (s *Server) ReportResolveSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	s.act(w, r, v, dispatch.ResolveReport{
		ReportID: r.PathValue("id"),
		Notes:    strings.TrimSpace(r.PostFormValue("notes")),
	}, "/admin")
}

type usersPage struct {
	PageData
	Query    string
	Status   string
	Statuses []string
	Section  template.HTML
	Form     newUserForm
}

// UsersPage handles GET /admin/users?q=&status=.
func (s *Server) UsersPage(w http.ResponseWriter, r *http.Request) {
	s.renderUsers(w, r, getVisit(r.Context()), newUserForm{}, "", http.StatusOK)
}

func (s *Server) renderUsers(w http.ResponseWriter, r *http.Request, v *visit, form newUserForm, errMsg string, status int) {
	if status == http.StatusOK {
		q := r.URL.Query()
		st := q.Get("status")
		if st == "all" {
			st = ""
		}
		v.state.SetUserFilter(map[string]string{
			"search": strings.TrimSpace(q.Get("q")),
			"status": st,
		})
	}
	if !s.load(w, r, v, status == http.StatusOK, collection.Users) {
		return
	}

	f := v.state.UserFilter()
	p := &usersPage{
		PageData: s.page(v, "Users", "users"),
		Query:    f["search"],
		Status:   f["status"],
		Statuses: userStatuses,
		Section:  s.partial(view.PartialUsers, s.Builder.UsersSection(v.state.Users.Snapshot())),
		Form:     form,
	}
	p.Error = errMsg
	s.Templates.Render(w, status, "admin_users.html", p)
}

// CreateUserSubmit handles POST /admin/users.
func (s *Server) CreateUserSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	form, msg := parseNewUserForm(r)
	if msg == "" {
		var done bool
		if msg, done = s.submitForm(w, r, v, &dispatch.CreateUser{User: form.payload()}); done {
			return
		}
	}
	if msg != "" {
		form.Password = ""
		s.renderUsers(w, r, v, form, msg, http.StatusUnprocessableEntity)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// BlockUserSubmit handles POST /admin/users/{id}/block.
func (s *Server) BlockUserSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	s.act(w, r, v, dispatch.BlockUser{
		UserID: r.PathValue("id"),
		Reason: strings.TrimSpace(r.PostFormValue("reason")),
	}, backTo(r, "/admin/users"))
}

// UnblockUserSubmit handles POST /admin/users/{id}/unblock.
func (s *Server) UnblockUserSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	s.act(w, r, v, dispatch.UnblockUser{UserID: r.PathValue("id")}, backTo(r, "/admin/users"))
}

// VerifyUserSubmit handles POST /admin/users/{id}/verify.
func (s *Server) VerifyUserSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	s.act(w, r, v, dispatch.VerifyUser{UserID: r.PathValue("id")}, backTo(r, "/admin/users"))
}

// DuplicatesPage handles GET /admin/duplicates.
func (s *Server) DuplicatesPage(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	if !s.load(w, r, v, true, collection.Duplicates) {
		return
	}
	s.Templates.Render(w, http.StatusOK, "admin_duplicates.html", &adminPage{
		PageData: s.page(v, "Duplicate Listings", "duplicates"),
		Section:  s.partial(view.PartialDuplicates, s.Builder.DuplicatesSection(v.state.Duplicates.Snapshot())),
	})
}

// AdminDeleteItemSubmit handles POST /admin/items/{kind}/{id}/delete.
func (s *Server) AdminDeleteItemSubmit(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	kind, id, ok := listingTarget(w, r)
	if !ok {
		return
	}
	back := backTo(r, "/"+string(kind))
	if !strings.HasPrefix(back, "/admin") {
		back = "/" + string(kind)
	}
	s.act(w, r, v, dispatch.AdminDeleteItem{Kind: kind, ItemID: id}, back)
}

type activityPage struct {
	PageData
	Filter  activityFilterForm
	Actions []string
	Section template.HTML
}

func actionNames() []string {
	out := make([]string, 0, model.NumActionKinds-1)
	for k := 1; k < model.NumActionKinds; k++ {
		out = append(out, model.ActionKind(k).String())
	}
	return out
}

// ActivityPage handles GET /admin/activity?action_type=&start_date=&end_date=.
func (s *Server) ActivityPage(w http.ResponseWriter, r *http.Request) {
	v := getVisit(r.Context())
	form, msg := parseActivityFilterForm(r)
	status := http.StatusOK
	if msg == "" {
		v.state.SetActivityFilter(form.values())
		if !s.load(w, r, v, true, collection.ActivityLogs) {
			return
		}
	} else {
		status = http.StatusUnprocessableEntity
	}

	p := &activityPage{
		PageData: s.page(v, "Activity Log", "activity"),
		Filter:   form,
		Actions:  actionNames(),
		Section:  s.partial(view.PartialActivity, s.Builder.ActivitySection(v.state.ActivityLogs.Snapshot())),
	}
	p.Error = msg
	s.Templates.Render(w, status, "admin_activity.html", p)
}
