package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/unifind/internal/collection"
	"github.com/erazemk/unifind/internal/model"
	"github.com/erazemk/unifind/internal/view"
)

// Templates holds parsed HTML page templates.
type Templates struct {
	templates map[string]*template.Template
	logger    *zap.Logger
}

var pages = []string{
	"marketplace.html",
	"lostfound.html",
	"detail.html",
	"post.html",
	"login.html",
	"signup.html",
	"profile.html",
	"report.html",
	"admin.html",
	"admin_users.html",
	"admin_duplicates.html",
	"admin_activity.html",
	"confirm.html",
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	fm := view.FuncMap()
	fm["selected"] = func(a, b string) bool { return a == b }
	fm["ratings"] = func() []int { return []int{5, 4, 3, 2, 1} }
	return fm
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates(tfs fs.FS, logger *zap.Logger) (*Templates, error) {
	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template), logger: logger}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a page with the given data and status.
func (ts *Templates) Render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		ts.logger.Error("failed to render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title  string
	Nav    string
	User   *model.User
	Notice *collection.Flash
	Error  string
}

// SignedIn reports whether a user is attached.
func (p PageData) SignedIn() bool { return p.User != nil }

// Admin reports whether the user may see the admin pages.
func (p PageData) Admin() bool { return p.User != nil && p.User.IsAdmin }
