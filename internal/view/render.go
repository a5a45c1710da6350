// Package view turns collections into markup.
//
// Builders produce plain view models from entities; the Renderer executes
// the embedded partial templates over them. Both are deterministic: the
// same inputs always yield byte-identical output.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
)

// Partial template names.
const (
	PartialMarketplaceGrid   = "marketplace_grid"
	PartialLostFoundGrid     = "lostfound_grid"
	PartialMarketplaceDetail = "marketplace_detail"
	PartialLostFoundDetail   = "lostfound_detail"
	PartialReports           = "reports"
	PartialUsers             = "users_table"
	PartialDuplicates        = "duplicates"
	PartialActivity          = "activity_logs"
	PartialStats             = "stats"
	PartialListings          = "listings"
	PartialFavorites         = "favorites"
	PartialReviews           = "reviews"
	PartialProfile           = "profile_header"
)

// Renderer executes partial templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses every partials/*.html file in fsys.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.New("partials").Funcs(FuncMap()).ParseFS(fsys, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing partials: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the named partial over data.
func (r *Renderer) Render(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// FuncMap returns the helpers available to partials and pages.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"fallback": Fallback,
	}
}
