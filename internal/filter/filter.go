// Package filter derives the visible subset of a collection.
package filter

import (
	"net/url"
	"strings"
)

// All is the selector value that disables a filter.
const All = "all"

// Query is the filter and search state of a list view.
type Query struct {
	Text     string
	Category string
	Status   string
}

// Active reports whether any filter narrows the list.
func (q Query) Active() bool {
	return q.Text != "" || isSet(q.Category) || isSet(q.Status)
}

// Values encodes q as URL query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Text != "" {
		v.Set("q", q.Text)
	}
	if isSet(q.Category) {
		v.Set("category", q.Category)
	}
	if isSet(q.Status) {
		v.Set("status", q.Status)
	}
	return v
}

// ParseQuery reads q, category and status from URL parameters.
func ParseQuery(v url.Values) Query {
	return Query{
		Text:     v.Get("q"),
		Category: v.Get("category"),
		Status:   v.Get("status"),
	}
}

// Filterable is implemented by the listing entities.
type Filterable interface {
	SearchFields() (title, description string)
	CategoryName() string
	HasStatus(s string) bool
}

// Visible returns the items matching q in their original order. The
// result is never nil, so an empty match is distinguishable from an
// unloaded collection.
func Visible[T Filterable](items []T, q Query) []T {
	out := make([]T, 0, len(items))
	needle := strings.ToLower(q.Text)
	for _, item := range items {
		if Match(item, q.Category, q.Status, needle) {
			out = append(out, item)
		}
	}
	return out
}

// Match applies the category, status and lower-cased text filters to one
// item.
func Match[T Filterable](item T, category, status, needle string) bool {
	if isSet(category) && item.CategoryName() != category {
		return false
	}
	if isSet(status) && !item.HasStatus(status) {
		return false
	}
	if needle == "" {
		return true
	}
	title, desc := item.SearchFields()
	return strings.Contains(strings.ToLower(title), needle) ||
		strings.Contains(strings.ToLower(desc), needle)
}

func isSet(s string) bool {
	return s != "" && s != All
}
