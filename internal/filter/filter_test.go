package filter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erazemk/unifind/internal/model"
)

func marketFixture() []model.MarketplaceItem {
	return []model.MarketplaceItem{
		{ID: "1", Title: "Calculus Textbook", Description: "Barely used", Category: "Books", Status: model.StatusAvailable},
		{ID: "2", Title: "Desk Lamp", Description: "LED, warm light", Category: "Furniture", Status: model.StatusSold},
		{ID: "3", Title: "Laptop stand", Description: "Aluminium, fits a LAMP too", Category: "Electronics", Status: model.StatusAvailable},
		{ID: "4", Title: "Physics notes", Description: "", Category: "Books", Status: model.StatusSold},
	}
}

type fixtureItem interface {
	model.MarketplaceItem | model.LostFoundItem
}

func ids[T fixtureItem](items []T) []string {
	out := []string{}
	for _, it := range items {
		switch v := any(it).(type) {
		case model.MarketplaceItem:
			out = append(out, v.ID)
		case model.LostFoundItem:
			out = append(out, v.ID)
		}
	}
	return out
}

func TestVisibleNoFiltersKeepsOrder(t *testing.T) {
	items := marketFixture()
	for _, q := range []Query{{}, {Status: All}, {Category: All, Status: All}} {
		assert.Equal(t, items, Visible(items, q))
	}
}

func TestVisibleMarketplace(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"text in title", Query{Text: "lamp"}, []string{"2", "3"}},
		{"text case insensitive", Query{Text: "CALCULUS"}, []string{"1"}},
		{"text in description", Query{Text: "barely"}, []string{"1"}},
		{"substring not token", Query{Text: "ptop st"}, []string{"3"}},
		{"category", Query{Category: "Books"}, []string{"1", "4"}},
		{"status", Query{Status: "Sold"}, []string{"2", "4"}},
		{"all combined", Query{Text: "notes", Category: "Books", Status: "Sold"}, []string{"4"}},
		{"category and text disagree", Query{Text: "lamp", Category: "Books"}, []string{}},
		{"no match", Query{Text: "bicycle"}, []string{}},
		{"category is exact", Query{Category: "books"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Visible(marketFixture(), tt.q)))
		})
	}
}

func TestVisibleLostFoundOrsTypeAndStatus(t *testing.T) {
	items := []model.LostFoundItem{
		{ID: "a", Title: "Blue umbrella", Type: model.TypeLost, Status: model.StatusActive, Category: "Accessories"},
		{ID: "b", Title: "Student ID card", Type: model.TypeFound, Status: model.StatusActive, Category: "Documents"},
		{ID: "c", Title: "Keys on a ring", Type: model.TypeLost, Status: model.StatusResolved, Category: "Keys"},
	}

	tests := []struct {
		status string
		want   []string
	}{
		{"Lost", []string{"a", "c"}},
		{"Found", []string{"b"}},
		{"Active", []string{"a", "b"}},
		{"Resolved", []string{"c"}},
		{"all", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Visible(items, Query{Status: tt.status})))
		})
	}

	assert.Equal(t, []string{"c"}, ids(Visible(items, Query{Text: "ring", Status: "Lost"})))
}

func TestVisibleSubstringOfEveryItemMatches(t *testing.T) {
	items := marketFixture()
	for _, it := range items {
		for _, field := range []string{it.Title, it.Description} {
			if len(field) < 3 {
				continue
			}
			needle := field[1:3]
			assert.Contains(t, ids(Visible(items, Query{Text: needle})), it.ID, "needle %q", needle)
		}
	}
}

func TestVisibleEmptyInput(t *testing.T) {
	got := Visible([]model.MarketplaceItem(nil), Query{Text: "x"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseQueryRoundTrip(t *testing.T) {
	v := url.Values{"q": {"lamp"}, "category": {"Books"}, "status": {"all"}}
	q := ParseQuery(v)
	assert.Equal(t, Query{Text: "lamp", Category: "Books", Status: "all"}, q)
	assert.True(t, q.Active())
	assert.Equal(t, url.Values{"q": {"lamp"}, "category": {"Books"}}, q.Values())
	assert.False(t, Query{Status: All}.Active())
}
