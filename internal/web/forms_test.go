package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func formRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "/"},
		{"/profile", "/profile"},
		{"/marketplace?q=lamp", "/marketplace?q=lamp"},
		{"//evil.example/x", "/"},
		{"https://evil.example", "/"},
		{`/\evil.example`, "/"},
		{"profile", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, safeNext(tt.raw, "/"), "raw %q", tt.raw)
	}
}

func TestBackTo(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://unifind.test/favorites", nil)
	assert.Equal(t, "/profile", backTo(r, "/profile"))

	r.Header.Set("Referer", "http://unifind.test/marketplace/7")
	assert.Equal(t, "/marketplace/7", backTo(r, "/profile"))

	r.Header.Set("Referer", "http://other.test/phish")
	assert.Equal(t, "/profile", backTo(r, "/profile"))
}

func TestMarketplaceFormValidation(t *testing.T) {
	valid := url.Values{
		"title":          {"Desk"},
		"description":    {"Oak"},
		"price":          {"1200"},
		"category":       {"Furniture"},
		"condition":      {"Good"},
		"seller_name":    {"Bob"},
		"seller_contact": {"bob@uni.edu"},
	}

	tests := []struct {
		name   string
		change func(v url.Values)
		want   string
	}{
		{"valid", func(url.Values) {}, ""},
		{"missing title", func(v url.Values) { v.Set("title", "  ") }, "Title is required."},
		{"price not a number", func(v url.Values) { v.Set("price", "cheap") }, "Price must be a number."},
		{"negative price", func(v url.Values) { v.Set("price", "-1") }, "Price cannot be negative."},
		{"unknown category", func(v url.Values) { v.Set("category", "Boats") }, "Category is invalid."},
		{"unknown condition", func(v url.Values) { v.Set("condition", "Mint") }, "Condition is invalid."},
		{"bad image url", func(v url.Values) { v.Set("image_url", "not a url") }, "Image URL must be a valid URL."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := url.Values{}
			for k, vals := range valid {
				v[k] = append([]string(nil), vals...)
			}
			tt.change(v)
			_, msg := parseMarketplaceForm(formRequest(v))
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestLostFoundFormDate(t *testing.T) {
	v := url.Values{
		"title":        {"Umbrella"},
		"description":  {"Blue"},
		"type":         {"Lost"},
		"category":     {"Accessories"},
		"location":     {"Library"},
		"date":         {"10/03/2026"},
		"contact_name": {"Ana"},
		"contact_info": {"ana@uni.edu"},
	}
	_, msg := parseLostFoundForm(formRequest(v))
	assert.Equal(t, "Date must be a date.", msg)

	v.Set("date", "2026-03-10")
	_, msg = parseLostFoundForm(formRequest(v))
	assert.Empty(t, msg)

	v.Set("type", "Stolen")
	_, msg = parseLostFoundForm(formRequest(v))
	assert.Equal(t, "Type is invalid.", msg)
}

func TestPasswordForm(t *testing.T) {
	_, msg := parsePasswordForm(formRequest(url.Values{
		"current_password": {"old"},
		"new_password":     {"secret1"},
		"confirm_password": {"secret2"},
	}))
	assert.Equal(t, "Passwords do not match.", msg)

	_, msg = parsePasswordForm(formRequest(url.Values{
		"current_password": {"old"},
		"new_password":     {"abc"},
		"confirm_password": {"abc"},
	}))
	assert.Equal(t, "New password must be at least 6 characters.", msg)
}

func TestReportFormNeedsTarget(t *testing.T) {
	_, msg := parseReportForm(formRequest(url.Values{"reason": {"Spam"}}))
	assert.Equal(t, "Reported user is required.", msg)

	_, msg = parseReportForm(formRequest(url.Values{"reason": {"Spam"}, "item_id": {"7"}, "item_type": {"marketplace"}}))
	assert.Empty(t, msg)
}

func TestActivityFilterForm(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin/activity?action_type=all&start_date=2026-01-01&end_date=soon", nil)
	f, msg := parseActivityFilterForm(r)
	assert.Equal(t, "End date must be a date.", msg)
	assert.Empty(t, f.ActionType)
}
