package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/erazemk/unifind/internal/model"
)

// Stats fetches the admin dashboard aggregates.
func (c *Client) Stats(ctx context.Context) (*model.Stats, error) {
	var s model.Stats
	err := c.call(ctx, request{
		route:  "/api/admin/stats",
		method: http.MethodGet,
		path:   "/api/admin/stats",
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Reports lists reports with the given status.
func (c *Client) Reports(ctx context.Context, status model.ReportStatus) ([]model.Report, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	var reports []model.Report
	err := c.call(ctx, request{
		route:  "/api/admin/reports",
		method: http.MethodGet,
		path:   "/api/admin/reports",
		query:  q,
	}, &reports)
	if err != nil {
		return nil, err
	}
	return nonNil(reports), nil
}

// TakeReportAction applies a moderation action to a report.
func (c *Client) TakeReportAction(ctx context.Context, id, action string) error {
	return c.call(ctx, request{
		route:  "/api/admin/reports/{id}/action",
		method: http.MethodPost,
		path:   "/api/admin/reports/" + url.PathEscape(id) + "/action",
		body:   map[string]string{"action": action},
	}, nil)
}

// DismissReport marks a report dismissed.
func (c *Client) DismissReport(ctx context.Context, id string) error {
	return c.call(ctx, request{
		route:  "/api/admin/reports/{id}",
		method: http.MethodPatch,
		path:   "/api/admin/reports/" + url.PathEscape(id),
		body:   map[string]string{"status": string(model.ReportDismissed)},
	}, nil)
}

// ResolveReport closes a report with optional notes.
func (c *Client) ResolveReport(ctx context.Context, id, notes string) error {
	return c.call(ctx, request{
		route:  "/api/admin/reports/{id}/resolve",
		method: http.MethodPost,
		path:   "/api/admin/reports/" + url.PathEscape(id) + "/resolve",
		body:   map[string]string{"adminNotes": notes},
	}, nil)
}

// Users lists accounts matching filters (q, status).
func (c *Client) Users(ctx context.Context, filters url.Values) ([]model.User, error) {
	var users []model.User
	err := c.call(ctx, request{
		route:  "/api/admin/users",
		method: http.MethodGet,
		path:   "/api/admin/users",
		query:  filters,
	}, &users)
	if err != nil {
		return nil, err
	}
	return nonNil(users), nil
}

// CreateUser adds an account on behalf of an admin.
func (c *Client) CreateUser(ctx context.Context, u model.NewUser) (*model.User, error) {
	var created model.User
	err := c.call(ctx, request{
		route:  "/api/admin/users",
		method: http.MethodPost,
		path:   "/api/admin/users",
		body:   u,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// BlockUser blocks an account.
func (c *Client) BlockUser(ctx context.Context, id, reason string) error {
	return c.call(ctx, request{
		route:  "/api/admin/users/{id}/block",
		method: http.MethodPost,
		path:   "/api/admin/users/" + url.PathEscape(id) + "/block",
		body:   map[string]string{"reason": reason},
	}, nil)
}

// UnblockUser lifts a block.
func (c *Client) UnblockUser(ctx context.Context, id string) error {
	return c.call(ctx, request{
		route:  "/api/admin/users/{id}/unblock",
		method: http.MethodPost,
		path:   "/api/admin/users/" + url.PathEscape(id) + "/unblock",
	}, nil)
}

// VerifyUser marks an account verified.
func (c *Client) VerifyUser(ctx context.Context, id string) error {
	return c.call(ctx, request{
		route:  "/api/admin/users/{id}/verify",
		method: http.MethodPost,
		path:   "/api/admin/users/" + url.PathEscape(id) + "/verify",
	}, nil)
}

// Duplicates lists groups of suspected duplicate listings.
func (c *Client) Duplicates(ctx context.Context) ([]model.DuplicateGroup, error) {
	var groups []model.DuplicateGroup
	err := c.call(ctx, request{
		route:  "/api/admin/duplicates",
		method: http.MethodGet,
		path:   "/api/admin/duplicates",
	}, &groups)
	if err != nil {
		return nil, err
	}
	return nonNil(groups), nil
}

// AdminDeleteItem removes any listing.
func (c *Client) AdminDeleteItem(ctx context.Context, kind model.ItemKind, id string) error {
	route, path := "/api/admin/marketplace-items/{id}", "/api/admin/marketplace-items/"
	if kind == model.KindLostFound {
		route, path = "/api/admin/lost-found-items/{id}", "/api/admin/lost-found-items/"
	}
	return c.call(ctx, request{
		route:  route,
		method: http.MethodDelete,
		path:   path + url.PathEscape(id),
	}, nil)
}

// ActivityLogs lists admin actions matching filters.
func (c *Client) ActivityLogs(ctx context.Context, filters url.Values) ([]model.ActivityLogEntry, error) {
	var logs []model.ActivityLogEntry
	err := c.call(ctx, request{
		route:  "/api/admin/activity-logs",
		method: http.MethodGet,
		path:   "/api/admin/activity-logs",
		query:  filters,
	}, &logs)
	if err != nil {
		return nil, err
	}
	return nonNil(logs), nil
}
