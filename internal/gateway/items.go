package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/erazemk/unifind/internal/model"
)

// DefaultSort orders public listings newest first.
const DefaultSort = "-created_at"

// ListOptions controls the public table endpoints.
type ListOptions struct {
	Limit int
	Sort  string
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	sort := o.Sort
	if sort == "" {
		sort = DefaultSort
	}
	q.Set("sort", sort)
	return q
}

// tableEnvelope is the {"data": [...]} wrapper of the table endpoints.
type tableEnvelope[T any] struct {
	Data []T `json:"data"`
}

// ListMarketplaceItems fetches the public marketplace listing.
func (c *Client) ListMarketplaceItems(ctx context.Context, opts ListOptions) ([]model.MarketplaceItem, error) {
	var env tableEnvelope[model.MarketplaceItem]
	err := c.call(ctx, request{
		route:  "/tables/marketplace_items",
		method: http.MethodGet,
		path:   "/tables/marketplace_items",
		query:  opts.values(),
	}, &env)
	if err != nil {
		return nil, err
	}
	return nonNil(env.Data), nil
}

// CreateMarketplaceItem posts a new listing and returns the stored record.
func (c *Client) CreateMarketplaceItem(ctx context.Context, item model.MarketplaceItem) (*model.MarketplaceItem, error) {
	var created model.MarketplaceItem
	err := c.call(ctx, request{
		route:  "/tables/marketplace_items",
		method: http.MethodPost,
		path:   "/tables/marketplace_items",
		body:   item,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListLostFoundItems fetches the public lost-and-found listing.
func (c *Client) ListLostFoundItems(ctx context.Context, opts ListOptions) ([]model.LostFoundItem, error) {
	var env tableEnvelope[model.LostFoundItem]
	err := c.call(ctx, request{
		route:  "/tables/lost_found_items",
		method: http.MethodGet,
		path:   "/tables/lost_found_items",
		query:  opts.values(),
	}, &env)
	if err != nil {
		return nil, err
	}
	return nonNil(env.Data), nil
}

// CreateLostFoundItem posts a new lost-and-found report.
func (c *Client) CreateLostFoundItem(ctx context.Context, item model.LostFoundItem) (*model.LostFoundItem, error) {
	var created model.LostFoundItem
	err := c.call(ctx, request{
		route:  "/tables/lost_found_items",
		method: http.MethodPost,
		path:   "/tables/lost_found_items",
		body:   item,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// itemRoute returns the owner endpoint family for kind.
func itemRoute(kind model.ItemKind) string {
	if kind == model.KindLostFound {
		return "/api/lost-found-items/{id}"
	}
	return "/api/marketplace-items/{id}"
}

func itemPath(kind model.ItemKind, id string) string {
	if kind == model.KindLostFound {
		return "/api/lost-found-items/" + url.PathEscape(id)
	}
	return "/api/marketplace-items/" + url.PathEscape(id)
}

// DeleteItem removes one of the caller's own listings.
func (c *Client) DeleteItem(ctx context.Context, kind model.ItemKind, id string) error {
	return c.call(ctx, request{
		route:  itemRoute(kind),
		method: http.MethodDelete,
		path:   itemPath(kind, id),
	}, nil)
}

// UpdateItemStatus changes the status of one of the caller's listings.
func (c *Client) UpdateItemStatus(ctx context.Context, kind model.ItemKind, id, status string) error {
	return c.call(ctx, request{
		route:  itemRoute(kind),
		method: http.MethodPatch,
		path:   itemPath(kind, id),
		body:   map[string]string{"status": status},
	}, nil)
}

// UserMarketplaceItems lists the marketplace items a user posted.
func (c *Client) UserMarketplaceItems(ctx context.Context, userID string) ([]model.MarketplaceItem, error) {
	var items []model.MarketplaceItem
	err := c.call(ctx, request{
		route:  "/api/users/{id}/marketplace-items",
		method: http.MethodGet,
		path:   "/api/users/" + url.PathEscape(userID) + "/marketplace-items",
	}, &items)
	if err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

// UserLostFoundItems lists the lost-and-found posts a user made.
func (c *Client) UserLostFoundItems(ctx context.Context, userID string) ([]model.LostFoundItem, error) {
	var items []model.LostFoundItem
	err := c.call(ctx, request{
		route:  "/api/users/{id}/lost-found-items",
		method: http.MethodGet,
		path:   "/api/users/" + url.PathEscape(userID) + "/lost-found-items",
	}, &items)
	if err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

// nonNil keeps "loaded and empty" distinguishable from "never loaded".
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
