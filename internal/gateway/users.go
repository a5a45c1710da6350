package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/erazemk/unifind/internal/model"
)

var errMissingToken = errors.New("login response carried no token")

// GetUser fetches a profile.
func (c *Client) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := c.call(ctx, request{
		route:  "/api/users/{id}",
		method: http.MethodGet,
		path:   "/api/users/" + url.PathEscape(id),
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser saves profile edits and returns the updated profile.
func (c *Client) UpdateUser(ctx context.Context, id string, upd model.ProfileUpdate) (*model.User, error) {
	var u model.User
	err := c.call(ctx, request{
		route:  "/api/users/{id}",
		method: http.MethodPut,
		path:   "/api/users/" + url.PathEscape(id),
		body:   upd,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ChangePassword forwards a password change for the bound user.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.call(ctx, request{
		route:  "/api/users/change-password",
		method: http.MethodPost,
		path:   "/api/users/change-password",
		body:   map[string]string{"currentPassword": current, "newPassword": next},
	}, nil)
}

// UserFavorites lists a user's saved items.
func (c *Client) UserFavorites(ctx context.Context, userID string) ([]model.Favorite, error) {
	var favs []model.Favorite
	err := c.call(ctx, request{
		route:  "/api/users/{id}/favorites",
		method: http.MethodGet,
		path:   "/api/users/" + url.PathEscape(userID) + "/favorites",
	}, &favs)
	if err != nil {
		return nil, err
	}
	return nonNil(favs), nil
}

// UserReviews lists the reviews left for a user.
func (c *Client) UserReviews(ctx context.Context, userID string) ([]model.Review, error) {
	var reviews []model.Review
	err := c.call(ctx, request{
		route:  "/api/users/{id}/reviews",
		method: http.MethodGet,
		path:   "/api/users/" + url.PathEscape(userID) + "/reviews",
	}, &reviews)
	if err != nil {
		return nil, err
	}
	return nonNil(reviews), nil
}

// AddFavorite saves an item for the bound user.
func (c *Client) AddFavorite(ctx context.Context, itemID string, kind model.ItemKind) error {
	return c.call(ctx, request{
		route:  "/api/favorites",
		method: http.MethodPost,
		path:   "/api/favorites",
		body:   map[string]string{"itemId": itemID, "itemType": string(kind)},
	}, nil)
}

// RemoveFavorite deletes a saved item.
func (c *Client) RemoveFavorite(ctx context.Context, favoriteID string) error {
	return c.call(ctx, request{
		route:  "/api/favorites/{id}",
		method: http.MethodDelete,
		path:   "/api/favorites/" + url.PathEscape(favoriteID),
	}, nil)
}

// SubmitReport flags a user or an item for moderation.
func (c *Client) SubmitReport(ctx context.Context, r model.NewReport) error {
	return c.call(ctx, request{
		route:  "/api/reports",
		method: http.MethodPost,
		path:   "/api/reports",
		body:   r,
	}, nil)
}

// SubmitReview leaves a review for another user.
func (c *Client) SubmitReview(ctx context.Context, r model.NewReview) error {
	return c.call(ctx, request{
		route:  "/api/reviews",
		method: http.MethodPost,
		path:   "/api/reviews",
		body:   r,
	}, nil)
}
