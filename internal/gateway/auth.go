package gateway

import (
	"context"
	"net/http"

	"github.com/erazemk/unifind/internal/model"
)

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	err := c.call(ctx, request{
		route:  "/api/auth/login",
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   map[string]string{"email": email, "password": password},
	}, &res)
	if err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, transportError(errMissingToken)
	}
	return &res, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, s model.Signup) error {
	return c.call(ctx, request{
		route:  "/api/auth/signup",
		method: http.MethodPost,
		path:   "/api/auth/signup",
		body:   s,
	}, nil)
}

// Logout invalidates the bound credential on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, request{
		route:  "/api/auth/logout",
		method: http.MethodPost,
		path:   "/api/auth/logout",
	}, nil)
}

// Verify checks the bound credential and returns the current profile.
func (c *Client) Verify(ctx context.Context) (*model.User, error) {
	var res struct {
		User model.User `json:"user"`
	}
	err := c.call(ctx, request{
		route:  "/api/auth/verify",
		method: http.MethodGet,
		path:   "/api/auth/verify",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res.User, nil
}
