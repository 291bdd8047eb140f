package restapi

import (
	"context"
	"net/http"

	"taskdash/internal/service"
)

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, email, password string) (service.Session, error) {
	var resp sessionResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return service.Session{}, asAuthError(err)
	}
	return toSession(resp)
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, name, email, password string) (service.Session, error) {
	var resp sessionResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup", signupRequest{Name: name, Email: email, Password: password}, &resp)
	if err != nil {
		return service.Session{}, err
	}
	return toSession(resp)
}

// Profile implements service.Service.
func (c *Client) Profile(ctx context.Context) (service.User, error) {
	var resp profileResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return service.User{}, err
	}
	if resp.User != nil {
		return *resp.User.toUser(), nil
	}
	return *resp.wireUser.toUser(), nil
}

func toSession(resp sessionResponse) (service.Session, error) {
	if resp.Token == "" {
		return service.Session{}, &service.APIError{Kind: service.KindServer, Message: "response carried no token"}
	}
	return service.Session{Token: resp.Token, User: resp.User.toUser()}, nil
}
