package api

import (
	"context"
	"strings"

	"skillshare/internal/model"
	"skillshare/internal/session"
	"skillshare/internal/transport/rest"
)

type Auth struct {
	rc *rest.Client
}

// Login exchanges credentials for a token and stores it in the session.
func (a *Auth) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	req := model.LoginRequest{Username: strings.TrimSpace(username), Password: password}

	var res model.LoginResponse
	if _, err := a.rc.Post(ctx, "log in", "/auth/login", req, &res); err != nil {
		return nil, err
	}
	if err := a.rc.Session().Login(ctx, session.Credentials{Token: res.Token, UserID: res.UserID}); err != nil {
		return nil, rest.Normalize("log in", err)
	}
	return &res, nil
}

func (a *Auth) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	var u model.User
	if _, err := a.rc.Post(ctx, "register", "/auth/register", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout clears the local session; the backend keeps no logout endpoint.
func (a *Auth) Logout(ctx context.Context) error {
	return a.rc.Session().Logout(ctx)
}
