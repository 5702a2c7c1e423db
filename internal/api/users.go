package api

import (
	"context"

	"skillshare/internal/model"
	"skillshare/internal/transport/rest"
)

type Users struct {
	rc *rest.Client
}

func (u *Users) Get(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := u.rc.Get(ctx, "load user", "/users/"+seg(id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *Users) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := u.rc.Get(ctx, "load users", "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (u *Users) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	var user model.User
	if err := u.rc.Put(ctx, "update profile", "/users/"+seg(id), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *Users) Delete(ctx context.Context, id string) error {
	return u.rc.Delete(ctx, "delete account", "/users/"+seg(id))
}
