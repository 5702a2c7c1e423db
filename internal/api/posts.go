package api

import (
	"context"

	"skillshare/internal/model"
	"skillshare/internal/transport/rest"
)

type Posts struct {
	rc *rest.Client
}

func (p *Posts) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := p.rc.Get(ctx, "load posts", "/posts", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (p *Posts) Get(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := p.rc.Get(ctx, "load post", "/posts/"+seg(id), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (p *Posts) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	var posts []model.Post
	if err := p.rc.Get(ctx, "load posts", "/posts/user/"+seg(userID), &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (p *Posts) Create(ctx context.Context, req model.CreatePostRequest) (*model.Post, error) {
	var post model.Post
	if _, err := p.rc.Post(ctx, "create post", "/posts", req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (p *Posts) Delete(ctx context.Context, id string) error {
	return p.rc.Delete(ctx, "delete post", "/posts/"+seg(id))
}
