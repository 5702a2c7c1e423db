package api

import (
	"context"

	"skillshare/internal/model"
	"skillshare/internal/transport/rest"
)

type Comments struct {
	rc *rest.Client
}

func (c *Comments) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	var comments []model.Comment
	if err := c.rc.Get(ctx, "fetch comments", "/comments/post/"+seg(postID), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Comments) Create(ctx context.Context, req model.CreateCommentRequest) (*model.Comment, error) {
	var comment model.Comment
	if _, err := c.rc.Post(ctx, "add comment", "/comments", req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Comments) Update(ctx context.Context, id string, req model.UpdateCommentRequest) (*model.Comment, error) {
	var comment model.Comment
	if err := c.rc.Put(ctx, "update comment", "/comments/"+seg(id), req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Comments) Delete(ctx context.Context, id string) error {
	return c.rc.Delete(ctx, "delete comment", "/comments/"+seg(id))
}
