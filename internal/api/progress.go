package api

import (
	"context"

	"skillshare/internal/model"
	"skillshare/internal/transport/rest"
)

type Progress struct {
	rc *rest.Client
}

func (p *Progress) List(ctx context.Context) ([]model.ProgressUpdate, error) {
	var updates []model.ProgressUpdate
	if err := p.rc.Get(ctx, "fetch progress updates", "/progress", &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (p *Progress) ListByUser(ctx context.Context, userID string) ([]model.ProgressUpdate, error) {
	var updates []model.ProgressUpdate
	if err := p.rc.Get(ctx, "fetch progress updates", "/progress/user/"+seg(userID), &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (p *Progress) Get(ctx context.Context, id string) (*model.ProgressUpdate, error) {
	var u model.ProgressUpdate
	if err := p.rc.Get(ctx, "fetch progress update", "/progress/"+seg(id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *Progress) Create(ctx context.Context, req model.ProgressRequest) (*model.ProgressUpdate, error) {
	var u model.ProgressUpdate
	if _, err := p.rc.Post(ctx, "create progress update", "/progress", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *Progress) Update(ctx context.Context, id string, req model.ProgressRequest) (*model.ProgressUpdate, error) {
	var u model.ProgressUpdate
	if err := p.rc.Put(ctx, "update progress update", "/progress/"+seg(id), req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *Progress) Delete(ctx context.Context, id string) error {
	return p.rc.Delete(ctx, "delete progress update", "/progress/"+seg(id))
}
