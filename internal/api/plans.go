package api

import (
	"context"

	"skillshare/internal/model"
	"skillshare/internal/transport/rest"
)

type Plans struct {
	rc *rest.Client
}

// ListPublic returns the public plans page.
func (p *Plans) ListPublic(ctx context.Context) (*model.Page[model.LearningPlan], error) {
	var page model.Page[model.LearningPlan]
	if err := p.rc.Get(ctx, "fetch learning plans", "/plans", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (p *Plans) Get(ctx context.Context, id string) (*model.LearningPlan, error) {
	var plan model.LearningPlan
	if err := p.rc.Get(ctx, "fetch learning plan", "/plans/"+seg(id), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (p *Plans) ListByUser(ctx context.Context, userID string) ([]model.LearningPlan, error) {
	var plans []model.LearningPlan
	if err := p.rc.Get(ctx, "fetch learning plans", "/plans/user/"+seg(userID), &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (p *Plans) Create(ctx context.Context, req model.PlanRequest) (*model.LearningPlan, error) {
	var plan model.LearningPlan
	if _, err := p.rc.Post(ctx, "create learning plan", "/plans", req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (p *Plans) Update(ctx context.Context, id string, req model.PlanRequest) (*model.LearningPlan, error) {
	var plan model.LearningPlan
	if err := p.rc.Put(ctx, "update learning plan", "/plans/"+seg(id), req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (p *Plans) Delete(ctx context.Context, id string) error {
	return p.rc.Delete(ctx, "delete learning plan", "/plans/"+seg(id))
}

// Like toggles the current user's like on a plan and returns the updated plan.
func (p *Plans) Like(ctx context.Context, id string) (*model.LearningPlan, error) {
	var plan model.LearningPlan
	if _, err := p.rc.Post(ctx, "like learning plan", "/plans/"+seg(id)+"/like", nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
