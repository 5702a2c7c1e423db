package api

import (
	"context"
	"net/http"

	"skillshare/internal/model"
	"skillshare/internal/transport/rest"
)

type Likes struct {
	rc *rest.Client
}

// Toggle sets the current user's reaction on a post. ReactionNone, or the
// reaction already held, removes it; the backend then answers 204 and
// Toggle returns nil.
func (l *Likes) Toggle(ctx context.Context, postID string, reaction model.ReactionType) (*model.Like, error) {
	req := model.ToggleLikeRequest{PostID: postID, ReactionType: reaction}

	var like model.Like
	status, err := l.rc.Post(ctx, "toggle like", "/likes/toggle", req, &like)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent || like.PostID == "" {
		return nil, nil
	}
	return &like, nil
}

func (l *Likes) Summary(ctx context.Context, postID string) (*model.LikeSummary, error) {
	var s model.LikeSummary
	if err := l.rc.Get(ctx, "load reactions", "/likes/"+seg(postID)+"/summary", &s); err != nil {
		return nil, err
	}
	if s.ReactionCounts == nil {
		s.ReactionCounts = map[model.ReactionType]int{}
	}
	return &s, nil
}

func (l *Likes) Unlike(ctx context.Context, postID string) error {
	return l.rc.Delete(ctx, "unlike post", "/likes/"+seg(postID))
}
