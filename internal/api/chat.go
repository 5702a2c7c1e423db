package api

import (
	"context"
	"net/url"

	"skillshare/internal/model"
	"skillshare/internal/transport/rest"
)

type Chat struct {
	rc *rest.Client
}

// ConversationBetween returns the conversation between two users, or nil
// when they have never talked.
func (c *Chat) ConversationBetween(ctx context.Context, user1, user2 string) (*model.Conversation, error) {
	q := url.Values{}
	q.Set("user1", user1)
	q.Set("user2", user2)

	var conv model.Conversation
	err := c.rc.Get(ctx, "load conversation", "/chat/conversations/between?"+q.Encode(), &conv)
	if rest.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if conv.ID == "" {
		return nil, nil
	}
	return &conv, nil
}

func (c *Chat) CreateConversation(ctx context.Context, user1, user2 string) (*model.Conversation, error) {
	req := model.CreateConversationRequest{User1ID: user1, User2ID: user2}

	var conv model.Conversation
	if _, err := c.rc.Post(ctx, "start conversation", "/chat/conversations", req, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (c *Chat) Messages(ctx context.Context, conversationID string) ([]model.Message, error) {
	var msgs []model.Message
	if err := c.rc.Get(ctx, "load messages", "/chat/conversations/"+seg(conversationID)+"/messages", &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Chat) Send(ctx context.Context, req model.SendMessageRequest) (*model.Message, error) {
	var msg model.Message
	if _, err := c.rc.Post(ctx, "send message", "/chat/messages", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Chat) UpdateMessage(ctx context.Context, id, content string) (*model.Message, error) {
	var msg model.Message
	if err := c.rc.Put(ctx, "update message", "/chat/messages/"+seg(id), model.UpdateMessageRequest{Content: content}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Chat) DeleteMessage(ctx context.Context, id string) error {
	return c.rc.Delete(ctx, "delete message", "/chat/messages/"+seg(id))
}
