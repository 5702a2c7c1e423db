package model

import (
	"errors"
	"time"
)

// Conversation is a direct-message thread between exactly two users.
type Conversation struct {
	ID             string    `json:"id"`
	ParticipantIDs []string  `json:"participantIds"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Includes reports whether userID is one of the participants.
func (c Conversation) Includes(userID string) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Message is one chat line.
type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversationId"`
	Sender         UserSummary `json:"sender"`
	ReceiverID     string      `json:"receiverId,omitempty"`
	Content        string      `json:"content"`
	SentAt         time.Time   `json:"sentAt"`
	Edited         bool        `json:"isEdited"`
}

// CreateConversationRequest opens a conversation between two users.
type CreateConversationRequest struct {
	User1ID string `json:"user1Id"`
	User2ID string `json:"user2Id"`
}

// SendMessageRequest posts a message into a conversation.
type SendMessageRequest struct {
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	ReceiverID     string `json:"receiverId"`
	Content        string `json:"content"`
}

// UpdateMessageRequest edits a message body.
type UpdateMessageRequest struct {
	Content string `json:"content"`
}

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrNotMessageSender     = errors.New("only the sender can modify this message")
	ErrNoContactSelected    = errors.New("no contact selected")
	ErrNotParticipant       = errors.New("not a participant in this conversation")
)
