// Package chat holds the state of the direct-message screen: the selected
// contact, the conversation with them and its messages.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"skillshare/internal/model"
	"skillshare/internal/scope"
	"skillshare/internal/session"
)

// ErrSuperseded is returned when another contact was selected while a
// request for the previous one was in flight. Its result was discarded.
var ErrSuperseded = errors.New("chat: contact selection changed")

// ChatAPI is the subset of api.Chat the manager uses.
type ChatAPI interface {
	ConversationBetween(ctx context.Context, user1, user2 string) (*model.Conversation, error)
	CreateConversation(ctx context.Context, user1, user2 string) (*model.Conversation, error)
	Messages(ctx context.Context, conversationID string) ([]model.Message, error)
	Send(ctx context.Context, req model.SendMessageRequest) (*model.Message, error)
	UpdateMessage(ctx context.Context, id, content string) (*model.Message, error)
	DeleteMessage(ctx context.Context, id string) error
}

// CanModify reports whether the current user may edit or delete a message.
// Only its sender may.
func CanModify(currentUserID, senderID string) bool {
	return currentUserID != "" && currentUserID == senderID
}

type Manager struct {
	api      ChatAPI
	identity session.Identity
	scope    *scope.Scope
	logger   *zap.Logger

	mu           sync.Mutex
	gen          uint64
	contact      *model.User
	conversation *model.Conversation
	messages     []model.Message
	sending      bool
	listeners    []func()
}

func NewManager(api ChatAPI, identity session.Identity, sc *scope.Scope, logger *zap.Logger) *Manager {
	if sc == nil {
		sc = scope.New(context.Background())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		api:      api,
		identity: identity,
		scope:    sc,
		logger:   logger.Named("chat"),
	}
}

func (m *Manager) currentUser() string {
	if m.identity == nil || !m.identity.Authenticated() {
		return ""
	}
	return m.identity.UserID()
}

// OnChange registers f to run after the message list changes.
func (m *Manager) OnChange(f func()) {
	m.mu.Lock()
	m.listeners = append(m.listeners, f)
	m.mu.Unlock()
}

func (m *Manager) notify() {
	m.mu.Lock()
	ls := append([]func(){}, m.listeners...)
	m.mu.Unlock()
	for _, f := range ls {
		f()
	}
}

// current reports whether gen is still the active selection. Callers hold mu.
func (m *Manager) current(gen uint64) bool {
	return gen == m.gen && !m.scope.Closed()
}

// Select switches to contact and loads the existing conversation, if any.
// A conversation that does not exist yet is created on the first Send.
func (m *Manager) Select(ctx context.Context, contact model.User) error {
	me := m.currentUser()
	if me == "" {
		return model.ErrLoginRequired
	}

	m.mu.Lock()
	m.gen++
	gen := m.gen
	c := contact
	m.contact = &c
	m.conversation = nil
	m.messages = nil
	m.mu.Unlock()
	m.notify()

	ctx, cancel := m.scope.Bind(ctx)
	defer cancel()

	conv, err := m.api.ConversationBetween(ctx, me, contact.ID)
	if err := m.settle(gen, err); err != nil {
		return err
	}
	if conv == nil {
		return nil
	}

	msgs, err := m.api.Messages(ctx, conv.ID)
	m.mu.Lock()
	if !m.current(gen) {
		m.mu.Unlock()
		return m.staleErr()
	}
	m.conversation = conv
	if err == nil {
		m.messages = append([]model.Message(nil), msgs...)
	}
	m.mu.Unlock()
	if err != nil {
		m.logger.Warn("load messages failed", zap.String("conversation_id", conv.ID), zap.Error(err))
		return err
	}
	m.notify()
	return nil
}

// Refresh reloads the selected conversation's messages without changing the
// selection. If no conversation existed yet, it looks again in case the
// contact started one.
func (m *Manager) Refresh(ctx context.Context) error {
	me := m.currentUser()
	if me == "" {
		return model.ErrLoginRequired
	}

	m.mu.Lock()
	if m.contact == nil {
		m.mu.Unlock()
		return nil
	}
	gen := m.gen
	contactID := m.contact.ID
	conv := m.conversation
	m.mu.Unlock()

	ctx, cancel := m.scope.Bind(ctx)
	defer cancel()

	if conv == nil {
		found, err := m.api.ConversationBetween(ctx, me, contactID)
		if err := m.settle(gen, err); err != nil {
			return err
		}
		if found == nil {
			return nil
		}
		conv = found
	}

	msgs, err := m.api.Messages(ctx, conv.ID)
	if err := m.settle(gen, err); err != nil {
		return err
	}

	m.mu.Lock()
	if !m.current(gen) {
		m.mu.Unlock()
		return m.staleErr()
	}
	m.conversation = conv
	m.messages = append([]model.Message(nil), msgs...)
	m.mu.Unlock()
	m.notify()
	return nil
}

// settle turns a finished request into the error the caller sees, checking
// that the selection it was made for is still active.
func (m *Manager) settle(gen uint64, err error) error {
	m.mu.Lock()
	ok := m.current(gen)
	m.mu.Unlock()
	if !ok {
		return m.staleErr()
	}
	return err
}

func (m *Manager) staleErr() error {
	if m.scope.Closed() {
		return model.ErrViewClosed
	}
	return ErrSuperseded
}

// Send posts content to the selected contact, creating the conversation on
// the first message.
func (m *Manager) Send(ctx context.Context, content string) (*model.Message, error) {
	me := m.currentUser()
	if me == "" {
		return nil, model.ErrLoginRequired
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, model.ErrContentRequired
	}

	m.mu.Lock()
	if m.contact == nil {
		m.mu.Unlock()
		return nil, model.ErrNoContactSelected
	}
	if m.sending {
		m.mu.Unlock()
		return nil, model.ErrBusy
	}
	m.sending = true
	gen := m.gen
	contactID := m.contact.ID
	conv := m.conversation
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.sending = false
		m.mu.Unlock()
	}()

	ctx, cancel := m.scope.Bind(ctx)
	defer cancel()

	if conv == nil {
		created, err := m.api.CreateConversation(ctx, me, contactID)
		if err := m.settle(gen, err); err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.conversation = created
		m.mu.Unlock()
		conv = created
	}

	msg, err := m.api.Send(ctx, model.SendMessageRequest{
		ConversationID: conv.ID,
		SenderID:       me,
		ReceiverID:     contactID,
		Content:        content,
	})
	if err := m.settle(gen, err); err != nil {
		if !errors.Is(err, ErrSuperseded) && !errors.Is(err, model.ErrViewClosed) {
			m.logger.Warn("send message failed", zap.Error(err))
		}
		return nil, err
	}

	m.mu.Lock()
	if !m.current(gen) {
		m.mu.Unlock()
		return nil, m.staleErr()
	}
	m.messages = append(m.messages, *msg)
	m.mu.Unlock()
	m.notify()
	return msg, nil
}

// Sending reports whether a Send is in flight.
func (m *Manager) Sending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sending
}

// Edit changes one of the current user's messages. Blank or unchanged
// content leaves it alone and returns false.
func (m *Manager) Edit(ctx context.Context, id, content string) (bool, error) {
	me := m.currentUser()
	if me == "" {
		return false, model.ErrLoginRequired
	}
	existing, gen, ok := m.find(id)
	if !ok {
		return false, model.ErrMessageNotFound
	}
	if !CanModify(me, existing.Sender.ID) {
		return false, model.ErrNotMessageSender
	}
	content = strings.TrimSpace(content)
	if content == "" || content == existing.Content {
		return false, nil
	}

	ctx, cancel := m.scope.Bind(ctx)
	defer cancel()
	updated, err := m.api.UpdateMessage(ctx, id, content)
	if err := m.settle(gen, err); err != nil {
		return false, err
	}

	m.mu.Lock()
	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages[i] = *updated
			break
		}
	}
	m.mu.Unlock()
	m.notify()
	return true, nil
}

// Delete removes one of the current user's messages.
func (m *Manager) Delete(ctx context.Context, id string) error {
	me := m.currentUser()
	if me == "" {
		return model.ErrLoginRequired
	}
	existing, gen, ok := m.find(id)
	if !ok {
		return model.ErrMessageNotFound
	}
	if !CanModify(me, existing.Sender.ID) {
		return model.ErrNotMessageSender
	}

	ctx, cancel := m.scope.Bind(ctx)
	defer cancel()
	err := m.api.DeleteMessage(ctx, id)
	if err := m.settle(gen, err); err != nil {
		return err
	}

	m.mu.Lock()
	kept := m.messages[:0:0]
	for _, msg := range m.messages {
		if msg.ID != id {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	m.mu.Unlock()
	m.notify()
	return nil
}

func (m *Manager) find(id string) (model.Message, uint64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ID == id {
			return msg, m.gen, true
		}
	}
	return model.Message{}, m.gen, false
}

// Contact returns the selected contact, or nil.
func (m *Manager) Contact() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.contact == nil {
		return nil
	}
	c := *m.contact
	return &c
}

// Conversation returns the active conversation, or nil before the first
// message to a new contact.
func (m *Manager) Conversation() *model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conversation == nil {
		return nil
	}
	c := *m.conversation
	return &c
}

// Messages returns a copy of the message list in send order.
func (m *Manager) Messages() []model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Message(nil), m.messages...)
}

// CanModify reports whether the current user may change msg.
func (m *Manager) CanModify(msg model.Message) bool {
	return CanModify(m.currentUser(), msg.Sender.ID)
}

// Group is a run of messages sent on the same calendar day.
type Group struct {
	Label    string
	Day      time.Time
	Messages []model.Message
}

// DayLabelLayout formats group headings, e.g. "Monday, January 2".
const DayLabelLayout = "Monday, January 2"

// Groups splits the message list into calendar-day runs in loc, keeping
// message order. A nil loc means local time.
func (m *Manager) Groups(loc *time.Location) []Group {
	return GroupByDay(m.Messages(), loc)
}

func GroupByDay(msgs []model.Message, loc *time.Location) []Group {
	if loc == nil {
		loc = time.Local
	}
	var groups []Group
	for _, msg := range msgs {
		t := msg.SentAt.In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if n := len(groups); n == 0 || !groups[n-1].Day.Equal(day) {
			groups = append(groups, Group{Label: day.Format(DayLabelLayout), Day: day})
		}
		last := &groups[len(groups)-1]
		last.Messages = append(last.Messages, msg)
	}
	return groups
}
