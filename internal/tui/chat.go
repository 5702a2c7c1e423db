// Package tui is the terminal chat screen: a contact list with search on the
// left, the selected conversation grouped by day on the right.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"skillshare/internal/chat"
	"skillshare/internal/listing"
	"skillshare/internal/model"
)

// DefaultPollInterval is how often the open conversation is refreshed.
const DefaultPollInterval = 3 * time.Second

// ContactSource lists the users that can be messaged.
type ContactSource interface {
	List(ctx context.Context) ([]model.User, error)
}

// --- Styles ---

var (
	primaryColor = lipgloss.Color("#7C3AED")
	selfColor    = lipgloss.Color("#10B981")
	mutedColor   = lipgloss.Color("#9CA3AF")
	errorColor   = lipgloss.Color("#EF4444")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1).
			MarginRight(1)

	chatWindowStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(selfColor).
				Bold(true).
				PaddingLeft(1).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(selfColor)

	unselectedItemStyle = lipgloss.NewStyle().PaddingLeft(2)

	dayStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true).
			Align(lipgloss.Center)

	ownMessageStyle   = lipgloss.NewStyle().Foreground(selfColor)
	otherMessageStyle = lipgloss.NewStyle().Foreground(primaryColor)
	mutedStyle        = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle        = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)

type focus int

const (
	focusContacts focus = iota
	focusInput
)

// --- Messages ---

type contactsMsg struct {
	users []model.User
	err   error
}

type selectedMsg struct{ err error }

type sentMsg struct{ err error }

type refreshedMsg struct{ err error }

type tickMsg time.Time

// ChatModel is the bubbletea model for the chat screen.
type ChatModel struct {
	ctx       context.Context
	mgr       *chat.Manager
	contacts  ContactSource
	me        string
	loc       *time.Location
	pollEvery time.Duration

	all     []model.User
	visible []model.User
	cursor  int
	focus   focus

	search textinput.Model
	input  textinput.Model
	view   viewport.Model

	width  int
	height int
	err    error
}

// NewChatModel builds the screen for the user me. loc controls day
// grouping; nil means local time.
func NewChatModel(ctx context.Context, mgr *chat.Manager, contacts ContactSource, me string, loc *time.Location) ChatModel {
	if loc == nil {
		loc = time.Local
	}

	search := textinput.New()
	search.Placeholder = "Search contacts"
	search.Prompt = "/ "
	search.CharLimit = 64
	search.Focus()

	input := textinput.New()
	input.Placeholder = "Type a message"
	input.CharLimit = 1000

	return ChatModel{
		ctx:       ctx,
		mgr:       mgr,
		contacts:  contacts,
		me:        me,
		loc:       loc,
		pollEvery: DefaultPollInterval,
		search:    search,
		input:     input,
		view:      viewport.New(60, 15),
		width:     100,
		height:    24,
	}
}

func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadContacts(), m.tick())
}

func (m ChatModel) loadContacts() tea.Cmd {
	return func() tea.Msg {
		users, err := m.contacts.List(m.ctx)
		return contactsMsg{users: users, err: err}
	}
}

func (m ChatModel) selectContact(u model.User) tea.Cmd {
	return func() tea.Msg {
		return selectedMsg{err: m.mgr.Select(m.ctx, u)}
	}
}

func (m ChatModel) send(content string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.mgr.Send(m.ctx, content)
		return sentMsg{err: err}
	}
}

func (m ChatModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: m.mgr.Refresh(m.ctx)}
	}
}

func (m ChatModel) tick() tea.Cmd {
	if m.pollEvery <= 0 {
		return nil
	}
	return tea.Tick(m.pollEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.toggleFocus()
			return m, nil
		}

		if m.focus == focusContacts {
			switch msg.Type {
			case tea.KeyUp:
				if m.cursor > 0 {
					m.cursor--
				}
				return m, nil
			case tea.KeyDown:
				if m.cursor < len(m.visible)-1 {
					m.cursor++
				}
				return m, nil
			case tea.KeyEnter:
				if len(m.visible) == 0 {
					return m, nil
				}
				m.err = nil
				m.toggleFocus()
				return m, m.selectContact(m.visible[m.cursor])
			}
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		if msg.Type == tea.KeyEnter {
			content := m.input.Value()
			if strings.TrimSpace(content) == "" {
				return m, nil
			}
			m.input.Reset()
			m.err = nil
			return m, m.send(content)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.render()

	case contactsMsg:
		m.err = msg.err
		m.all = msg.users
		m.applyFilter()

	case selectedMsg:
		m.setErr(msg.err)
		m.render()
		m.view.GotoBottom()

	case sentMsg:
		m.setErr(msg.err)
		m.render()
		m.view.GotoBottom()

	case refreshedMsg:
		m.setErr(msg.err)
		atBottom := m.view.AtBottom()
		m.render()
		if atBottom {
			m.view.GotoBottom()
		}

	case tickMsg:
		cmds = append(cmds, m.refresh(), m.tick())

	default:
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *ChatModel) setErr(err error) {
	if errors.Is(err, chat.ErrSuperseded) {
		return
	}
	m.err = err
}

func (m *ChatModel) toggleFocus() {
	if m.focus == focusContacts {
		m.focus = focusInput
		m.search.Blur()
		m.input.Focus()
		return
	}
	m.focus = focusContacts
	m.input.Blur()
	m.search.Focus()
}

func (m *ChatModel) applyFilter() {
	m.visible = listing.FilterContacts(m.all, m.me, m.search.Value())
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m *ChatModel) sidebarWidth() int {
	return max(m.width/4, 20)
}

func (m *ChatModel) resize() {
	chatWidth := m.width - m.sidebarWidth() - 4
	m.view.Width = max(chatWidth-2, 10)
	m.view.Height = max(m.height-8, 3)
	m.input.Width = max(chatWidth-6, 10)
}

// render rebuilds the viewport content from the manager's messages.
func (m *ChatModel) render() {
	var b strings.Builder
	for _, g := range m.mgr.Groups(m.loc) {
		b.WriteString(dayStyle.Width(m.view.Width).Render(g.Label))
		b.WriteString("\n")
		for _, msg := range g.Messages {
			b.WriteString(m.renderMessage(msg))
			b.WriteString("\n")
		}
	}
	if b.Len() == 0 && m.mgr.Contact() != nil {
		b.WriteString(mutedStyle.Render("No messages yet. Say hello!"))
	}
	m.view.SetContent(b.String())
}

func (m *ChatModel) renderMessage(msg model.Message) string {
	name := msg.Sender.Username
	style := otherMessageStyle
	if msg.Sender.ID == m.me {
		name = "You"
		style = ownMessageStyle
	}
	line := fmt.Sprintf("%s %s %s",
		mutedStyle.Render(msg.SentAt.In(m.loc).Format("15:04")),
		style.Bold(true).Render(name+":"),
		msg.Content)
	if msg.Edited {
		line += mutedStyle.Render(" (edited)")
	}
	return line
}

func (m ChatModel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), m.chatWindowView()),
		m.statusView(),
	)
}

func (m ChatModel) sidebarView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Contacts"))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")
	if len(m.visible) == 0 {
		b.WriteString(mutedStyle.Render("No users found"))
	}
	for i, u := range m.visible {
		label := u.Username
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render(label))
		} else {
			b.WriteString(unselectedItemStyle.Render(label))
		}
		b.WriteString("\n")
	}
	return sidebarStyle.Width(m.sidebarWidth()).Height(max(m.height-4, 3)).Render(b.String())
}

func (m ChatModel) chatWindowView() string {
	header := mutedStyle.Render("Select a contact to start chatting")
	if c := m.mgr.Contact(); c != nil {
		header = titleStyle.Render(c.FullName())
		if m.mgr.Sending() {
			header += mutedStyle.Render(" sending...")
		}
	}
	body := lipgloss.JoinVertical(lipgloss.Left, header, m.view.View(), m.input.View())
	return chatWindowStyle.Render(body)
}

func (m ChatModel) statusView() string {
	if m.err != nil {
		return errorStyle.Render(m.err.Error())
	}
	return mutedStyle.Render("tab: switch focus • enter: select/send • esc: quit")
}

// Run starts the chat screen in the alternate screen buffer and blocks
// until the user quits or ctx ends.
func Run(ctx context.Context, mgr *chat.Manager, contacts ContactSource, me string) error {
	p := tea.NewProgram(NewChatModel(ctx, mgr, contacts, me, nil), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
