package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/saravenpi/parley/internal/models"
)

type chatFocus int

const (
	focusList chatFocus = iota
	focusSearch
	focusCompose
	focusPrompt
)

type chatsFetchedMsg struct {
	chats []models.Chat
	err   error
}

// chatDetailMsg reports the outcome of the detail fetch fired on selection.
// The payload is discarded; local data is trusted over the fetch result.
type chatDetailMsg struct {
	seq int
	err error
}

type newChatMsg struct {
	seq      int
	chat     *models.Chat
	err      error
	notFound bool
}

// ChatModel is the two-pane chat view: the conversation list on the left and
// the selected thread on the right. Selection is tracked by chat ID and the
// selected chat is looked up in the list on every use, so the list and the
// selection cannot diverge. Async responses carry a sequence number; a
// response for a superseded request is dropped.
type ChatModel struct {
	app *App

	chats      []models.Chat
	selectedID string
	cursor     int
	focus      chatFocus

	searchInput textinput.Model
	draftInput  textinput.Model

	promptOpen  bool
	promptBusy  bool
	promptInput textinput.Model

	viewport viewport.Model
	spinner  spinner.Model
	loading  bool
	toast    toast

	detailSeq int
	promptSeq int

	windowWidth  int
	windowHeight int
}

// NewChatModel creates the chat view. The chat list is fetched on Init.
func NewChatModel(app *App) ChatModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	searchInput := textinput.New()
	searchInput.Placeholder = "Search chats..."
	searchInput.CharLimit = 50
	searchInput.Width = 24

	draftInput := textinput.New()
	draftInput.Placeholder = "Type a message..."
	draftInput.CharLimit = 1000
	draftInput.Width = 50

	promptInput := textinput.New()
	promptInput.Placeholder = "Enter username without @"
	promptInput.CharLimit = 50
	promptInput.Width = 40

	vp := viewport.New(80, 20)

	return ChatModel{
		app:          app,
		searchInput:  searchInput,
		draftInput:   draftInput,
		promptInput:  promptInput,
		viewport:     vp,
		spinner:      s,
		loading:      true,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchChatsCmd())
}

func (m ChatModel) fetchChatsCmd() tea.Cmd {
	return func() tea.Msg {
		chats, err := m.app.Client.UserChats(context.Background())
		return chatsFetchedMsg{chats: chats, err: err}
	}
}

func (m ChatModel) fetchDetailCmd(id string, seq int) tea.Cmd {
	return func() tea.Msg {
		_, err := m.app.Client.Chat(context.Background(), id)
		return chatDetailMsg{seq: seq, err: err}
	}
}

func (m ChatModel) startChatCmd(username string, seq int) tea.Cmd {
	return func() tea.Msg {
		user, err := m.app.Client.SearchUser(context.Background(), username)
		if err != nil {
			return newChatMsg{seq: seq, err: err, notFound: true}
		}

		res, err := m.app.Client.CreateChat(context.Background(), user.ID)
		if err != nil {
			return newChatMsg{seq: seq, err: err}
		}

		return newChatMsg{seq: seq, chat: &models.Chat{
			ID:          res.ChatID,
			Name:        user.Username,
			Avatar:      user.Avatar,
			LastMessage: "",
		}}
	}
}

// filteredChats returns the chats whose name contains the search term,
// case-insensitively. An empty term yields the full list. The underlying
// list is never mutated.
func (m ChatModel) filteredChats() []models.Chat {
	term := m.searchInput.Value()
	if term == "" {
		return m.chats
	}

	lowered := strings.ToLower(term)
	filtered := make([]models.Chat, 0, len(m.chats))
	for _, chat := range m.chats {
		if strings.Contains(strings.ToLower(chat.Name), lowered) {
			filtered = append(filtered, chat)
		}
	}
	return filtered
}

// selectedChat looks the selection up in the list by ID. Returns nil when
// nothing is selected.
func (m ChatModel) selectedChat() *models.Chat {
	if m.selectedID == "" {
		return nil
	}
	for i := range m.chats {
		if m.chats[i].ID == m.selectedID {
			return &m.chats[i]
		}
	}
	return nil
}

func (m *ChatModel) clampCursor() {
	if n := len(m.filteredChats()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selectChat marks the chat as selected and fires the detail fetch. The
// selection proceeds regardless of how that fetch turns out.
func (m *ChatModel) selectChat(chat models.Chat) tea.Cmd {
	m.selectedID = chat.ID
	m.detailSeq++
	m.updateViewportContent()
	m.viewport.GotoBottom()
	return m.fetchDetailCmd(chat.ID, m.detailSeq)
}

// sendMessage appends the draft to the selected chat. Empty or
// whitespace-only drafts and sends without a selection are no-ops. The
// message lives only in this session; nothing is persisted server-side.
func (m *ChatModel) sendMessage() {
	content := strings.TrimSpace(m.draftInput.Value())
	if content == "" {
		return
	}

	selected := m.selectedChat()
	if selected == nil {
		return
	}

	msg := models.Message{
		ID:        len(selected.Messages) + 1,
		Sender:    "You",
		Content:   content,
		Timestamp: time.Now().Format("3:04 PM"),
	}

	for i := range m.chats {
		if m.chats[i].ID == selected.ID {
			m.chats[i].Messages = append(m.chats[i].Messages, msg)
			m.chats[i].LastMessage = msg.Content
			break
		}
	}

	m.draftInput.Reset()
	m.updateViewportContent()
	m.viewport.GotoBottom()
}

// startNewChat handles the prompt submit. A name matching an existing chat
// selects it with no network call; anything else goes through user search
// and chat creation.
func (m *ChatModel) startNewChat() tea.Cmd {
	name := strings.TrimSpace(m.promptInput.Value())
	if name == "" {
		return nil
	}

	for _, chat := range m.chats {
		if chat.Name == name {
			m.selectedID = chat.ID
			m.promptOpen = false
			m.promptInput.Reset()
			m.focus = focusList
			m.updateViewportContent()
			m.viewport.GotoBottom()
			return nil
		}
	}

	m.promptBusy = true
	m.promptSeq++
	return tea.Batch(m.spinner.Tick, m.startChatCmd(name, m.promptSeq))
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.viewport.Width = m.threadWidth() - 2
		m.viewport.Height = msg.Height - 8
		if m.viewport.Height < 3 {
			m.viewport.Height = 3
		}
		m.draftInput.Width = m.threadWidth() - 4
		m.updateViewportContent()
		return m, nil

	case chatsFetchedMsg:
		m.loading = false
		if msg.err != nil {
			// The list silently stays as it was; the failure only
			// goes to the log.
			m.app.Logger.Warnw("failed to fetch chats", "error", msg.err)
			return m, nil
		}
		if msg.chats != nil {
			m.chats = msg.chats
		}
		m.clampCursor()
		m.updateViewportContent()
		return m, nil

	case chatDetailMsg:
		if msg.seq != m.detailSeq {
			return m, nil
		}
		if msg.err != nil {
			m.app.Logger.Warnw("failed to fetch chat detail", "error", msg.err)
			var cmd tea.Cmd
			m.toast, cmd = newToast(toastFailure, "Something went wrong")
			return m, cmd
		}
		return m, nil

	case newChatMsg:
		if msg.seq != m.promptSeq {
			return m, nil
		}
		m.promptBusy = false
		if msg.err != nil {
			m.app.Logger.Warnw("failed to start chat", "error", msg.err)
			text := "Something went wrong"
			if msg.notFound {
				text = "User not found"
			}
			var cmd tea.Cmd
			m.toast, cmd = newToast(toastFailure, text)
			return m, cmd
		}

		m.chats = append([]models.Chat{*msg.chat}, m.chats...)
		m.promptOpen = false
		m.promptInput.Reset()
		m.focus = focusList
		m.cursor = 0
		return m, nil

	case toastExpiredMsg:
		if msg.id == m.toast.id {
			m.toast = toast{}
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.promptBusy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m ChatModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.promptOpen {
		return m.handlePromptKey(msg)
	}

	switch m.focus {
	case focusSearch:
		switch msg.String() {
		case "esc", "enter":
			m.searchInput.Blur()
			m.focus = focusList
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.clampCursor()
			return m, cmd
		}

	case focusCompose:
		switch msg.String() {
		case "esc":
			m.draftInput.Blur()
			m.focus = focusList
			return m, nil
		case "enter":
			m.sendMessage()
			return m, nil
		default:
			var cmd tea.Cmd
			m.draftInput, cmd = m.draftInput.Update(msg)
			return m, cmd
		}
	}

	// List focus.
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.filteredChats())-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		filtered := m.filteredChats()
		if m.cursor < len(filtered) {
			cmd := m.selectChat(filtered[m.cursor])
			return m, cmd
		}
		return m, nil

	case "/":
		m.focus = focusSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case "n":
		m.promptOpen = true
		m.focus = focusPrompt
		m.promptInput.Focus()
		return m, textinput.Blink

	case "m", "tab":
		if m.selectedChat() != nil {
			m.focus = focusCompose
			m.draftInput.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case "r":
		if !m.loading {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetchChatsCmd())
		}
		return m, nil

	case "ctrl+l":
		if err := m.app.Session.Clear(); err != nil {
			m.app.Logger.Errorw("failed to clear session", "error", err)
		}
		loginModel := NewLoginModel(m.app)
		if m.windowWidth > 0 {
			updatedModel, _ := loginModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
			loginModel = updatedModel.(LoginModel)
		}
		return loginModel, loginModel.Init()

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
}

func (m ChatModel) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if !m.promptBusy {
			m.promptOpen = false
			m.promptInput.Reset()
			m.focus = focusList
		}
		return m, nil

	case "enter":
		if m.promptBusy {
			return m, nil
		}
		cmd := m.startNewChat()
		return m, cmd

	default:
		var cmd tea.Cmd
		m.promptInput, cmd = m.promptInput.Update(msg)
		// Usernames have no spaces; drop them as typed.
		m.promptInput.SetValue(strings.ReplaceAll(m.promptInput.Value(), " ", ""))
		return m, cmd
	}
}

func (m ChatModel) listWidth() int {
	w := m.windowWidth / 3
	if w < 24 {
		w = 24
	}
	return w
}

func (m ChatModel) threadWidth() int {
	w := m.windowWidth - m.listWidth()
	if w < 30 {
		w = 30
	}
	return w
}

func (m *ChatModel) updateViewportContent() {
	selected := m.selectedChat()
	if selected == nil {
		m.viewport.SetContent("")
		return
	}

	wrapWidth := m.viewport.Width
	if wrapWidth <= 0 {
		wrapWidth = 80
	}

	var content strings.Builder
	for i, message := range selected.Messages {
		if i > 0 {
			content.WriteString("\n")
		}

		if message.Sender == "You" {
			header := messageHeaderStyle.Render(fmt.Sprintf("%s • %s", message.Sender, message.Timestamp))
			content.WriteString(lipgloss.NewStyle().Align(lipgloss.Right).Width(wrapWidth).Render(header) + "\n")
			wrapped := wordwrap.String(message.Content, wrapWidth-10)
			styled := messageFromMeStyle.Render(wrapped)
			content.WriteString(lipgloss.NewStyle().Align(lipgloss.Right).Width(wrapWidth).Render(styled) + "\n")
		} else {
			sender := message.Sender
			if sender == "" {
				sender = selected.Name
			}
			header := messageHeaderStyle.Render(fmt.Sprintf("%s • %s", sender, message.Timestamp))
			content.WriteString(header + "\n")
			wrapped := wordwrap.String(message.Content, wrapWidth-10)
			content.WriteString(messageFromOtherStyle.Render(wrapped) + "\n")
		}
	}

	m.viewport.SetContent(content.String())
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func (m ChatModel) renderList() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Chats") + "\n")
	b.WriteString(m.searchInput.View() + "\n\n")

	filtered := m.filteredChats()
	if len(filtered) == 0 {
		b.WriteString(helpStyle.Render("No chats.") + "\n")
	}

	width := m.listWidth() - 4
	for i, chat := range filtered {
		cursor := "  "
		if i == m.cursor && m.focus == focusList {
			cursor = "> "
		}

		name := truncate(chat.Name, width)
		if chat.ID == m.selectedID {
			b.WriteString(cursor + selectedStyle.Render(name) + "\n")
		} else {
			b.WriteString(cursor + normalStyle.Render(name) + "\n")
		}
		b.WriteString("  " + helpStyle.Render(truncate(chat.LastMessage, width)) + "\n")
	}

	return chatListStyle.Width(m.listWidth()).Render(b.String())
}

func (m ChatModel) renderThread() string {
	selected := m.selectedChat()
	if selected == nil {
		empty := "\n\n" + helpStyle.Render("  Select a chat to start messaging")
		return lipgloss.NewStyle().Width(m.threadWidth()).Render(empty)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(selected.Name) + "\n")

	if len(selected.Messages) == 0 {
		b.WriteString(helpStyle.Render("  No messages yet.") + "\n")
	} else {
		b.WriteString(m.viewport.View() + "\n")
	}

	b.WriteString("\n" + m.draftInput.View())

	return lipgloss.NewStyle().Width(m.threadWidth()).Render(b.String())
}

func (m ChatModel) renderPrompt() string {
	content := titleStyle.Render("New Chat") + "\n\n"
	content += promptBoxStyle.Render(
		inputStyle.Render("Username:") + "\n" + m.promptInput.View(),
	)

	if m.promptBusy {
		content += "\n\n  " + m.spinner.View() + " Finding user..."
	}

	if m.toast.active() {
		content += "\n\n" + m.toast.render()
	}

	content += "\n\n" + helpStyle.Render("enter: start chat • esc: cancel")
	return content
}

func (m ChatModel) View() string {
	if m.loading && len(m.chats) == 0 {
		return fmt.Sprintf("\n  %s Loading chats...\n", m.spinner.View())
	}

	if m.promptOpen {
		return m.renderPrompt()
	}

	s := lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(), m.renderThread()) + "\n"

	if m.toast.active() {
		s += m.toast.render() + "\n"
	}

	switch m.focus {
	case focusSearch:
		s += helpStyle.Render("type to filter • enter/esc: done")
	case focusCompose:
		s += helpStyle.Render("enter: send • esc: back to list")
	default:
		s += helpStyle.Render("↑↓/jk: navigate • enter: open • m: message • /: search • n: new chat • r: refresh • ctrl+l: logout • q: quit")
	}

	return s
}
