package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/saravenpi/parley/internal/api"
)

type loginResultMsg struct {
	res *api.AuthResponse
	err error
}

type LoginModel struct {
	app           *App
	emailInput    textinput.Model
	passwordInput textinput.Model
	focusIndex    int
	submitting    bool
	errText       string
	spinner       spinner.Model
	windowWidth   int
	windowHeight  int
}

// NewLoginModel creates the login form.
func NewLoginModel(app *App) LoginModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	emailInput := textinput.New()
	emailInput.Placeholder = "Email"
	emailInput.Focus()
	emailInput.CharLimit = 100
	emailInput.Width = 50

	passwordInput := textinput.New()
	passwordInput.Placeholder = "Password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.CharLimit = 100
	passwordInput.Width = 50

	return LoginModel{
		app:           app,
		emailInput:    emailInput,
		passwordInput: passwordInput,
		spinner:       s,
		windowWidth:   80,
		windowHeight:  30,
	}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.app.Client.Login(context.Background(), email, password)
		return loginResultMsg{res: res, err: err}
	}
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = api.Description(msg.err)
			return m, nil
		}

		if err := m.app.Session.SetPrivateKey(msg.res.PrivateKey); err != nil {
			m.app.Logger.Errorw("failed to persist private key", "error", err)
		}

		chatModel := NewChatModel(m.app)
		if m.windowWidth > 0 {
			updatedModel, _ := chatModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
			chatModel = updatedModel.(ChatModel)
		}
		return chatModel, chatModel.Init()

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+r":
			registerModel := NewRegisterModel(m.app)
			if m.windowWidth > 0 {
				updatedModel, _ := registerModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
				registerModel = updatedModel.(RegisterModel)
			}
			return registerModel, registerModel.Init()

		case "tab", "shift+tab", "up", "down":
			m.focusIndex = (m.focusIndex + 1) % 2
			if m.focusIndex == 0 {
				m.emailInput.Focus()
				m.passwordInput.Blur()
			} else {
				m.emailInput.Blur()
				m.passwordInput.Focus()
			}
			return m, nil

		case "enter":
			if m.submitting {
				return m, nil
			}
			email := m.emailInput.Value()
			password := m.passwordInput.Value()
			if email == "" || password == "" {
				return m, nil
			}
			m.errText = ""
			m.submitting = true
			return m, tea.Batch(m.spinner.Tick, m.loginCmd(email, password))
		}
	}

	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m LoginModel) View() string {
	emailLabel := "  Email:"
	passwordLabel := "  Password:"
	if m.focusIndex == 0 {
		emailLabel = "> Email:"
	} else {
		passwordLabel = "> Password:"
	}

	content := titleStyle.Render("Parley - Login") + "\n"
	content += warnStyle.Render("Warning: logging in on a new device makes previous messages unrecoverable on every device.") + "\n\n"
	content += promptBoxStyle.Render(
		emailLabel + "\n" +
			m.emailInput.View() + "\n\n" +
			passwordLabel + "\n" +
			m.passwordInput.View(),
	)

	if m.submitting {
		content += "\n\n  " + m.spinner.View() + " Logging in..."
	}

	if m.errText != "" {
		content += "\n\n" + errorStyle.Render("Error: "+m.errText)
	}

	content += "\n\n" + helpStyle.Render("tab: switch field • enter: login • ctrl+r: register • ctrl+c: quit")

	return content
}
