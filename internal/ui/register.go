package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/saravenpi/parley/internal/api"
)

const passwordHint = "Password needs 8+ characters with an uppercase, a lowercase, a digit and one of @ $ ! % * ? &."

type registerResultMsg struct {
	res *api.AuthResponse
	err error
}

type RegisterModel struct {
	app           *App
	usernameInput textinput.Model
	emailInput    textinput.Model
	passwordInput textinput.Model
	confirmInput  textinput.Model
	focusIndex    int
	submitting    bool
	errText       string
	toast         toast
	spinner       spinner.Model
	windowWidth   int
	windowHeight  int
}

// NewRegisterModel creates the registration form.
func NewRegisterModel(app *App) RegisterModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	usernameInput := textinput.New()
	usernameInput.Placeholder = "Username"
	usernameInput.Focus()
	usernameInput.CharLimit = 50
	usernameInput.Width = 50

	emailInput := textinput.New()
	emailInput.Placeholder = "Email"
	emailInput.CharLimit = 100
	emailInput.Width = 50

	passwordInput := textinput.New()
	passwordInput.Placeholder = "Password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.CharLimit = 100
	passwordInput.Width = 50

	confirmInput := textinput.New()
	confirmInput.Placeholder = "Confirm password"
	confirmInput.EchoMode = textinput.EchoPassword
	confirmInput.CharLimit = 100
	confirmInput.Width = 50

	return RegisterModel{
		app:           app,
		usernameInput: usernameInput,
		emailInput:    emailInput,
		passwordInput: passwordInput,
		confirmInput:  confirmInput,
		spinner:       s,
		windowWidth:   80,
		windowHeight:  30,
	}
}

// stripNonAlnum removes everything but ASCII letters and digits, mirroring
// the username filter applied as the user types.
func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validPassword reports whether the password satisfies the complexity rule:
// at least 8 characters, one uppercase, one lowercase, one digit and one of
// @$!%*?&, drawn only from those character classes.
func validPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			special = true
		default:
			return false
		}
	}
	return upper && lower && digit && special
}

func (m RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m RegisterModel) registerCmd(username, email, password string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.app.Client.Register(context.Background(), username, email, password)
		return registerResultMsg{res: res, err: err}
	}
}

// validate runs the client-side checks. It returns an error text, or "" when
// the form may be submitted. No network call happens while this fails.
func (m RegisterModel) validate() string {
	if m.usernameInput.Value() == "" || m.emailInput.Value() == "" || m.passwordInput.Value() == "" {
		return "All fields are required."
	}
	if !validPassword(m.passwordInput.Value()) {
		return passwordHint
	}
	if m.passwordInput.Value() != m.confirmInput.Value() {
		return "Password does not match confirm password."
	}
	return ""
}

func (m RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case registerResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = api.Description(msg.err)
			return m, nil
		}

		if err := m.app.Session.SetPrivateKey(msg.res.PrivateKey); err != nil {
			m.app.Logger.Errorw("failed to persist private key", "error", err)
		}

		// The account still has to be verified by email, so stay here
		// instead of jumping into the chat view.
		var cmd tea.Cmd
		m.toast, cmd = newToast(toastSuccess, "Registered. Please verify via the email sent to you.")
		return m, cmd

	case toastExpiredMsg:
		if msg.id == m.toast.id {
			m.toast = toast{}
		}
		return m, nil

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

		case "esc":
			loginModel := NewLoginModel(m.app)
			if m.windowWidth > 0 {
				updatedModel, _ := loginModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
				loginModel = updatedModel.(LoginModel)
			}
			return loginModel, loginModel.Init()

		case "tab", "down":
			m.focusIndex = (m.focusIndex + 1) % 4
			m.updateFocus()
			return m, nil

		case "shift+tab", "up":
			m.focusIndex = (m.focusIndex + 3) % 4
			m.updateFocus()
			return m, nil

		case "enter":
			if m.submitting {
				return m, nil
			}
			if errText := m.validate(); errText != "" {
				m.errText = errText
				return m, nil
			}
			m.errText = ""
			m.submitting = true
			return m, tea.Batch(
				m.spinner.Tick,
				m.registerCmd(m.usernameInput.Value(), m.emailInput.Value(), m.passwordInput.Value()),
			)
		}
	}

	cmd := m.updateInputs(msg)
	return m, cmd
}

func (m *RegisterModel) updateFocus() {
	inputs := []*textinput.Model{&m.usernameInput, &m.emailInput, &m.passwordInput, &m.confirmInput}
	for i, input := range inputs {
		if i == m.focusIndex {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

func (m *RegisterModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, 4)

	var cmd tea.Cmd
	m.usernameInput, cmd = m.usernameInput.Update(msg)
	cmds = append(cmds, cmd)
	m.usernameInput.SetValue(stripNonAlnum(m.usernameInput.Value()))

	m.emailInput, cmd = m.emailInput.Update(msg)
	cmds = append(cmds, cmd)

	m.passwordInput, cmd = m.passwordInput.Update(msg)
	cmds = append(cmds, cmd)

	m.confirmInput, cmd = m.confirmInput.Update(msg)
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}

func (m RegisterModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Parley - Register") + "\n\n")

	labels := []string{"Username:", "Email:", "Password:", "Confirm password:"}
	views := []string{m.usernameInput.View(), m.emailInput.View(), m.passwordInput.View(), m.confirmInput.View()}
	for i := range labels {
		label := "  " + labels[i]
		if i == m.focusIndex {
			label = "> " + labels[i]
		}
		b.WriteString(inputStyle.Render(label) + "\n")
		b.WriteString(views[i] + "\n\n")
	}

	if m.passwordInput.Value() != "" && !validPassword(m.passwordInput.Value()) {
		b.WriteString(warnStyle.Render(passwordHint) + "\n")
	}
	if m.confirmInput.Value() != "" && m.passwordInput.Value() != m.confirmInput.Value() {
		b.WriteString(warnStyle.Render("Passwords do not match.") + "\n")
	}

	if m.submitting {
		b.WriteString("\n  " + m.spinner.View() + " Registering...\n")
	}

	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.errText) + "\n")
	}

	if m.toast.active() {
		b.WriteString("\n" + m.toast.render() + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("tab/↑↓: navigate • enter: register • esc: back to login • ctrl+c: quit"))

	return b.String()
}
