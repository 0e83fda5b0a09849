package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/saravenpi/parley/internal/api"
)

func TestLogin_EmptyFieldsDoNotSubmit(t *testing.T) {
	t.Parallel()

	m := NewLoginModel(newTestApp(t))

	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(LoginModel)
	require.Nil(t, cmd)
	require.False(t, m.submitting)
}

func TestLogin_SubmitWhileInFlightIsNoop(t *testing.T) {
	t.Parallel()

	m := NewLoginModel(newTestApp(t))
	m.emailInput.SetValue("a@b.c")
	m.passwordInput.SetValue("Secret1!")
	m.submitting = true

	_, cmd := m.Update(keyMsg("enter"))
	require.Nil(t, cmd)
}

func TestLogin_FailureStaysOnLoginView(t *testing.T) {
	t.Parallel()

	m := NewLoginModel(newTestApp(t))
	m.submitting = true

	updated, _ := m.Update(loginResultMsg{err: &api.APIError{Status: 401, Description: "wrong password"}})
	m, ok := updated.(LoginModel)

	require.True(t, ok, "a failed login must not navigate away")
	require.False(t, m.submitting)
	require.Equal(t, "wrong password", m.errText)
}

func TestLogin_SuccessMovesToChatView(t *testing.T) {
	t.Parallel()

	m := NewLoginModel(newTestApp(t))
	m.submitting = true

	updated, cmd := m.Update(loginResultMsg{res: &api.AuthResponse{PrivateKey: "priv"}})
	_, ok := updated.(ChatModel)

	require.True(t, ok)
	require.NotNil(t, cmd)
	require.Equal(t, "priv", m.app.Session.PrivateKey())
}

func TestLogin_CtrlROpensRegister(t *testing.T) {
	t.Parallel()

	m := NewLoginModel(newTestApp(t))
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	_, ok := updated.(RegisterModel)
	require.True(t, ok)
}
