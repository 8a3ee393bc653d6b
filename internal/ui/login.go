package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// enterLogin switches to the login form with the email field focused.
func (m *Model) enterLogin() {
	m.currentView = ViewLogin
	m.loginFocus = 0
	m.loginBusy = false
	m.loginInputs[1].Reset()
	m.loginInputs[0].Focus()
	m.loginInputs[1].Blur()
}

// handleLoginKey processes keyboard input for the login form.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.currentView = ViewRaces
		for i := range m.loginInputs {
			m.loginInputs[i].Blur()
		}
		return m, nil

	case "tab", "shift+tab":
		m.loginFocus = 1 - m.loginFocus
		for i := range m.loginInputs {
			if i == m.loginFocus {
				m.loginInputs[i].Focus()
			} else {
				m.loginInputs[i].Blur()
			}
		}
		return m, nil

	case "enter":
		if m.loginBusy {
			return m, nil
		}
		email := strings.TrimSpace(m.loginInputs[0].Value())
		password := m.loginInputs[1].Value()
		if email == "" || password == "" {
			return m.withNotice(noticeError, "Email and password are required")
		}
		m.loginBusy = true
		return m, m.loginCmd(email, password)
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	mgr, ctx := m.account, m.ctx
	return func() tea.Msg {
		user, err := mgr.Login(ctx, email, password)
		return loginResultMsg{user: user, err: err}
	}
}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.loginBusy = false
	if msg.err != nil {
		// Keep the email, drop the password, stay on the form.
		m.loginInputs[1].Reset()
		m.loginFocus = 1
		m.loginInputs[0].Blur()
		m.loginInputs[1].Focus()
		return m.withNotice(noticeError, "Sign-in failed: "+msg.err.Error())
	}

	user := msg.user
	if m.ledger != nil {
		m.ledger.SetUser(&user)
	}
	m.currentView = ViewRaces
	for i := range m.loginInputs {
		m.loginInputs[i].Blur()
	}

	model, cmd := m.withNotice(noticeSuccess, "Signed in as "+user.Name)
	cmds := []tea.Cmd{cmd}
	if model.ledger != nil {
		cmds = append(cmds, model.refreshLedgerCmd())
	}
	return model, tea.Batch(cmds...)
}

func (m Model) renderLogin() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Sign in"))
	b.WriteString("\n\n")

	labels := [2]string{"Email", "Password"}
	for i, input := range m.loginInputs {
		label := padRight(labels[i], 10)
		if i == m.loginFocus {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.loginBusy {
		b.WriteString(styles.WarningText.Render("Signing in..."))
	} else {
		b.WriteString(styles.FaintText.Render("enter submits · tab switches fields · esc cancels"))
	}

	form := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2).
		Width(48).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		contentHeight(m.height),
		lipgloss.Center,
		lipgloss.Center,
		form,
	)
}
