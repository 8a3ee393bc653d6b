package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// enterProfile switches to the profile form prefilled with the current
// user snapshot.
func (m *Model) enterProfile() {
	m.currentView = ViewProfile
	m.profileFocus = 0
	m.profileBusy = false
	if user, ok := m.account.Current(); ok {
		m.profileInputs[0].SetValue(user.Name)
	}
	m.profileInputs[1].Reset()
	m.profileInputs[2].Reset()
	for i := range m.profileInputs {
		if i == 0 {
			m.profileInputs[i].Focus()
		} else {
			m.profileInputs[i].Blur()
		}
	}
}

// handleProfileKey processes keyboard input for the profile form.
func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.currentView = ViewRaces
		for i := range m.profileInputs {
			m.profileInputs[i].Blur()
		}
		return m, nil

	case "tab":
		m.focusProfileInput((m.profileFocus + 1) % len(m.profileInputs))
		return m, nil

	case "shift+tab":
		m.focusProfileInput((m.profileFocus + len(m.profileInputs) - 1) % len(m.profileInputs))
		return m, nil

	case "ctrl+o":
		// Sign out
		if err := m.account.Logout(); err != nil {
			return m.withNotice(noticeError, "Could not sign out: "+err.Error())
		}
		if m.ledger != nil {
			m.ledger.SetUser(nil)
		}
		m.currentView = ViewRaces
		return m.withNotice(noticeInfo, "Signed out")

	case "enter":
		if m.profileBusy {
			return m, nil
		}
		if m.profileFocus == 0 {
			name := strings.TrimSpace(m.profileInputs[0].Value())
			if name == "" {
				return m.withNotice(noticeError, "Name cannot be empty")
			}
			m.profileBusy = true
			return m, m.saveNameCmd(name)
		}
		oldPass := m.profileInputs[1].Value()
		newPass := m.profileInputs[2].Value()
		if oldPass == "" || newPass == "" {
			return m.withNotice(noticeError, "Both password fields are required")
		}
		m.profileBusy = true
		return m, m.changePasswordCmd(oldPass, newPass)
	}

	var cmd tea.Cmd
	m.profileInputs[m.profileFocus], cmd = m.profileInputs[m.profileFocus].Update(msg)
	return m, cmd
}

func (m *Model) focusProfileInput(idx int) {
	m.profileFocus = idx
	for i := range m.profileInputs {
		if i == idx {
			m.profileInputs[i].Focus()
		} else {
			m.profileInputs[i].Blur()
		}
	}
}

func (m Model) saveNameCmd(name string) tea.Cmd {
	mgr, ctx := m.account, m.ctx
	return func() tea.Msg {
		return profileSavedMsg{err: mgr.UpdateName(ctx, name)}
	}
}

func (m Model) changePasswordCmd(oldPass, newPass string) tea.Cmd {
	mgr, ctx := m.account, m.ctx
	return func() tea.Msg {
		return passwordChangedMsg{err: mgr.UpdatePassword(ctx, oldPass, newPass)}
	}
}

func (m Model) renderProfile() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Profile"))
	b.WriteString("\n\n")

	if user, ok := m.account.Current(); ok {
		b.WriteString(styles.MutedText.Render(padRight("Email", 18)))
		b.WriteString(styles.Text.Render(user.Email))
		b.WriteString(styles.FaintText.Render("  (cannot be changed)"))
		b.WriteString("\n\n")
	}

	labels := [3]string{"Name", "Current password", "New password"}
	for i, input := range m.profileInputs {
		label := padRight(labels[i], 18)
		if i == m.profileFocus {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		b.WriteString(input.View())
		b.WriteString("\n")
		if i == 0 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.profileBusy {
		b.WriteString(styles.WarningText.Render("Saving..."))
	} else {
		b.WriteString(styles.FaintText.Render("enter saves the focused section · ctrl+o signs out · esc leaves"))
	}

	form := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Padding(1, 2).
		Width(60).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		contentHeight(m.height),
		lipgloss.Center,
		lipgloss.Center,
		form,
	)
}
