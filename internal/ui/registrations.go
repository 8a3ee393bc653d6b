package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pcornet/peloton/internal/raceapi"
)

func (m Model) registeredRaces() []raceapi.Race {
	if m.ledger == nil {
		return nil
	}
	return m.ledger.Races()
}

func (m *Model) clampRegSelection() {
	count := len(m.registeredRaces())
	if count == 0 {
		m.regSelectedRow = 0
		return
	}
	if m.regSelectedRow >= count {
		m.regSelectedRow = count - 1
	}
	if m.regSelectedRow < 0 {
		m.regSelectedRow = 0
	}
}

// handleRegistrationsKey processes keyboard input for the registrations view.
func (m Model) handleRegistrationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	races := m.registeredRaces()

	switch msg.String() {
	case "j", "down":
		if m.regSelectedRow < len(races)-1 {
			m.regSelectedRow++
		}
		return m, nil

	case "k", "up":
		if m.regSelectedRow > 0 {
			m.regSelectedRow--
		}
		return m, nil

	case "g", "home":
		m.regSelectedRow = 0
		return m, nil

	case "G", "end":
		if len(races) > 0 {
			m.regSelectedRow = len(races) - 1
		}
		return m, nil

	case "enter":
		if m.regSelectedRow < len(races) {
			return m.openDetail(races[m.regSelectedRow].ID, ViewRegistrations)
		}
		return m, nil

	case "r":
		if m.regSelectedRow < len(races) {
			return m.toggleRegistration(races[m.regSelectedRow])
		}
		return m, nil

	case "R":
		if m.authenticated() {
			return m, m.refreshLedgerCmd()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) renderRegistrations() string {
	styles := m.theme.Styles()

	if !m.authenticated() {
		return styles.MutedText.Render("Sign in (p) to see your registrations.")
	}

	races := m.registeredRaces()
	if len(races) == 0 {
		return styles.MutedText.Render("You are not registered for any race.")
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("My registrations"))
	b.WriteString("\n\n")

	nameWidth := 32
	for i, race := range races {
		line := m.raceLine(race, nameWidth, styles)
		if i == m.regSelectedRow {
			line = styles.Selected.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("r unregisters · R refreshes from the server"))
	return b.String()
}
