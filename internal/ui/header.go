package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the top status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	var parts []string

	parts = append(parts, bg.Render("peloton", styles.Logo))

	if m.account != nil {
		if user, ok := m.account.Current(); ok {
			parts = append(parts, bg.Render("● "+user.Name, styles.SuccessText))
		} else {
			parts = append(parts, bg.Render("● signed out", styles.MutedText))
		}
	}

	if m.catalog != nil {
		parts = append(parts,
			bg.Render("Races:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", m.catalog.Len()), styles.Text))
		if m.catalog.Loading() {
			parts = append(parts, bg.Render("loading...", styles.WarningText))
		}
	}

	if m.ledger != nil && m.authenticated() {
		parts = append(parts,
			bg.Render("Registered:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", m.ledger.Len()), styles.InfoText))
	}

	if m.currentView == ViewRaces && !m.criteria.IsZero() {
		parts = append(parts,
			bg.Render("Filter:", styles.MutedText)+bg.Space()+
				bg.Render(truncate(m.filterLabel(), 40), styles.AccentText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderCommandBar renders the key hints, or the active notice when one
// is pending.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	if m.notice != "" {
		style := styles.InfoText
		switch m.noticeKind {
		case noticeSuccess:
			style = styles.SuccessText
		case noticeError:
			style = styles.DangerText
		}
		return styles.Footer.Width(m.width).Render(bg.Render(m.notice, style))
	}

	hints := m.commandHints()
	sep := bg.Sep("  ·  ")

	rendered := make([]string, 0, len(hints))
	for _, hint := range hints {
		rendered = append(rendered,
			bg.Render(hint[0], styles.WarningText)+bg.Space()+
				bg.Render(hint[1], styles.MutedText))
	}

	line := rendered[0]
	for _, part := range rendered[1:] {
		line += sep + part
	}
	return styles.Footer.Width(m.width).Render(line)
}

func (m Model) commandHints() [][2]string {
	switch m.currentView {
	case ViewDetail:
		return [][2]string{
			{"j/k", "scroll"},
			{"r", "register"},
			{"q", "back"},
			{"h", "help"},
		}
	case ViewRegistrations:
		return [][2]string{
			{"j/k", "move"},
			{"enter", "detail"},
			{"r", "unregister"},
			{"q", "back"},
		}
	case ViewLogin, ViewProfile:
		return [][2]string{
			{"tab", "next field"},
			{"enter", "submit"},
			{"esc", "back"},
		}
	default:
		return [][2]string{
			{"/", "search"},
			{"f/c/s/l", "filters"},
			{"n", "more"},
			{"enter", "detail"},
			{"r", "register"},
			{"m", "mine"},
			{"p", "profile"},
			{"h", "help"},
		}
	}
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Navigation",
			items: []helpItem{
				{"j/k", "Move up/down"},
				{"g/G", "Go to top/bottom"},
				{"enter", "Open race detail"},
				{"q/esc", "Back to races"},
			},
		},
		{
			title: "Races",
			items: []helpItem{
				{"/", "Search by name"},
				{"l", "Filter by location"},
				{"f", "Cycle distance filter"},
				{"c", "Cycle category filter"},
				{"s", "Cycle gender filter"},
				{"x", "Clear filters"},
				{"n", "Load next page"},
				{"r", "Register / unregister"},
			},
		},
		{
			title: "Account",
			items: []helpItem{
				{"m", "My registrations"},
				{"p", "Profile / sign in"},
				{"ctrl+o", "Sign out (in profile)"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"T", "Cycle theme"},
				{"h/?", "Toggle help"},
				{"e/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder

	title := styles.Text.Bold(true).Render("Keyboard Shortcuts")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			keyStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.theme.Warning)).
				Width(12)
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(40)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
