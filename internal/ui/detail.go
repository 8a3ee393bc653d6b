package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pcornet/peloton/internal/ledger"
	"github.com/pcornet/peloton/internal/raceapi"
	"github.com/pcornet/peloton/internal/results"
)

// openDetail switches to the detail view and fetches the race. The bumped
// sequence number invalidates any fetch still in flight.
func (m Model) openDetail(raceID int64, from View) (tea.Model, tea.Cmd) {
	m.detailSeq++
	m.detailRaceID = raceID
	m.detailRace = nil
	m.detailErr = nil
	m.detailLoading = true
	m.detailFrom = from
	m.currentView = ViewDetail
	m.detailViewport.GotoTop()
	m.syncDetailViewport()
	return m, m.fetchDetailCmd(m.detailSeq, raceID)
}

// refetchDetail reloads the currently open race.
func (m *Model) refetchDetail() tea.Cmd {
	m.detailSeq++
	m.detailLoading = true
	return m.fetchDetailCmd(m.detailSeq, m.detailRaceID)
}

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.detailViewport.ScrollDown(1)
		return m, nil
	case "k", "up":
		m.detailViewport.ScrollUp(1)
		return m, nil
	case "ctrl+d":
		m.detailViewport.HalfPageDown()
		return m, nil
	case "ctrl+u":
		m.detailViewport.HalfPageUp()
		return m, nil
	case "g", "home":
		m.detailViewport.GotoTop()
		return m, nil
	case "G", "end":
		m.detailViewport.GotoBottom()
		return m, nil

	case "r":
		if m.detailRace != nil {
			return m.toggleRegistration(*m.detailRace)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) syncDetailViewport() {
	if !m.ready {
		return
	}
	m.detailViewport.SetContent(m.detailContent())
}

func (m Model) renderDetail() string {
	return m.detailViewport.View()
}

// detailContent builds the full detail text for the viewport.
func (m Model) detailContent() string {
	styles := m.theme.Styles()

	if m.detailLoading && m.detailRace == nil {
		return styles.MutedText.Render("Loading race...")
	}
	if m.detailErr != nil {
		return styles.DangerText.Render("Could not load race: " + m.detailErr.Error())
	}
	race := m.detailRace
	if race == nil {
		return styles.MutedText.Render("No race selected.")
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(race.Name))
	if m.detailLoading {
		b.WriteString(styles.FaintText.Render("  refreshing..."))
	}
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(styles.MutedText.Render(padRight(label, 12)))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}
	row("Date", race.Date)
	row("Location", ternary(race.Location != "", race.Location, "–"))
	row("Category", ternary(race.Category != "", titleCase(race.Category), "–"))
	row("Distance", formatDistance(float64(race.DistanceKM)))
	row("Gender", ternary(race.Gender != "", race.Gender, "mixed"))
	row("Entry fee", formatFee(race.EntryFee))
	row("Slots", fmt.Sprintf("%d of %d free", race.AvailableSlots, race.TotalSlots))
	row("Status", race.Status)
	if race.Coordinates != nil {
		row("Position", fmt.Sprintf("%.5f, %.5f", race.Coordinates.Lat, race.Coordinates.Lng))
	}

	if desc := strings.TrimSpace(race.Description); desc != "" {
		b.WriteString("\n")
		b.WriteString(styles.Text.Render(desc))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderRegistrationLine(*race, styles))

	if race.IsFinished() {
		b.WriteString("\n\n")
		b.WriteString(m.renderResults(*race, styles))
	}

	return b.String()
}

// renderRegistrationLine explains what pressing r would do, mirroring the
// ledger's own precondition checks.
func (m Model) renderRegistrationLine(race raceapi.Race, styles Styles) string {
	if !m.authenticated() {
		return styles.MutedText.Render("Sign in (p) to register.")
	}
	if m.ledger == nil {
		return ""
	}
	if m.ledger.Pending(race.ID) {
		return styles.WarningText.Render("Working...")
	}
	if m.ledger.Contains(race.ID) {
		return styles.SuccessText.Render("You are registered.") +
			styles.MutedText.Render("  r unregisters")
	}
	if reason := m.registerBlockReason(race); reason != "" {
		return styles.MutedText.Render(reason)
	}
	return styles.AccentText.Render("Press r to register.")
}

// registerBlockReason returns a short explanation when registration would
// be refused locally, or "" when it would be attempted.
func (m Model) registerBlockReason(race raceapi.Race) string {
	if race.IsFinished() {
		return "This race has finished."
	}
	if !race.IsOpen() {
		return "Registration is closed."
	}
	if race.AvailableSlots <= 0 {
		return "The race is full."
	}
	if m.account == nil {
		return ""
	}
	if user, ok := m.account.Current(); ok {
		if race.Gender != "" && user.Gender != "" && !strings.EqualFold(race.Gender, user.Gender) {
			return "This race is restricted to gender " + race.Gender + "."
		}
	}
	return ""
}

// renderResults renders the final ranking of a finished race.
func (m Model) renderResults(race raceapi.Race, styles Styles) string {
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Results"))
	b.WriteString("\n")

	ranked := results.Rank(race.Participants)
	if len(ranked) == 0 {
		b.WriteString(styles.MutedText.Render("No results published."))
		return b.String()
	}

	b.WriteString(styles.MutedText.Render(padRight("POS", 5) + padRight("DORSAL", 8) + "TIME"))
	b.WriteString("\n")
	for i, p := range ranked {
		pos := fmt.Sprintf("%d.", i+1)
		t := p.Time
		if t == "" {
			t = "–"
		}
		line := padRight(pos, 5) + padRight(fmt.Sprintf("#%d", p.Dorsal), 8) + t
		if i == 0 {
			b.WriteString(styles.SuccessText.Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// registerFailureText maps ledger errors to user-facing notice text.
func registerFailureText(name string, err error) string {
	switch {
	case errors.Is(err, ledger.ErrNotSignedIn):
		return "Sign in to register"
	case errors.Is(err, ledger.ErrAlreadyRegistered):
		return "Already registered for " + name
	case errors.Is(err, ledger.ErrIneligible):
		return "Not eligible for " + name
	case errors.Is(err, ledger.ErrRaceFull):
		return name + " is full"
	case errors.Is(err, ledger.ErrRegistrationClosed):
		return "Registration for " + name + " is closed"
	case errors.Is(err, ledger.ErrOperationPending):
		return "Still working on " + name
	default:
		return "Could not register for " + name + ": " + err.Error()
	}
}
