package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pcornet/peloton/internal/filter"
	"github.com/pcornet/peloton/internal/raceapi"
)

// searchField selects which criterion the search prompt edits.
type searchField int

const (
	searchByName searchField = iota
	searchByLocation
)

// visibleRaces applies the current criteria to the catalog. Past races
// never show up regardless of filters.
func (m Model) visibleRaces() []raceapi.Race {
	if m.catalog == nil {
		return nil
	}
	return filter.Apply(m.catalog.Races(), m.criteria, time.Now())
}

func (m *Model) clampSelection() {
	count := len(m.visibleRaces())
	if count == 0 {
		m.selectedRow = 0
		return
	}
	if m.selectedRow >= count {
		m.selectedRow = count - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

func (m Model) selectedRace() (raceapi.Race, bool) {
	races := m.visibleRaces()
	if m.selectedRow < 0 || m.selectedRow >= len(races) {
		return raceapi.Race{}, false
	}
	return races[m.selectedRow], true
}

// handleRacesKey processes keyboard input for the races view.
func (m Model) handleRacesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.selectedRow < len(m.visibleRaces())-1 {
			m.selectedRow++
		}
		return m, nil

	case "k", "up":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil

	case "g", "home":
		m.selectedRow = 0
		return m, nil

	case "G", "end":
		if count := len(m.visibleRaces()); count > 0 {
			m.selectedRow = count - 1
		}
		return m, nil

	case "n":
		// Next catalog page
		if m.catalog == nil || m.catalog.Exhausted() || m.catalog.Loading() {
			return m, nil
		}
		return m, m.advancePageCmd()

	case "enter":
		if race, ok := m.selectedRace(); ok {
			return m.openDetail(race.ID, ViewRaces)
		}
		return m, nil

	case "r":
		if race, ok := m.selectedRace(); ok {
			return m.toggleRegistration(race)
		}
		return m, nil

	case "/":
		m.startSearch(searchByName)
		return m, nil

	case "l":
		m.startSearch(searchByLocation)
		return m, nil

	case "f":
		m.cycleDistance()
		m.clampSelection()
		return m, nil

	case "c":
		m.cycleCategory()
		m.clampSelection()
		return m, nil

	case "s":
		m.cycleGender()
		m.clampSelection()
		return m, nil

	case "x":
		m.criteria = filter.Criteria{}
		m.clampSelection()
		return m, nil
	}

	return m, nil
}

// startSearch opens the prompt editing the given criterion, prefilled
// with its current value.
func (m *Model) startSearch(field searchField) {
	m.searching = true
	m.searchField = field
	if field == searchByLocation {
		m.searchInput.Placeholder = "location"
		m.searchInput.SetValue(m.criteria.Location)
	} else {
		m.searchInput.Placeholder = "race name"
		m.searchInput.SetValue(m.criteria.Search)
	}
	m.searchInput.Focus()
}

func (m *Model) commitSearch() {
	value := strings.TrimSpace(m.searchInput.Value())
	if m.searchField == searchByLocation {
		m.criteria.Location = value
	} else {
		m.criteria.Search = value
	}
	m.clampSelection()
}

// handleSearchKey processes keys while the search input is active.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.commitSearch()
		m.searching = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	// Filtering is live while typing, like the web search box.
	m.commitSearch()
	return m, cmd
}

// cycleGender steps the gender filter through the backend's two values.
func (m *Model) cycleGender() {
	switch strings.ToLower(strings.TrimSpace(m.criteria.Gender)) {
	case "":
		m.criteria.Gender = "m"
	case "m":
		m.criteria.Gender = "f"
	default:
		m.criteria.Gender = ""
	}
}

// toggleRegistration registers or unregisters the given race depending on
// ledger membership. Unauthenticated users land on the login form.
func (m Model) toggleRegistration(race raceapi.Race) (tea.Model, tea.Cmd) {
	if !m.authenticated() {
		m.enterLogin()
		model, cmd := m.withNotice(noticeInfo, "Sign in to register")
		return model, cmd
	}
	if m.ledger.Pending(race.ID) {
		return m.withNotice(noticeInfo, "Still working on "+race.Name)
	}
	if m.ledger.Contains(race.ID) {
		return m, m.unregisterCmd(race)
	}
	return m, m.registerCmd(race)
}

func (m Model) handleRegisterResult(msg registerResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.withNotice(noticeError, registerFailureText(msg.name, msg.err))
	}
	model, cmd := m.withNotice(noticeSuccess, "Registered for "+msg.name)
	// The optimistic bookkeeping is reconciled against /api/user/{id}
	// after every confirmed mutation.
	cmds := []tea.Cmd{model.refreshLedgerCmd(), cmd}
	// The detail pane shows the slot count, so refetch it.
	if model.currentView == ViewDetail && model.detailRaceID == msg.raceID {
		cmds = append(cmds, model.refetchDetail())
	}
	return model, tea.Batch(cmds...)
}

func (m Model) handleUnregisterResult(msg unregisterResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.withNotice(noticeError, "Could not unregister from "+msg.name+": "+msg.err.Error())
	}
	model, cmd := m.withNotice(noticeSuccess, "Unregistered from "+msg.name)
	model.clampRegSelection()
	cmds := []tea.Cmd{model.refreshLedgerCmd(), cmd}
	if model.currentView == ViewDetail && model.detailRaceID == msg.raceID {
		cmds = append(cmds, model.refetchDetail())
	}
	return model, tea.Batch(cmds...)
}

// cycleDistance steps through the distance buckets.
func (m *Model) cycleDistance() {
	switch m.criteria.Distance {
	case filter.DistanceAny:
		m.criteria.Distance = filter.DistanceShort
	case filter.DistanceShort:
		m.criteria.Distance = filter.DistanceMedium
	case filter.DistanceMedium:
		m.criteria.Distance = filter.DistanceLong
	default:
		m.criteria.Distance = filter.DistanceAny
	}
}

// cycleCategory steps through the categories present in the catalog.
func (m *Model) cycleCategory() {
	categories := m.knownCategories()
	if len(categories) == 0 {
		m.criteria.Category = ""
		return
	}
	if m.criteria.Category == "" {
		m.criteria.Category = categories[0]
		return
	}
	for i, cat := range categories {
		if cat == m.criteria.Category {
			if i+1 < len(categories) {
				m.criteria.Category = categories[i+1]
			} else {
				m.criteria.Category = ""
			}
			return
		}
	}
	m.criteria.Category = ""
}

func (m Model) knownCategories() []string {
	if m.catalog == nil {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, race := range m.catalog.Races() {
		cat := strings.TrimSpace(race.Category)
		if cat == "" {
			continue
		}
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// filterLabel summarizes the active criteria for the command bar.
func (m Model) filterLabel() string {
	var parts []string
	if m.criteria.Search != "" {
		parts = append(parts, "name:"+m.criteria.Search)
	}
	if m.criteria.Category != "" {
		parts = append(parts, "cat:"+m.criteria.Category)
	}
	if m.criteria.Distance != filter.DistanceAny {
		parts = append(parts, "dist:"+string(m.criteria.Distance))
	}
	if m.criteria.Location != "" {
		parts = append(parts, "loc:"+m.criteria.Location)
	}
	if m.criteria.Gender != "" {
		parts = append(parts, "gender:"+m.criteria.Gender)
	}
	if len(parts) == 0 {
		return "All"
	}
	return strings.Join(parts, " ")
}

// renderRaces renders the race list with a summary pane for the selected
// race when the terminal is wide enough.
func (m Model) renderRaces() string {
	styles := m.theme.Styles()
	races := m.visibleRaces()

	var list strings.Builder

	if m.searching {
		label := ternary(m.searchField == searchByLocation, "location: ", "search: ")
		list.WriteString(styles.AccentText.Render(label))
		list.WriteString(m.searchInput.View())
		list.WriteString("\n\n")
	}

	if len(races) == 0 {
		if m.catalog != nil && m.catalog.Loading() {
			list.WriteString(styles.MutedText.Render("Loading races..."))
		} else if m.criteria.IsZero() {
			list.WriteString(styles.MutedText.Render("No upcoming races."))
		} else {
			list.WriteString(styles.MutedText.Render("No races match the current filters."))
		}
		return list.String()
	}

	nameWidth := 32
	for i, race := range races {
		line := m.raceLine(race, nameWidth, styles)
		if i == m.selectedRow {
			line = styles.Selected.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		list.WriteString(line)
		list.WriteString("\n")
	}

	// Paging hint
	list.WriteString("\n")
	if m.catalog != nil && !m.catalog.Exhausted() {
		list.WriteString(styles.FaintText.Render(fmt.Sprintf("%d loaded · press n for more", m.catalog.Len())))
	} else {
		list.WriteString(styles.FaintText.Render(fmt.Sprintf("%d loaded · end of catalog", len(races))))
	}

	if m.width < 100 {
		return list.String()
	}

	// Wide layout: summary pane for the selection on the right.
	summary := ""
	if race, ok := m.selectedRace(); ok {
		summary = m.renderRaceSummary(race, styles)
	}
	left := lipgloss.NewStyle().Width(m.width * 3 / 5).Render(list.String())
	right := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Padding(0, 1).
		Width(m.width*2/5 - 4).
		Render(summary)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) raceLine(race raceapi.Race, nameWidth int, styles Styles) string {
	name := padRight(truncate(race.Name, nameWidth), nameWidth)
	date := padRight(race.Date, 10)
	dist := padRight(formatDistance(float64(race.DistanceKM)), 8)

	badge := styles.StatusStyle(strings.ToLower(strings.TrimSpace(race.Status))).Render(race.Status)
	mark := " "
	if m.ledger != nil {
		if m.ledger.Pending(race.ID) {
			mark = styles.WarningText.Render("~")
		} else if m.ledger.Contains(race.ID) {
			mark = styles.SuccessText.Render("✓")
		}
	}

	return mark + " " + styles.Text.Render(name) + " " +
		styles.MutedText.Render(date) + " " +
		styles.InfoText.Render(dist) + " " +
		badge
}

func (m Model) renderRaceSummary(race raceapi.Race, styles Styles) string {
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(race.Name))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(styles.MutedText.Render(padRight(label, 10)))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}
	row("Date", race.Date)
	row("Location", ternary(race.Location != "", race.Location, "–"))
	row("Category", ternary(race.Category != "", titleCase(race.Category), "–"))
	row("Distance", formatDistance(float64(race.DistanceKM)))
	row("Gender", ternary(race.Gender != "", race.Gender, "mixed"))
	row("Fee", formatFee(race.EntryFee))
	row("Slots", fmt.Sprintf("%d / %d", race.AvailableSlots, race.TotalSlots))
	row("Status", race.Status)

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter opens the full detail"))
	return b.String()
}
