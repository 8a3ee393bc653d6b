package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pcornet/peloton/internal/account"
	"github.com/pcornet/peloton/internal/catalog"
	"github.com/pcornet/peloton/internal/filter"
	"github.com/pcornet/peloton/internal/ledger"
	"github.com/pcornet/peloton/internal/prefs"
	"github.com/pcornet/peloton/internal/raceapi"
)

// View represents the current active view.
type View int

const (
	ViewRaces View = iota
	ViewDetail
	ViewRegistrations
	ViewLogin
	ViewProfile
)

// noticeKind selects the style of the transient notice line.
type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeError
)

const noticeTTL = 4 * time.Second

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    *raceapi.Client
	Catalog   *catalog.Store
	Ledger    *ledger.Ledger
	Account   *account.Manager
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    *raceapi.Client
	catalog   *catalog.Store
	ledger    *ledger.Ledger
	account   *account.Manager
	prefsPath string

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	// Races state
	selectedRow int
	criteria    filter.Criteria
	searching   bool
	searchField searchField
	searchInput textinput.Model

	// Detail state
	detailRaceID   int64
	detailRace     *raceapi.Race
	detailSeq      int
	detailLoading  bool
	detailErr      error
	detailFrom     View
	detailViewport viewport.Model

	// Registrations state
	regSelectedRow int

	// Login form state
	loginInputs [2]textinput.Model // email, password
	loginFocus  int
	loginBusy   bool

	// Profile form state
	profileInputs [3]textinput.Model // name, old password, new password
	profileFocus  int
	profileBusy   bool

	// Transient notice line
	notice     string
	noticeKind noticeKind
	noticeID   int

	// Help overlay
	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:         ctx,
		client:      opts.Client,
		catalog:     opts.Catalog,
		ledger:      opts.Ledger,
		account:     opts.Account,
		prefsPath:   prefsPath,
		theme:       GetTheme(themeName),
		currentView: ViewRaces,
	}
	m.initInputs()
	return m
}

func (m *Model) initInputs() {
	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "race name"
	m.searchInput.CharLimit = 64

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128
	m.loginInputs = [2]textinput.Model{email, password}

	name := textinput.New()
	name.Placeholder = "name"
	name.CharLimit = 64
	oldPass := textinput.New()
	oldPass.Placeholder = "current password"
	oldPass.EchoMode = textinput.EchoPassword
	oldPass.CharLimit = 128
	newPass := textinput.New()
	newPass.Placeholder = "new password"
	newPass.EchoMode = textinput.EchoPassword
	newPass.CharLimit = 128
	m.profileInputs = [3]textinput.Model{name, oldPass, newPass}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
	}
	if m.catalog != nil {
		cmds = append(cmds, m.loadPageCmd())
	}
	// A restored session means registrations can be reconciled right away.
	if m.ledger != nil && m.account != nil && m.account.Authenticated() {
		cmds = append(cmds, m.refreshLedgerCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(msg.Width, contentHeight(msg.Height))
		} else {
			m.detailViewport.Width = msg.Width
			m.detailViewport.Height = contentHeight(msg.Height)
		}
		m.ready = true
		m.syncDetailViewport()
		return m, nil

	case racesLoadedMsg:
		if msg.err != nil {
			return m.withNotice(noticeError, "Could not load races: "+msg.err.Error())
		}
		m.clampSelection()
		return m, nil

	case ledgerRefreshedMsg:
		if msg.err != nil {
			return m.withNotice(noticeError, "Could not load registrations: "+msg.err.Error())
		}
		m.clampRegSelection()
		return m, nil

	case registerResultMsg:
		return m.handleRegisterResult(msg)

	case unregisterResultMsg:
		return m.handleUnregisterResult(msg)

	case detailLoadedMsg:
		// Stale responses from an earlier selection are dropped.
		if msg.seq != m.detailSeq {
			return m, nil
		}
		m.detailLoading = false
		m.detailErr = msg.err
		m.detailRace = msg.race
		m.syncDetailViewport()
		return m, nil

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case profileSavedMsg:
		m.profileBusy = false
		if msg.err != nil {
			return m.withNotice(noticeError, "Could not save profile: "+msg.err.Error())
		}
		return m.withNotice(noticeSuccess, "Profile saved")

	case passwordChangedMsg:
		m.profileBusy = false
		if msg.err != nil {
			return m.withNotice(noticeError, "Could not change password: "+msg.err.Error())
		}
		m.profileInputs[1].Reset()
		m.profileInputs[2].Reset()
		return m.withNotice(noticeSuccess, "Password changed")

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewRaces:
		return m.renderRaces()
	case ViewDetail:
		return m.renderDetail()
	case ViewRegistrations:
		return m.renderRegistrations()
	case ViewLogin:
		return m.renderLogin()
	case ViewProfile:
		return m.renderProfile()
	default:
		return ""
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// Text-entry modes get the key stream first.
	if m.searching {
		return m.handleSearchKey(msg)
	}
	switch m.currentView {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewProfile:
		return m.handleProfileKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "e":
		return m, tea.Quit

	case "h", "?":
		m.showHelp = true
		return m, nil

	case "T":
		// Cycle theme
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		return m, nil

	case "m":
		m.currentView = ViewRegistrations
		m.clampRegSelection()
		if m.authenticated() {
			return m, m.refreshLedgerCmd()
		}
		return m, nil

	case "p":
		if m.authenticated() {
			m.enterProfile()
		} else {
			m.enterLogin()
		}
		return m, nil

	case "q", "esc":
		if m.currentView == ViewDetail {
			m.currentView = m.detailFrom
		} else {
			m.currentView = ViewRaces
		}
		return m, nil
	}

	switch m.currentView {
	case ViewRaces:
		return m.handleRacesKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewRegistrations:
		return m.handleRegistrationsKey(msg)
	}

	return m, nil
}

func (m Model) authenticated() bool {
	return m.account != nil && m.account.Authenticated()
}

// withNotice sets the transient notice line and schedules its expiry.
func (m Model) withNotice(kind noticeKind, text string) (Model, tea.Cmd) {
	m.noticeID++
	m.notice = text
	m.noticeKind = kind
	id := m.noticeID
	return m, tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

// contentHeight is the rows left for the main pane below the two header
// lines and above the notice line.
func contentHeight(total int) int {
	h := total - 3
	if h < 1 {
		h = 1
	}
	return h
}

// Messages

type racesLoadedMsg struct{ err error }

type ledgerRefreshedMsg struct{ err error }

type registerResultMsg struct {
	raceID int64
	name   string
	err    error
}

type unregisterResultMsg struct {
	raceID int64
	name   string
	err    error
}

type detailLoadedMsg struct {
	seq  int
	race *raceapi.Race
	err  error
}

type loginResultMsg struct {
	user raceapi.User
	err  error
}

type profileSavedMsg struct{ err error }

type passwordChangedMsg struct{ err error }

type noticeExpiredMsg struct{ id int }

// Commands

func (m Model) loadPageCmd() tea.Cmd {
	store, ctx := m.catalog, m.ctx
	return func() tea.Msg {
		return racesLoadedMsg{err: store.FetchNextPage(ctx)}
	}
}

func (m Model) advancePageCmd() tea.Cmd {
	store, ctx := m.catalog, m.ctx
	return func() tea.Msg {
		return racesLoadedMsg{err: store.Advance(ctx)}
	}
}

func (m Model) refreshLedgerCmd() tea.Cmd {
	led, ctx := m.ledger, m.ctx
	return func() tea.Msg {
		return ledgerRefreshedMsg{err: led.Refresh(ctx)}
	}
}

func (m Model) registerCmd(race raceapi.Race) tea.Cmd {
	led, ctx := m.ledger, m.ctx
	return func() tea.Msg {
		return registerResultMsg{raceID: race.ID, name: race.Name, err: led.Register(ctx, race)}
	}
}

func (m Model) unregisterCmd(race raceapi.Race) tea.Cmd {
	led, ctx := m.ledger, m.ctx
	return func() tea.Msg {
		return unregisterResultMsg{raceID: race.ID, name: race.Name, err: led.Unregister(ctx, race.ID)}
	}
}

func (m Model) fetchDetailCmd(seq int, raceID int64) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		race, err := client.GetRace(ctx, raceID)
		return detailLoadedMsg{seq: seq, race: race, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
