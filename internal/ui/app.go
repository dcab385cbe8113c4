package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/astroprint/astrodeck/internal/astroprint"
	"github.com/astroprint/astrodeck/internal/config"
	"github.com/astroprint/astrodeck/internal/download"
	"github.com/astroprint/astrodeck/internal/events"
	"github.com/astroprint/astrodeck/internal/logtail"
	"github.com/astroprint/astrodeck/internal/paging"
	"github.com/astroprint/astrodeck/internal/prefs"
	"github.com/astroprint/astrodeck/internal/session"
	"github.com/astroprint/astrodeck/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewDesigns View = iota
	ViewPrintFiles
	ViewSettings
	ViewLogs
)

// EventSource delivers plugin push events until its context ends.
// *events.Listener implements it.
type EventSource interface {
	Run(ctx context.Context, deliver func(events.Event)) error
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	API       astroprint.API
	Store     *state.Store
	Config    config.Config
	Events    EventSource
	Logger    zerolog.Logger
	PollTick  time.Duration
	Prefs     prefs.Prefs
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	api       astroprint.API
	store     *state.Store
	cfg       config.Config
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	keys      keyMap
	log       zerolog.Logger

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	started     bool
	showHelp    bool
	modal       Modal
	spinner     spinner.Model
	notices     []notice

	// Box state
	box         astroprint.InitialState
	snapshot    state.Snapshot
	lastUpdated time.Time
	socket      events.SocketUpdateData
	session     *session.Machine

	// Lists
	designs           *paging.Paginator[astroprint.Design]
	designCursor      int
	designsLoading    bool
	design            astroprint.Design
	printFiles        *paging.Paginator[astroprint.PrintFile]
	printFileCursor   int
	printFilesLoading bool
	filter            textinput.Model
	filtering         bool

	// Downloads
	downloads *download.Tracker

	// Settings
	cameraChecking bool
	boxName        string
	printerModel   string
	filament       astroprint.Filament

	// Logs
	logViewport viewport.Model
	logEntries  []logtail.Entry
	logFollow   bool
	logErr      string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	designSize, printFileSize := opts.Prefs.PageSizes(opts.Config.PageSize)

	filter := textinput.New()
	filter.Placeholder = "Filter by name..."
	filter.Prompt = "/"
	filter.CharLimit = 100

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		ctx:         ctx,
		api:         opts.API,
		store:       opts.Store,
		cfg:         opts.Config,
		prefs:       opts.Prefs,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		log:         opts.Logger,
		theme:       GetTheme(opts.Prefs.Theme),
		currentView: ViewDesigns,
		spinner:     spin,
		session:     &session.Machine{},
		designs:     paging.New[astroprint.Design](designSize),
		printFiles:  paging.New[astroprint.PrintFile](printFileSize),
		filter:      filter,
		downloads:   &download.Tracker{},
		logFollow:   true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
		m.spinner.Tick,
		m.checkAdminCmd(),
		m.loadInitialStateCmd(),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
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
			m.initLogViewport()
		}
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		return m.applySnapshot(state.Snapshot(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		return m.handleEvent(events.Event(msg))
	}

	if next, cmd, ok := m.handleResult(msg); ok {
		return next, cmd
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

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	if m.downloads.Snapshot().Active() {
		return m.renderDownloadDialog()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	if m.downloads.Snapshot().Active() {
		return m.handleDownloadKey(msg)
	}

	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "h", "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
				m.log.Warn().Err(err).Msg("save prefs")
			}
		}
		return m, nil

	case "tab":
		return m.cycleView()

	case "d":
		m.switchView(ViewDesigns)
		return m, nil

	case "s":
		m.switchView(ViewSettings)
		return m, nil

	case "l":
		m.switchView(ViewLogs)
		cmd := m.refreshLogsCmd()
		return m, cmd

	case "L":
		return m.openLoginModal()

	case "O":
		if m.box.User.LoggedIn() {
			cmd := m.logoutCmd()
			return m, cmd
		}
		return m, nil

	case "esc":
		if m.currentView == ViewPrintFiles {
			m.switchView(ViewDesigns)
		}
		return m, nil
	}

	switch m.currentView {
	case ViewDesigns:
		return m.handleDesignsKey(msg)
	case ViewPrintFiles:
		return m.handlePrintFilesKey(msg)
	case ViewSettings:
		return m.handleSettingsKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}

	return m, nil
}

// cycleView moves to the next top-level view.
func (m Model) cycleView() (tea.Model, tea.Cmd) {
	switch m.currentView {
	case ViewDesigns, ViewPrintFiles:
		m.switchView(ViewSettings)
	case ViewSettings:
		m.switchView(ViewLogs)
		cmd := m.refreshLogsCmd()
		return m, cmd
	default:
		m.switchView(ViewDesigns)
	}
	return m, nil
}

// switchView changes the active view and points the filter box at the
// list shown there.
func (m *Model) switchView(v View) {
	m.currentView = v
	m.filtering = false
	m.filter.Blur()
	switch v {
	case ViewDesigns:
		m.filter.SetValue(m.designs.Query())
	case ViewPrintFiles:
		m.filter.SetValue(m.printFiles.Query())
	}
}

// handleTick processes the polling tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	m.expireNotices(now)

	if m.currentView == ViewLogs && m.logFollow {
		cmds = append(cmds, m.refreshLogsCmd())
	}

	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// applySnapshot takes over a fresh poll result from the store.
func (m Model) applySnapshot(snap state.Snapshot) (tea.Model, tea.Cmd) {
	m.snapshot = snap
	if !snap.HasBox || snap.LastError != nil || !snap.LastUpdated.After(m.lastUpdated) {
		return m, nil
	}
	m.lastUpdated = snap.LastUpdated
	m.started = true
	cmd := m.applyBox(snap.Box)
	return m, cmd
}

// applyBox replaces the box state and reacts to the linked user changing.
func (m *Model) applyBox(box astroprint.InitialState) tea.Cmd {
	wasLogged := m.box.User.LoggedIn()
	m.box = box
	switch {
	case !wasLogged && box.User.LoggedIn():
		return m.loadDesignsCmd()
	case wasLogged && !box.User.LoggedIn():
		m.clearLists()
	}
	return nil
}

// clearLists forgets everything fetched for the linked user.
func (m *Model) clearLists() {
	m.designs.SetItems(nil)
	m.printFiles.SetItems(nil)
	m.designCursor = 0
	m.printFileCursor = 0
	m.design = astroprint.Design{}
	if m.currentView == ViewPrintFiles {
		m.switchView(ViewDesigns)
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())

	if len(m.notices) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderNotices())
	}

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	if !m.started {
		return m.renderStarting()
	}
	switch m.currentView {
	case ViewDesigns:
		return m.renderDesigns()
	case ViewPrintFiles:
		return m.renderPrintFiles()
	case ViewSettings:
		return m.renderSettings()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

// contentHeight is the height left for the active view.
func (m Model) contentHeight() int {
	h := m.height - 2 - len(m.notices)
	if len(m.notices) > 0 {
		h--
	}
	return max(h, 3)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type eventMsg events.Event

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program. Push events from opts.Events are fed
// into the program until it exits.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	opts.Context = ctx

	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.Events != nil {
		go func() {
			err := opts.Events.Run(ctx, func(ev events.Event) {
				p.Send(eventMsg(ev))
			})
			if err != nil && ctx.Err() == nil {
				opts.Logger.Error().Err(err).Msg("push listener stopped")
			}
		}()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
