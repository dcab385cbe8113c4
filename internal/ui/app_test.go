package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroprint/astrodeck/internal/astroprint"
	"github.com/astroprint/astrodeck/internal/config"
	"github.com/astroprint/astrodeck/internal/download"
	"github.com/astroprint/astrodeck/internal/events"
	"github.com/astroprint/astrodeck/internal/session"
	"github.com/astroprint/astrodeck/internal/state"
)

type fakeAPI struct {
	box      astroprint.InitialState
	admin    bool
	designs  []astroprint.Design
	files    []astroprint.PrintFile
	printing bool
	err      error

	boxName string
	login   astroprint.LoginRequest
}

func (f *fakeAPI) InitialState(context.Context) (astroprint.InitialState, error) {
	return f.box, f.err
}

func (f *fakeAPI) PassiveLogin(context.Context) (astroprint.Session, error) {
	return astroprint.Session{Admin: f.admin}, f.err
}

func (f *fakeAPI) Login(_ context.Context, req astroprint.LoginRequest) (astroprint.User, error) {
	f.login = req
	return astroprint.User{Name: "Ada", Email: "ada@example.com"}, f.err
}

func (f *fakeAPI) SaveAccessKey(context.Context, string) error { return f.err }
func (f *fakeAPI) Logout(context.Context) error                { return f.err }

func (f *fakeAPI) Designs(context.Context) ([]astroprint.Design, error) {
	return f.designs, f.err
}

func (f *fakeAPI) PrintFiles(context.Context, string) ([]astroprint.PrintFile, error) {
	return f.files, f.err
}

func (f *fakeAPI) Manufacturers(context.Context) ([]astroprint.Manufacturer, error) {
	return []astroprint.Manufacturer{{ID: "m1", Name: "Prusa"}}, f.err
}

func (f *fakeAPI) PrinterModels(context.Context, string) ([]astroprint.PrinterModel, error) {
	return []astroprint.PrinterModel{{ID: "p1", Name: "MK4"}}, f.err
}

func (f *fakeAPI) DownloadDesign(context.Context, astroprint.Design) error { return f.err }

func (f *fakeAPI) DownloadPrintFile(context.Context, astroprint.PrintFile) (astroprint.DownloadState, error) {
	if f.printing {
		return astroprint.DownloadStatePrinting, f.err
	}
	return astroprint.DownloadStateDownloading, f.err
}

func (f *fakeAPI) CancelDownload(context.Context, string) error { return f.err }
func (f *fakeAPI) CheckCamera(context.Context) (bool, error)    { return true, f.err }
func (f *fakeAPI) ConnectBoxrouter(context.Context) error       { return f.err }

func (f *fakeAPI) ChangeBoxName(_ context.Context, name string) error {
	f.boxName = name
	return f.err
}

func (f *fakeAPI) ChangePrinterModel(context.Context, astroprint.PrinterModel) error { return f.err }
func (f *fakeAPI) ChangeFilament(context.Context, astroprint.Filament) error         { return f.err }

func newTestModel(t *testing.T, api astroprint.API) Model {
	t.Helper()
	m := New(Options{
		API:       api,
		Store:     &state.Store{},
		Config:    config.Config{PageSize: 5, PageWindow: 5, OctoPrintURL: "http://octopi.local"},
		Logger:    zerolog.Nop(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func linked(m Model) Model {
	m.started = true
	m.box.User = astroprint.OptionalUser{User: &astroprint.User{Name: "Ada", Email: "ada@example.com"}}
	m.box.CanPrint = true
	m.session.Settle(true)
	return m
}

func makeDesigns(n int) []astroprint.Design {
	out := make([]astroprint.Design, n)
	for i := range out {
		out[i] = astroprint.Design{ID: fmt.Sprintf("d%d", i+1), Name: fmt.Sprintf("Design %02d", i+1), PrintFileCount: 1, AllowDownload: true}
	}
	return out
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return out, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func noticeTitles(m Model) []string {
	titles := make([]string, 0, len(m.notices))
	for _, n := range m.notices {
		titles = append(titles, n.title)
	}
	return titles
}

func TestDesignsPagination(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))
	m, _ = update(t, m, designsMsg{designs: makeDesigns(12)})

	require.Equal(t, 3, m.designs.TotalPages())
	assert.Equal(t, "Design 01", m.designs.Items()[0].Name)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.designs.Page())

	m, _ = update(t, m, keyRunes("3"))
	assert.Equal(t, 2, m.designs.Page())
	assert.Len(t, m.designs.Items(), 2)

	m, _ = update(t, m, keyRunes("g"))
	assert.Equal(t, 0, m.designs.Page())

	// 9 is not in the window of a three-page list.
	m, _ = update(t, m, keyRunes("9"))
	assert.Equal(t, 0, m.designs.Page())
}

func TestGoToPageUsesWindowSlots(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))
	m, _ = update(t, m, designsMsg{designs: makeDesigns(60)})
	require.Equal(t, 12, m.designs.TotalPages())

	for range 8 {
		m, _ = update(t, m, keyRunes("n"))
	}
	require.Equal(t, 8, m.designs.Page())
	require.Equal(t, []int{6, 7, 8, 9, 10}, m.designs.Window(m.windowLimit()))
	assert.Contains(t, m.View(), "5:10")

	// The fifth link shown is page 10.
	m, _ = update(t, m, keyRunes("5"))
	assert.Equal(t, 9, m.designs.Page())
	assert.Equal(t, "Design 46", m.designs.Items()[0].Name)

	m, _ = update(t, m, keyRunes("1"))
	assert.Equal(t, 6, m.designs.Page())

	// Only five links are shown.
	m, _ = update(t, m, keyRunes("7"))
	assert.Equal(t, 6, m.designs.Page())
}

func TestWindowSlot(t *testing.T) {
	window := []int{6, 7, 8, 9, 10}
	cases := []struct {
		digit string
		want  int
		ok    bool
	}{
		{"1", 6, true},
		{"5", 10, true},
		{"6", 0, false},
		{"0", 0, false},
		{"x", 0, false},
	}
	for _, tc := range cases {
		got, ok := windowSlot(window, tc.digit)
		if got != tc.want || ok != tc.ok {
			t.Errorf("windowSlot(%q) = %d, %v; want %d, %v", tc.digit, got, ok, tc.want, tc.ok)
		}
	}
	if _, ok := windowSlot(nil, "1"); ok {
		t.Error("windowSlot on an empty window should not match")
	}
}

func TestStalePrintFilesKeepsLoading(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))
	m.design = astroprint.Design{ID: "b", Name: "Bracket"}
	m.printFilesLoading = true

	m, _ = update(t, m, printFilesMsg{designID: "a", files: []astroprint.PrintFile{{ID: "pa", Filename: "a.gcode"}}})
	assert.True(t, m.printFilesLoading)
	assert.Empty(t, m.printFiles.All())

	m, _ = update(t, m, printFilesMsg{designID: "b", files: []astroprint.PrintFile{{ID: "pb", Filename: "b.gcode"}}})
	assert.False(t, m.printFilesLoading)
	require.Len(t, m.printFiles.All(), 1)
	assert.Equal(t, "b.gcode", m.printFiles.All()[0].Filename)
}

func TestDesignsCursorResetsOnPageChange(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))
	m, _ = update(t, m, designsMsg{designs: makeDesigns(12)})

	m, _ = update(t, m, keyRunes("j"))
	m, _ = update(t, m, keyRunes("j"))
	require.Equal(t, 2, m.designCursor)

	m, _ = update(t, m, keyRunes("n"))
	assert.Equal(t, 0, m.designCursor)
	d, ok := m.selectedDesign()
	require.True(t, ok)
	assert.Equal(t, "Design 06", d.Name)
}

func TestDesignsFilter(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))
	m, _ = update(t, m, designsMsg{designs: makeDesigns(12)})

	m, _ = update(t, m, keyRunes("/"))
	require.True(t, m.filtering)
	m, _ = update(t, m, keyRunes("1"))

	// "1" matches Design 01 and Design 10 to 12.
	assert.Len(t, m.designs.Filtered(), 4)
	assert.Equal(t, 1, m.designs.TotalPages())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.filtering)
	assert.Equal(t, "1", m.designs.Query())

	m, _ = update(t, m, keyRunes("/"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.designs.Query())
	assert.Len(t, m.designs.Filtered(), 12)
}

func TestRefreshNotifies(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))
	m, _ = update(t, m, designsMsg{designs: makeDesigns(2), notify: true})
	assert.Contains(t, noticeTitles(m), "AstroPrint Designs Retrieved")
}

func TestUnauthorizedDropsUser(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))
	m, _ = update(t, m, designsMsg{designs: makeDesigns(3)})

	m, _ = update(t, m, designsMsg{err: &astroprint.APIError{Path: "designs", StatusCode: 401}})

	assert.False(t, m.box.User.LoggedIn())
	assert.Empty(t, m.designs.All())
	assert.Equal(t, []string{"AstroPrint session expired"}, noticeTitles(m))
}

func TestDownloadRequiresAdmin(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))
	m.session.Settle(false)
	m, _ = update(t, m, designsMsg{designs: makeDesigns(1)})

	m, cmd := update(t, m, keyRunes("D"))
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"Please log in"}, noticeTitles(m))
}

func TestDownloadRejectedShowsServerReason(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))
	m, _ = update(t, m, downloadMsg{
		id:   "d1",
		kind: download.KindDesign,
		err:  &astroprint.APIError{StatusCode: 400, Description: "file too big"},
	})

	require.Len(t, m.notices, 1)
	assert.Equal(t, "Error adding Design", m.notices[0].title)
	assert.Equal(t, "file too big", m.notices[0].text)
	assert.False(t, m.downloads.Snapshot().Active())
}

func TestDownloadProgressEvents(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))
	m, _ = update(t, m, downloadMsg{id: "d1", name: "Benchy", kind: download.KindDesign, state: astroprint.DownloadStateDownloading})
	require.True(t, m.downloads.Snapshot().Active())
	assert.Contains(t, m.View(), "Downloading design")

	m, _ = update(t, m, eventMsg(events.Event{Kind: events.Download, Name: "download", Data: []byte(`{"id":"d1","progress":40}`)}))
	assert.InDelta(t, 40, m.downloads.Snapshot().Progress, 0.001)

	// Progress for another download is ignored.
	m, _ = update(t, m, eventMsg(events.Event{Kind: events.Download, Name: "download", Data: []byte(`{"id":"other","progress":90}`)}))
	assert.InDelta(t, 40, m.downloads.Snapshot().Progress, 0.001)

	m, _ = update(t, m, eventMsg(events.Event{Kind: events.Download, Name: "download", Data: []byte(`{"id":"d1","progress":100}`)}))
	assert.False(t, m.downloads.Snapshot().Active())
	assert.Equal(t, []string{"File Downloaded"}, noticeTitles(m))
}

func TestDownloadAlreadyPrinting(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))
	m, _ = update(t, m, downloadMsg{id: "f1", name: "benchy.gcode", kind: download.KindPrintFile, state: astroprint.DownloadStatePrinting})

	assert.False(t, m.downloads.Snapshot().Active())
	require.Len(t, m.notices, 1)
	assert.Contains(t, m.notices[0].text, "started to print")
}

func TestDownloadFailedEventAndClose(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))
	m, _ = update(t, m, downloadMsg{id: "d1", name: "Benchy", kind: download.KindDesign})
	m, _ = update(t, m, eventMsg(events.Event{Kind: events.Download, Data: []byte(`{"id":"d1","failed":"disk full"}`)}))

	snap := m.downloads.Snapshot()
	assert.Equal(t, "disk full", snap.Failed)
	assert.Contains(t, m.View(), "disk full")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.downloads.Snapshot().Active())
}

func TestBoxrouterEvents(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))

	m, _ = update(t, m, eventMsg(events.Event{Kind: events.BoxrouterStatus, Data: []byte(`"error"`)}))
	m, _ = update(t, m, eventMsg(events.Event{Kind: events.BoxrouterStatus, Data: []byte(`"connected"`)}))

	assert.Equal(t, "connected", m.box.BoxrouterStatus)
	assert.Equal(t, []string{"Boxrouter error", "AstroPrint Boxrouter Connected"}, noticeTitles(m))
	assert.Equal(t, levelError, m.notices[0].level)
	assert.Equal(t, levelSuccess, m.notices[1].level)
}

func TestCameraAndSocketEvents(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))

	m, _ = update(t, m, eventMsg(events.Event{Kind: events.CameraStatus, Data: []byte(`true`)}))
	assert.True(t, m.box.CameraConnected)
	assert.Equal(t, []string{"Camera detected"}, noticeTitles(m))

	m, _ = update(t, m, eventMsg(events.Event{Kind: events.SocketUpdate, Data: []byte(`{"heatingUp":true,"currentLayer":7,"camera":false}`)}))
	assert.False(t, m.box.CameraConnected)
	require.NotNil(t, m.socket.CurrentLayer)
	assert.Equal(t, 7, *m.socket.CurrentLayer)
	assert.True(t, m.socket.HeatingUp)
}

func TestUserLoggedProbesUntilAdmin(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api)
	m.started = true
	m.session.Settle(false)

	m, cmd := update(t, m, eventMsg(events.Event{Kind: events.UserLogged}))
	require.NotNil(t, cmd)
	require.Equal(t, session.Checking, m.session.State())
	gen := m.session.Generation()

	m, cmd = update(t, m, probeMsg{gen: gen, admin: false})
	assert.NotNil(t, cmd, "a mismatched probe schedules another")

	m, cmd = update(t, m, probeMsg{gen: gen, admin: true})
	assert.NotNil(t, cmd, "becoming admin reloads the initial state")
	assert.False(t, m.started)
	assert.True(t, m.session.Admin())

	// Late results from the finished sequence change nothing.
	m, cmd = update(t, m, probeMsg{gen: gen, admin: false})
	assert.Nil(t, cmd)
	assert.True(t, m.session.Admin())
}

func TestUserLoggedOutDropsUser(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))
	m, _ = update(t, m, designsMsg{designs: makeDesigns(3)})

	m, _ = update(t, m, eventMsg(events.Event{Kind: events.UserLoggedOut}))
	gen := m.session.Generation()
	m, _ = update(t, m, probeMsg{gen: gen, admin: false})

	assert.False(t, m.session.Admin())
	assert.False(t, m.box.User.LoggedIn())
	assert.Empty(t, m.designs.All())
}

func TestInitialStateFailureRevealsViews(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})
	m.box.CanPrint = false

	m, _ = update(t, m, initialStateMsg{err: fmt.Errorf("boom")})

	assert.True(t, m.started)
	assert.True(t, m.box.CanPrint)
	assert.False(t, m.box.User.LoggedIn())
}

func TestInitialStateLoginLoadsDesigns(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})
	box := astroprint.InitialState{User: astroprint.OptionalUser{User: &astroprint.User{Email: "ada@example.com"}}, CanPrint: true}

	m, cmd := update(t, m, initialStateMsg{box: box})

	assert.True(t, m.started)
	assert.True(t, m.designsLoading)
	assert.NotNil(t, cmd)
	assert.True(t, m.store.Snapshot().LoggedIn())
}

func TestLoginFailures(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})

	m, _ = update(t, m, loginMsg{err: &astroprint.APIError{StatusCode: 403}})
	m, _ = update(t, m, loginMsg{err: &astroprint.APIError{StatusCode: 400, Code: "invalid_grant", Description: "bad code"}})

	assert.Equal(t, []string{"Login failed: Forbidden", "Login failed: invalid_grant"}, noticeTitles(m))
}

func TestLoginSuccess(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})
	m.started = true

	m, cmd := update(t, m, loginMsg{user: astroprint.User{Name: "Ada", Email: "ada@example.com"}})

	assert.True(t, m.box.User.LoggedIn())
	assert.NotNil(t, cmd)
	require.Len(t, m.notices, 1)
	assert.Contains(t, m.notices[0].text, "ada@example.com")
}

func TestRenameBoxValidation(t *testing.T) {
	api := &fakeAPI{}
	m := linked(newTestModel(t, api))
	m, _ = update(t, m, keyRunes("s"))
	require.Equal(t, ViewSettings, m.currentView)

	m, _ = update(t, m, keyRunes("b"))
	require.NotNil(t, m.modal)

	m, _ = update(t, m, keyRunes("bad name"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	require.NotNil(t, m.modal)
	assert.Contains(t, m.View(), "invalid box name")

	form := m.modal.(*formModal)
	form.fields[0].input.SetValue("my-box")
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.modal)
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Equal(t, "my-box", api.boxName)
	assert.Equal(t, "my-box", m.boxName)
}

func TestLoginModalRequiresAdmin(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})
	m.started = true

	m, _ = update(t, m, keyRunes("L"))
	assert.Nil(t, m.modal)
	assert.Equal(t, []string{"Please log in"}, noticeTitles(m))

	m.session.Settle(true)
	m, _ = update(t, m, keyRunes("L"))
	require.NotNil(t, m.modal)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "access key is missing")
}

func TestPrinterPicker(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))
	m, _ = update(t, m, keyRunes("s"))

	m, cmd := update(t, m, keyRunes("m"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Contains(t, m.View(), "Prusa")

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Contains(t, m.View(), "MK4")

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.modal)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, "MK4", m.printerModel)
}

func TestViewRendersPager(t *testing.T) {
	m := linked(newTestModel(t, &fakeAPI{}))
	m, _ = update(t, m, designsMsg{designs: makeDesigns(12)})

	view := m.View()
	assert.Contains(t, view, "page 1/3")
	assert.Contains(t, view, "Design 05")
	assert.False(t, strings.Contains(view, "Design 06"))
}

func TestApplySnapshotIgnoresErrors(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})
	store := &state.Store{}
	store.Update(nil, fmt.Errorf("connection refused"))

	m, _ = update(t, m, snapshotMsg(store.Snapshot()))
	assert.False(t, m.started)
	assert.Contains(t, m.View(), "OFFLINE")
}
