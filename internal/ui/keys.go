package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Escape     key.Binding

	// View switching
	ViewDesigns  key.Binding
	ViewSettings key.Binding
	ViewLogs     key.Binding

	// Lists
	Up        key.Binding
	Down      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
	GoToPage  key.Binding
	Filter    key.Binding
	Refresh   key.Binding

	// Downloads
	Open           key.Binding
	DownloadDesign key.Binding
	CancelDownload key.Binding

	// Account and box
	Login            key.Binding
	Logout           key.Binding
	RenameBox        key.Binding
	PrinterModel     key.Binding
	Filament         key.Binding
	CheckCamera      key.Binding
	ConnectBoxrouter key.Binding

	// Logs
	ToggleFollow key.Binding

	// Forms
	Confirm   key.Binding
	NextField key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),

		ViewDesigns: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Designs"),
		),
		ViewSettings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Box settings"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Logs"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "p"),
			key.WithHelp("p/left", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "n"),
			key.WithHelp("n/right", "Next page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "First page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Last page"),
		),
		GoToPage: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "Pick shown page link"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),

		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Print files / print"),
		),
		DownloadDesign: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Download design"),
		),
		CancelDownload: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Cancel download"),
		),

		Login: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Link AstroPrint account"),
		),
		Logout: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "Log out of AstroPrint"),
		),
		RenameBox: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Rename box"),
		),
		PrinterModel: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Printer model"),
		),
		Filament: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Filament"),
		),
		CheckCamera: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Scan for camera"),
		),
		ConnectBoxrouter: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "Connect box-router"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewDesigns, k.ViewSettings, k.ViewLogs, k.Escape},
		{k.Up, k.Down, k.PrevPage, k.NextPage, k.FirstPage, k.LastPage, k.GoToPage},
		{k.Filter, k.Refresh, k.Open, k.DownloadDesign, k.CancelDownload},
		{k.Login, k.Logout, k.RenameBox, k.PrinterModel, k.Filament, k.CheckCamera, k.ConnectBoxrouter},
		{k.ToggleFollow},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
