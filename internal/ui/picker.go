package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/astroprint/astrodeck/internal/astroprint"
	"github.com/astroprint/astrodeck/internal/paging"
)

// pickerItemsMsg carries manufacturers, or the models of one manufacturer,
// to the printer picker.
type pickerItemsMsg struct {
	manufacturer  *astroprint.Manufacturer
	manufacturers []astroprint.Manufacturer
	models        []astroprint.PrinterModel
	err           error
}

// printerPicker chooses a printer model in two steps: manufacturer, then
// model. Both lists are paginated and filterable like the designs list.
type printerPicker struct {
	manufacturers *paging.Paginator[astroprint.Manufacturer]
	models        *paging.Paginator[astroprint.PrinterModel]
	chosen        *astroprint.Manufacturer
	cursor        int
	loading       bool
	filter        textinput.Model
	limit         int

	fetchModels func(astroprint.Manufacturer) tea.Cmd
	submit      func(astroprint.PrinterModel) tea.Cmd
}

// openPrinterPicker opens the picker and requests the manufacturers.
func (m Model) openPrinterPicker() (tea.Model, tea.Cmd) {
	if m.api == nil {
		return m, nil
	}
	api := m.api
	filter := textinput.New()
	filter.Placeholder = "Filter..."
	filter.Prompt = "/"
	filter.CharLimit = 60

	m.modal = &printerPicker{
		manufacturers: paging.New[astroprint.Manufacturer](m.designs.PageSize()),
		models:        paging.New[astroprint.PrinterModel](m.designs.PageSize()),
		loading:       true,
		filter:        filter,
		limit:         m.windowLimit(),
		fetchModels: func(man astroprint.Manufacturer) tea.Cmd {
			return m.call(func(ctx context.Context) tea.Msg {
				models, err := api.PrinterModels(ctx, man.ID)
				return pickerItemsMsg{manufacturer: &man, models: models, err: err}
			})
		},
		submit: m.changePrinterModelCmd,
	}
	cmd := m.call(func(ctx context.Context) tea.Msg {
		items, err := api.Manufacturers(ctx)
		return pickerItemsMsg{manufacturers: items, err: err}
	})
	return m, cmd
}

// receive takes over fetched items. A failed fetch closes the picker.
func (p *printerPicker) receive(msg pickerItemsMsg) Modal {
	if msg.err != nil {
		return nil
	}
	p.loading = false
	p.cursor = 0
	if msg.manufacturer != nil {
		p.chosen = msg.manufacturer
		p.models.SetItems(msg.models)
		p.models.SetQuery("")
	} else {
		p.manufacturers.SetItems(msg.manufacturers)
	}
	p.filter.SetValue("")
	return p
}

// Update implements Modal.
func (p *printerPicker) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil, false
	}

	if p.filter.Focused() {
		switch k.Type {
		case tea.KeyEnter, tea.KeyEsc:
			p.filter.Blur()
			return p, nil, false
		}
		var cmd tea.Cmd
		p.filter, cmd = p.filter.Update(k)
		p.applyFilter()
		return p, cmd, false
	}

	switch {
	case key.Matches(k, keys.Escape):
		if p.chosen != nil {
			p.chosen = nil
			p.cursor = 0
			p.filter.SetValue(p.manufacturers.Query())
			return p, nil, false
		}
		return nil, nil, true
	case key.Matches(k, keys.Filter):
		return p, p.filter.Focus(), false
	case key.Matches(k, keys.Confirm):
		if p.loading {
			return p, nil, false
		}
		if p.chosen == nil {
			items := p.manufacturers.Items()
			if len(items) == 0 {
				return p, nil, false
			}
			p.loading = true
			return p, p.fetchModels(items[clampCursor(p.cursor, len(items))]), false
		}
		items := p.models.Items()
		if len(items) == 0 {
			return p, nil, false
		}
		return nil, p.submit(items[clampCursor(p.cursor, len(items))]), true
	}

	if p.chosen == nil {
		navigate(p.manufacturers, &p.cursor, p.limit, keys, k)
	} else {
		navigate(p.models, &p.cursor, p.limit, keys, k)
	}
	return p, nil, false
}

func (p *printerPicker) applyFilter() {
	p.cursor = 0
	if p.chosen == nil {
		p.manufacturers.SetQuery(p.filter.Value())
		return
	}
	p.models.SetQuery(p.filter.Value())
}

// View implements Modal.
func (p *printerPicker) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	if p.chosen == nil {
		b.WriteString(styles.Text.Bold(true).Render("Printer manufacturer"))
	} else {
		b.WriteString(styles.Text.Bold(true).Render(p.chosen.Name + " models"))
	}
	b.WriteString("\n\n")

	if p.loading {
		b.WriteString(styles.WarningText.Render("Loading..."))
		return placeModal(theme, width, height, b.String())
	}

	if p.filter.Focused() {
		b.WriteString(p.filter.View())
	} else if q := p.filter.Value(); q != "" {
		b.WriteString(styles.MutedText.Render("filter: ") + styles.AccentText.Render(q))
	} else {
		b.WriteString(styles.FaintText.Render("/ to filter"))
	}
	b.WriteString("\n\n")

	var rows []string
	var pager string
	if p.chosen == nil {
		for _, man := range p.manufacturers.Items() {
			rows = append(rows, man.Name)
		}
		pager = renderPager(theme, p.manufacturers, p.limit, theme.Background)
	} else {
		for _, model := range p.models.Items() {
			rows = append(rows, model.Name)
		}
		pager = renderPager(theme, p.models, p.limit, theme.Background)
	}
	if len(rows) == 0 {
		b.WriteString(styles.MutedText.Render("Nothing to choose from"))
	} else {
		b.WriteString(renderRows(theme, rows, clampCursor(p.cursor, len(rows)), modalWidth-6, theme.Background))
	}
	b.WriteString("\n\n")
	b.WriteString(pager)
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("enter: choose · esc: back"))

	return placeModal(theme, width, height, b.String())
}
