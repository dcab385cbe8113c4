package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

const modalWidth = 64

// formModal is a small form of text fields with validation.
type formModal struct {
	title  string
	fields []formField
	focus  int
	err    string

	// describe returns explanatory lines shown above the fields. It sees
	// the current values, so the text can follow what is typed.
	describe func(values []string) []string
	validate func(values []string) error
	submit   func(values []string) tea.Cmd
}

type formField struct {
	label string
	input textinput.Model
}

func newField(label, placeholder, value string) formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = modalWidth - 20
	ti.Prompt = ""
	ti.SetValue(value)
	return formField{label: label, input: ti}
}

// newFormModal builds a form with the first field focused.
func newFormModal(title string, fields ...formField) *formModal {
	f := &formModal{title: title, fields: fields}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f *formModal) values() []string {
	out := make([]string, len(f.fields))
	for i, field := range f.fields {
		out[i] = strings.TrimSpace(field.input.Value())
	}
	return out
}

func (f *formModal) setFocus(i int) {
	f.fields[f.focus].input.Blur()
	f.focus = (i + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

// Update implements Modal.
func (f *formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.Escape):
			return nil, nil, true
		case key.Matches(k, keys.Confirm):
			if f.focus < len(f.fields)-1 {
				f.setFocus(f.focus + 1)
				return f, nil, false
			}
			values := f.values()
			if f.validate != nil {
				if err := f.validate(values); err != nil {
					f.err = err.Error()
					return f, nil, false
				}
			}
			var cmd tea.Cmd
			if f.submit != nil {
				cmd = f.submit(values)
			}
			return nil, cmd, true
		case key.Matches(k, keys.NextField):
			f.setFocus(f.focus + 1)
			return f, nil, false
		case k.String() == "shift+tab" || k.String() == "up":
			f.setFocus(f.focus - 1)
			return f, nil, false
		}
	}

	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	f.err = ""
	return f, cmd, false
}

// View implements Modal.
func (f *formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(f.title))
	b.WriteString("\n\n")

	if f.describe != nil {
		for _, line := range f.describe(f.values()) {
			b.WriteString(styles.MutedText.Width(modalWidth - 6).Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	for i, field := range f.fields {
		label := styles.MutedText.Render(padRight(field.label, 14))
		if i == f.focus {
			label = styles.AccentText.Bold(true).Render(padRight(field.label, 14))
		}
		b.WriteString(label)
		b.WriteString(field.input.View())
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter: next/confirm · tab: next field · esc: cancel"))

	return placeModal(theme, width, height, b.String())
}

// placeModal frames content and centers it on screen.
func placeModal(theme Theme, width, height int, content string) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(modalWidth)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
