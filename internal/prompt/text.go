package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// textModel is the bubbletea model for free-form input with optional
// inline validation.
type textModel struct {
	message   string
	input     textinput.Model
	validate  func(string) error
	errMsg    string
	done      bool
	cancelled bool
}

func newTextModel(message string, validate func(string) error) textModel {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	return textModel{
		message:  message,
		input:    ti,
		validate: validate,
	}
}

func (m textModel) Init() tea.Cmd { return textinput.Blink }

func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if isCancelKey(key) {
			m.cancelled = true
			return m, tea.Quit
		}

		if key.Type == tea.KeyEnter {
			if m.validate != nil {
				if err := m.validate(m.input.Value()); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.errMsg != "" {
		m.errMsg = ""
	}
	return m, cmd
}

func (m textModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.message) + "\n")
	b.WriteString(m.input.View() + "\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString(dimStyle.Render("enter submit · esc cancel") + "\n")
	return b.String()
}
