package prompt

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// multiSelectModel is the bubbletea model for multi-choice prompts.
// An empty selection is a valid answer.
type multiSelectModel struct {
	message   string
	options   []Option
	cursor    int
	checked   map[int]bool
	done      bool
	cancelled bool
}

func newMultiSelectModel(message string, options []Option) multiSelectModel {
	return multiSelectModel{
		message: message,
		options: options,
		checked: make(map[int]bool),
	}
}

func (m multiSelectModel) Init() tea.Cmd { return nil }

func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if isCancelKey(key) {
		m.cancelled = true
		return m, tea.Quit
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case " ":
		m.checked[m.cursor] = !m.checked[m.cursor]
	case "a":
		for i := range m.options {
			m.checked[i] = true
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m multiSelectModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.message) + "\n\n")

	for i, opt := range m.options {
		box := "[ ]"
		if m.checked[i] {
			box = selectedStyle.Render("[x]")
		}
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + box + " " + opt.Label)
		} else {
			b.WriteString("  " + box + " " + opt.Label)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + dimStyle.Render("space toggle · a all · enter confirm · esc cancel") + "\n")
	return b.String()
}

// selectedValues returns the checked option values in display order.
func (m multiSelectModel) selectedValues() []string {
	var values []string
	for i, opt := range m.options {
		if m.checked[i] {
			values = append(values, opt.Value)
		}
	}
	return values
}
