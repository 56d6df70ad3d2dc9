package prompt

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// selectModel is the bubbletea model for single-choice prompts.
type selectModel struct {
	message   string
	options   []Option
	cursor    int
	done      bool
	cancelled bool
}

func newSelectModel(message string, options []Option) selectModel {
	return selectModel{message: message, options: options}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
	case "enter":
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m selectModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.message) + "\n\n")

	for i, opt := range m.options {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + selectedStyle.Render(opt.Label))
		} else {
			b.WriteString("  " + opt.Label)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + dimStyle.Render("↑/↓ move · enter select · esc cancel") + "\n")
	return b.String()
}

// confirmModel is the bubbletea model for yes/no prompts.
type confirmModel struct {
	message   string
	answer    bool
	done      bool
	cancelled bool
}

func newConfirmModel(message string) confirmModel {
	return confirmModel{message: message, answer: true}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if isCancelKey(key) {
		m.cancelled = true
		return m, tea.Quit
	}

	switch key.String() {
	case "y", "Y":
		m.answer = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.answer = false
		m.done = true
		return m, tea.Quit
	case "left", "right", "h", "l", "tab":
		m.answer = !m.answer
	case "enter":
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m confirmModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	yes, no := "yes", "no"
	if m.answer {
		yes = selectedStyle.Render("[yes]")
	} else {
		no = selectedStyle.Render("[no]")
	}

	return fmt.Sprintf("%s %s / %s\n%s\n",
		titleStyle.Render(m.message), yes, no,
		dimStyle.Render("y/n · enter confirm · esc cancel"))
}
