// Package prompt provides the interactive prompt surface for gitdraft.
//
// The workflow orchestrators depend on the Surface interface only. The
// bubbletea-backed implementation renders select, confirm, text, and
// multiselect prompts; a user pressing Esc or Ctrl+C yields the
// cancellation sentinel errors.ErrCancelled, which callers must treat as a
// terminal state rather than a fault.
package prompt

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gitdraft/gitdraft/internal/errors"
)

// Option is a selectable choice with a display label and a stable value.
type Option struct {
	Label string
	Value string
}

// Surface is the contract between the workflow orchestrators and the
// terminal. Production uses the bubbletea implementation returned by New;
// tests substitute a scripted fake.
type Surface interface {
	// Select presents options and returns the chosen value.
	Select(message string, options []Option) (string, error)

	// Confirm asks a yes/no question.
	Confirm(message string) (bool, error)

	// Text asks for free-form input. A non-nil validate rejects input
	// inline until it passes.
	Text(message string, validate func(string) error) (string, error)

	// MultiSelect presents options and returns the chosen values.
	// An empty selection is a valid answer.
	MultiSelect(message string, options []Option) ([]string, error)
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// TUI implements Surface with bubbletea programs.
type TUI struct{}

// New creates the production prompt surface.
func New() *TUI {
	return &TUI{}
}

func (t *TUI) Select(message string, options []Option) (string, error) {
	model, err := runProgram(newSelectModel(message, options))
	if err != nil {
		return "", err
	}
	m := model.(selectModel)
	if m.cancelled {
		return "", errors.ErrCancelled
	}
	return m.options[m.cursor].Value, nil
}

func (t *TUI) Confirm(message string) (bool, error) {
	model, err := runProgram(newConfirmModel(message))
	if err != nil {
		return false, err
	}
	m := model.(confirmModel)
	if m.cancelled {
		return false, errors.ErrCancelled
	}
	return m.answer, nil
}

func (t *TUI) Text(message string, validate func(string) error) (string, error) {
	model, err := runProgram(newTextModel(message, validate))
	if err != nil {
		return "", err
	}
	m := model.(textModel)
	if m.cancelled {
		return "", errors.ErrCancelled
	}
	return m.input.Value(), nil
}

func (t *TUI) MultiSelect(message string, options []Option) ([]string, error) {
	model, err := runProgram(newMultiSelectModel(message, options))
	if err != nil {
		return nil, err
	}
	m := model.(multiSelectModel)
	if m.cancelled {
		return nil, errors.ErrCancelled
	}
	return m.selectedValues(), nil
}

func runProgram(model tea.Model) (tea.Model, error) {
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}
	return final, nil
}

// isCancelKey reports whether the key aborts the prompt.
func isCancelKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		return true
	}
	return false
}
