// Package tui implements the interactive calculator.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pengelbrecht/tally/internal/calculator"
	"github.com/pengelbrecht/tally/internal/styles"
)

const maxHistory = 10

type field int

const (
	fieldA field = iota
	fieldB
)

// Model is the bubbletea model for tally tui.
type Model struct {
	inputs    [2]textinput.Model
	focus     field
	opIndex   int
	precision int
	history   []string
	err       error
	width     int
}

// New creates a model with the given display precision.
func New(precision int) Model {
	m := Model{precision: precision}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = "0"
		ti.CharLimit = 32
		ti.Width = 20
		ti.Prompt = ""
		m.inputs[i] = ti
	}
	m.inputs[fieldA].Focus()
	return m
}

// Run starts the program on the terminal and blocks until it exits.
func Run(precision int) error {
	_, err := tea.NewProgram(New(precision)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "shift+tab", "up", "down":
			return m, m.toggleFocus()
		case "ctrl+o":
			m.opIndex = (m.opIndex + 1) % len(calculator.Ops)
			return m, nil
		case "enter":
			m.evaluate()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) toggleFocus() tea.Cmd {
	m.inputs[m.focus].Blur()
	if m.focus == fieldA {
		m.focus = fieldB
	} else {
		m.focus = fieldA
	}
	return m.inputs[m.focus].Focus()
}

func (m Model) op() calculator.Op {
	return calculator.Ops[m.opIndex]
}

func (m *Model) evaluate() {
	a, err := calculator.ParseOperand(m.inputs[fieldA].Value())
	if err != nil {
		m.err = fmt.Errorf("first operand: %w", err)
		return
	}
	b, err := calculator.ParseOperand(m.inputs[fieldB].Value())
	if err != nil {
		m.err = fmt.Errorf("second operand: %w", err)
		return
	}
	result, err := calculator.Apply(m.op(), a, b)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil

	line := fmt.Sprintf("%s %s %s = %s",
		calculator.Format(a, -1), m.op().Symbol(), calculator.Format(b, -1),
		calculator.Format(result, m.precision))
	m.history = append([]string{line}, m.history...)
	if len(m.history) > maxHistory {
		m.history = m.history[:maxHistory]
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("tally"))
	b.WriteString("\n\n")

	row := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.BoxStyle.Render(m.inputs[fieldA].View()),
		styles.OpStyle.Render(m.op().Symbol()),
		styles.BoxStyle.Render(m.inputs[fieldB].View()),
	)
	b.WriteString(row)
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	if len(m.history) > 0 {
		b.WriteString("\n")
		for i, line := range m.history {
			line = m.truncate(line)
			if i == 0 {
				b.WriteString(styles.ResultStyle.Render(line))
			} else {
				b.WriteString(styles.MutedStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.MutedStyle.Render("tab: switch field · ctrl+o: change op · enter: evaluate · esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) truncate(line string) string {
	if m.width <= 0 || ansi.StringWidth(line) <= m.width {
		return line
	}
	return ansi.Truncate(line, m.width, "…")
}
