package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/disposable/internal/scenario"
)

const historySize = 12

type historyEntry struct {
	err    error
	result scenario.Result
}

type interactiveModel struct {
	runner  *scenario.Runner
	history []historyEntry
	input   textinput.Model
	printer printer
}

func newInteractiveModel(runner *scenario.Runner, styled bool) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "new conn"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()

	return &interactiveModel{
		runner:  runner,
		input:   ti,
		printer: printer{styled: styled},
	}
}

func runInteractive(opts options) error {
	runner, _, err := newRunner(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(newInteractiveModel(runner, opts.styled)).Run()
	return err
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			m.exec(m.input.Value())
			m.input.Reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) exec(line string) {
	res, err := m.runner.Exec(line)
	if res.Command == "" && err == nil {
		return
	}
	m.history = append(m.history, historyEntry{result: res, err: err})
	if len(m.history) > historySize {
		m.history = m.history[len(m.history)-historySize:]
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(m.printer.render(titleStyle, "Disposal Trace"))
	b.WriteString("\n\n")

	for _, h := range m.history {
		m.printer.result(&b, h.result)
		if h.err != nil {
			b.WriteString("      ")
			b.WriteString(m.printer.render(violationStyle, fmt.Sprintf("error: %v", h.err)))
			b.WriteString("\n")
		}
	}
	if len(m.history) > 0 {
		b.WriteString("\n")
	}

	m.printer.table(&b, m.runner.Snapshot())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.printer.render(helpStyle,
		"new make retain release dispose guard log assoc weak get drop gc state • enter run • esc quit"))

	return b.String()
}
