package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/disposable/disposal"
	"github.com/wippyai/disposable/internal/scenario"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	outputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	violationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	guardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD580"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type printer struct {
	styled bool
}

func (p printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p printer) result(w io.Writer, res scenario.Result) {
	fmt.Fprintf(w, "%4d  %s", res.Line, p.render(commandStyle, res.Command))
	if res.Output != "" {
		fmt.Fprintf(w, "  -> %s", p.render(outputStyle, res.Output))
	}
	fmt.Fprintln(w)
	for _, d := range res.Diagnostics {
		p.diagnostic(w, d)
	}
}

func (p printer) diagnostic(w io.Writer, d disposal.Diagnostic) {
	if d.Err == nil {
		fmt.Fprintf(w, "      %s\n", p.render(guardStyle, "log: "+d.String()))
		return
	}
	fmt.Fprintf(w, "      %s\n", p.render(violationStyle, "violation: "+d.String()))
}

func (p printer) table(w io.Writer, rows []scenario.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, p.render(helpStyle, "no live objects"))
		return
	}

	headers := []string{"NAME", "STATE", "COUNT", "INSTANCE", "ASSOCIATIONS"}
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = []string{
			row.Name,
			row.State.String(),
			fmt.Sprint(row.Count),
			row.Instance,
			strings.Join(row.Associations, " "),
		}
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, c := range cells {
		for i, v := range c {
			widths[i] = max(widths[i], len(v))
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(p.render(headerStyle, pad(h, widths[i])))
		b.WriteString("  ")
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))

	for i, c := range cells {
		b.Reset()
		for j, v := range c {
			text := pad(v, widths[j])
			if j == 1 {
				text = p.render(stateStyle(rows[i].State), text)
			}
			b.WriteString(text)
			b.WriteString("  ")
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

func stateStyle(s disposal.State) lipgloss.Style {
	switch s {
	case disposal.Active:
		return outputStyle
	case disposal.Disposed:
		return violationStyle
	default:
		return helpStyle
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
