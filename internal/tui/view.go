package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lachiem1/meterUp/internal/billing"
	"github.com/lachiem1/meterUp/internal/busy"
	"github.com/lachiem1/meterUp/internal/form"
)

func (m model) View() string {
	if m.quitting {
		return ""
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F47A60")).
		Padding(1, 2)
	if m.width > 0 {
		frame = frame.Width(max(1, m.width-frame.GetHorizontalBorderSize()))
	}
	layoutWidth := max(40, m.width-frame.GetHorizontalFrameSize())

	sections := []string{
		lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, renderTitle()),
		"",
		m.renderForm(),
		"",
		renderButton(m.button, m.focus == focusButton),
	}
	if m.hasView {
		sections = append(sections, "", m.renderResult())
	}
	if m.commandText != "" {
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD54A")).
			Render(m.commandText))
	}
	sections = append(sections, "", m.renderHelpLine())

	return frame.Render(strings.Join(sections, "\n"))
}

func renderTitle() string {
	raw := []string{
		"█▀▄▀█ █▀▀ ▀█▀ █▀▀ █▀█ █ █ █▀█",
		"█ ▀ █ ██▄  █  ██▄ █▀▄ █▄█ █▀▀",
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#87CEEB")).
		Bold(true)
	rows := make([]string, 0, len(raw))
	for _, line := range raw {
		rows = append(rows, style.Render(line))
	}
	return strings.Join(rows, "\n")
}

func (m model) renderForm() string {
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#B9B4D0")).
		Width(10)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#6B7280")).
		Padding(0, 1).
		Width(26)
	focusedBox := boxStyle.BorderForeground(lipgloss.Color("#FFD54A"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B"))

	blocks := make([]string, 0, len(form.FieldNames))
	for i, name := range form.FieldNames {
		box := boxStyle
		if i == m.focus {
			box = focusedBox
		}
		row := lipgloss.JoinHorizontal(
			lipgloss.Center,
			labelStyle.Render(fieldTitle(name)),
			box.Render(m.inputs[i].View()),
		)
		lines := []string{row}
		if msg := m.form.Error(name); msg != "" {
			lines = append(lines, strings.Repeat(" ", 10)+errStyle.Render(msg))
		}
		if i == m.focus && m.showSuggestions {
			lines = append(lines, m.renderSuggestions())
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n")
}

func (m model) renderSuggestions() string {
	indent := strings.Repeat(" ", 11)
	if len(m.suggestions) == 0 {
		return indent + lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8D88A8")).
			Italic(true).
			Render(form.NoResults)
	}

	start := 0
	if m.suggestionIndex >= maxSuggestionRows {
		start = m.suggestionIndex - maxSuggestionRows + 1
	}
	end := min(len(m.suggestions), start+maxSuggestionRows)

	base := lipgloss.NewStyle().
		Background(lipgloss.Color("#1B2330")).
		Foreground(lipgloss.Color("#B9B4D0")).
		Width(24)
	selected := base.
		Background(lipgloss.Color("#263249")).
		Foreground(lipgloss.Color("#FFD54A")).
		Bold(true)

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		style, prefix := base, "  "
		if i == m.suggestionIndex {
			style, prefix = selected, "› "
		}
		rows = append(rows, indent+style.Render(prefix+m.suggestions[i]))
	}
	return strings.Join(rows, "\n")
}

func renderButton(b busy.Button, focused bool) string {
	style := lipgloss.NewStyle().
		Padding(0, 3).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#0059C3")).
		Bold(true)
	if b.Disabled {
		style = style.
			Foreground(lipgloss.Color("#9CA3AF")).
			Background(lipgloss.Color("#374151")).
			Bold(false)
	}
	if focused {
		style = style.Underline(true)
	}
	return strings.Repeat(" ", 10) + style.Render(b.Label)
}

func (m model) renderResult() string {
	periodStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5FA8FF")).
		Bold(true)
	lines := []string{periodStyle.Render(m.view.PeriodLabel)}

	if m.view.DataError {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F15B5B")).
			Render("No bill data found for this period."))
	}
	if m.view.SummaryVisible {
		lines = append(lines, renderSummaryTable(m.view.Rows))
	}
	if m.view.NavEnabled {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF")).
			Render("pgup previous month   pgdown next month"))
	}
	return strings.Join(lines, "\n")
}

func renderSummaryTable(rows []billing.Row) string {
	emphasis := make(map[int]bool, len(rows))
	data := make([][]string, 0, len(rows))
	for i, row := range rows {
		data = append(data, []string{row.Field, row.Value})
		if row.Emphasis {
			emphasis[i] = true
		}
	}

	fieldStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#B9B4D0")).Padding(0, 1)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 1)
	strongStyle := valueStyle.Foreground(lipgloss.Color("#5CCB76")).Bold(true)
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F47A60")).Bold(true).Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))).
		Headers("Field", "Value").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case emphasis[row] && col == 1:
				return strongStyle
			case emphasis[row]:
				return fieldStyle.Bold(true)
			case col == 0:
				return fieldStyle
			default:
				return valueStyle
			}
		})
	return t.String()
}

func (m model) renderHelpLine() string {
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A"))
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#8D88A8"))
	items := [][2]string{
		{"tab", "next field"},
		{"enter", "select / fetch"},
		{"ctrl+r", "reset"},
		{"ctrl+e", "export xlsx"},
		{"ctrl+p", "export pdf"},
		{"esc", "quit"},
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, keyStyle.Render(it[0])+" "+descStyle.Render(it[1]))
	}
	return strings.Join(parts, "  ")
}
