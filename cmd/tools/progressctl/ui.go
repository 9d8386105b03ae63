package main

import (
	"fmt"
	"strings"

	"carecase-workers/internal/progress"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	purple = lipgloss.Color("99")
	green  = lipgloss.Color("76")
	red    = lipgloss.Color("204")
	yellow = lipgloss.Color("214")
	dim    = lipgloss.Color("243")
	faint  = lipgloss.Color("238")
)

var (
	accentStyle  = lipgloss.NewStyle().Foreground(purple)
	successStyle = lipgloss.NewStyle().Foreground(green)
	errorStyle   = lipgloss.NewStyle().Foreground(red)
	warnStyle    = lipgloss.NewStyle().Foreground(yellow)
	mutedStyle   = lipgloss.NewStyle().Foreground(dim)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(dim)
)

func successMsg(format string, a ...any) string {
	return successStyle.Render("✓") + " " + fmt.Sprintf(format, a...)
}

func warnMsg(format string, a ...any) string {
	return warnStyle.Render("!") + " " + fmt.Sprintf(format, a...)
}

func errorMsg(format string, a ...any) string {
	return errorStyle.Render("✗") + " " + fmt.Sprintf(format, a...)
}

type pair struct {
	key   string
	value string
}

func keyValues(indent string, pairs ...pair) string {
	maxLen := 0
	for _, p := range pairs {
		if len(p.key) > maxLen {
			maxLen = len(p.key)
		}
	}

	var sb strings.Builder
	for _, p := range pairs {
		label := fmt.Sprintf("%-*s", maxLen+1, p.key+":")
		sb.WriteString(indent + labelStyle.Render(label) + " " + p.value + "\n")
	}
	return sb.String()
}

func renderTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().
		Foreground(purple).
		Bold(true).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	oddStyle := cellStyle.Foreground(dim)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(faint)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return cellStyle
			default:
				return oddStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)

	return t.String()
}

var stateMarks = map[progress.StepState]string{
	progress.StatePast:    successStyle.Render("✓"),
	progress.StateCurrent: accentStyle.Render("●"),
	progress.StateFuture:  mutedStyle.Render("○"),
}

// renderStepper draws one line per step with its narrative underneath.
func renderStepper(res *progress.Resolution) string {
	var sb strings.Builder
	for _, step := range res.Steps {
		title := fmt.Sprintf("%d. %s", step.Index+1, step.Title)
		desc := mutedStyle.Render(step.Description)
		switch step.State {
		case progress.StateCurrent:
			title = boldStyle.Render(title)
			desc = step.Description
		case progress.StateFuture:
			title = mutedStyle.Render(title)
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", stateMarks[step.State], title))
		sb.WriteString("    " + desc + "\n")
		if step.Action != "" {
			sb.WriteString("    " + accentStyle.Render("action: "+step.Action) + "\n")
		}
	}
	return sb.String()
}
