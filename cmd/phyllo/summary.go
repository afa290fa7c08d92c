package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Faultbox/phyllo/internal/batch"
	"github.com/Faultbox/phyllo/internal/generate"
)

var (
	leafGreen = lipgloss.Color("#4ca078")
	tipYellow = lipgloss.Color("#efff00")
	errorRed  = lipgloss.Color("#e53935")
	muted     = lipgloss.Color("#8a8f98")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(leafGreen)
	labelStyle   = lipgloss.NewStyle().Foreground(muted).Width(10)
	valueStyle   = lipgloss.NewStyle().Foreground(tipYellow)
	successStyle = lipgloss.NewStyle().Foreground(leafGreen)
	failStyle    = lipgloss.NewStyle().Foreground(errorRed)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(leafGreen).
			Padding(0, 1)
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

// renderStats formats one generated model.
func renderStats(s generate.Stats, dest string) string {
	size := s.Bounds.Size()
	rows := []string{
		titleStyle.Render(s.Kind),
		row("file", dest),
		row("vertices", fmt.Sprint(s.Vertices)),
		row("faces", fmt.Sprint(s.Faces)),
		row("groups", fmt.Sprint(s.Groups)),
		row("size", fmt.Sprintf("%.2f × %.2f × %.2f", size.X, size.Y, size.Z)),
		row("time", s.Elapsed.Round(time.Microsecond).String()),
	}
	if s.FoliageVertices > 0 {
		rows = append(rows, row("foliage", fmt.Sprintf("%d vertices", s.FoliageVertices)))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderReport formats a batch run.
func renderReport(r *batch.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("batch %s", r.RunID[:8])))
	b.WriteString("\n")
	for _, res := range r.Results {
		if res.Success {
			b.WriteString(successStyle.Render("✓ "))
			b.WriteString(fmt.Sprintf("%-20s %8d vertices  %s\n", res.File, res.Stats.Vertices, res.Duration.Round(time.Millisecond)))
		} else {
			b.WriteString(failStyle.Render("✗ "))
			b.WriteString(fmt.Sprintf("%-20s %s\n", res.Name, res.Error))
		}
	}
	b.WriteString(row("dir", r.Dir))
	b.WriteString("\n")
	b.WriteString(row("elapsed", r.Duration.Round(time.Millisecond).String()))
	return boxStyle.Render(b.String())
}
