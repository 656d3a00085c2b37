package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/khrees2412/placement/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(boardColumnWidth)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("8")).
			Width(boardColumnWidth - 2)
)

const boardColumnWidth = 34

// stageColors tints the board column headers.
var stageColors = map[models.Status]lipgloss.Color{
	models.StatusApplied: lipgloss.Color("14"),
	models.StatusPPT:     lipgloss.Color("11"),
	models.StatusTest:    lipgloss.Color("13"),
}

func stageLabel(s models.Status) string {
	labels := map[models.Status]string{
		models.StatusApplied: "📝 Applied",
		models.StatusPPT:     "🎤 PPT",
		models.StatusTest:    "🧪 Test",
	}
	if label, ok := labels[s]; ok {
		return label
	}
	return string(s)
}
