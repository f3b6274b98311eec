package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor        = lipgloss.Color("#ff8c00")
	emberColor         = lipgloss.Color("#2b1400")
	heroTextColor      = lipgloss.Color("#fff4d0")
	secondaryTextColor = lipgloss.Color("#ffb347")

	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	readingStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimSentenceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusSentenceStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166"))

	heroTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(emberColor).Padding(0, 2)
	taglineStyle   = lipgloss.NewStyle().Foreground(secondaryTextColor).Italic(true)
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(accentColor).Padding(0, 1)
	keyDescStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
)
