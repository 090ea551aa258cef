// Package replay renders a session log (internal/session) and its directive
// ledger (internal/checkpoint) as a readable timeline, for forensic review
// of a completed or in-flight orchestrator run.
package replay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	agentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("13"))

	directiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	seqStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Width(5).
			Align(lipgloss.Right)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	divider = dimStyle.Render(strings.Repeat("─", 60))
)
