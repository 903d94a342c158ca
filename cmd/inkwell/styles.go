package main

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"}

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	idStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Width(5).
		Align(lipgloss.Right)

	dimStyle = lipgloss.NewStyle().Foreground(colorDim)
)
