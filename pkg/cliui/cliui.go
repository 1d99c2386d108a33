// Package cliui provides shared terminal styling for graphzep CLI commands.
package cliui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// SuccessMark and FailMark prefix one-line command results.
	SuccessMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")

	// KeyStyle renders config key names, ValueStyle their values.
	KeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	ValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	// DimStyle renders secondary detail like file paths and placeholders.
	DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)
