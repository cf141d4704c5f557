// Package tui is a terminal host for the input method: a small text editor
// drawn with bubbletea that plays the document, the candidate window and
// the language bar.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#FF6B6B") // Red - titles, selection keys
	ColorSecondary = lipgloss.Color("#4ecdc4") // Teal - mode badges
	ColorAccent    = lipgloss.Color("#ffe66d") // Yellow - composition
	ColorMuted     = lipgloss.Color("#666666") // Gray - help text
	ColorSuccess   = lipgloss.Color("#a8e6cf") // Green - notifications
	ColorText      = lipgloss.Color("#f1faee") // Light text
	ColorBg        = lipgloss.Color("#1a1a2e") // Dark background
	ColorBgAlt     = lipgloss.Color("#2d3436") // Alt background
	ColorBorder    = lipgloss.Color("#3d5a80") // Border color
)

// Title styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorBg).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)
)

// Document styles
var (
	EditorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	CompositionStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Underline(true)

	CaretStyle = lipgloss.NewStyle().
			Reverse(true)
)

// Candidate window styles
var (
	CandidateBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorSecondary).
				Padding(0, 1)

	CandidatePageStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)
)

// Status bar styles
var (
	BadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBg).
			Background(ColorSecondary).
			Padding(0, 1)

	BadgeOffStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Background(ColorBgAlt).
			Padding(0, 1)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)
)
